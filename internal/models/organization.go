package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization is the unit of data isolation. Members holds user ids only;
// roles live on the User side (see Membership).
type Organization struct {
	ID      primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name    string               `bson:"name" json:"name"`
	Slug    string               `bson:"slug" json:"slug"`
	OwnerID primitive.ObjectID   `bson:"ownerId" json:"ownerId"`
	Members []primitive.ObjectID `bson:"members" json:"members"`

	Settings map[string]string `bson:"settings" json:"settings"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HasMember reports whether the given user id appears in the members set.
func (o *Organization) HasMember(userID primitive.ObjectID) bool {
	for _, id := range o.Members {
		if id == userID {
			return true
		}
	}
	return false
}
