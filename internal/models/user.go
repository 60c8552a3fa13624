package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password,omitempty" json:"-"`
	Name     string             `bson:"name" json:"name"`

	Organizations         []Membership        `bson:"organizations" json:"organizations"`
	CurrentOrganizationID *primitive.ObjectID `bson:"currentOrganizationId,omitempty" json:"currentOrganizationId,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// MembershipFor returns the user's membership entry for the given organization.
func (u *User) MembershipFor(orgID primitive.ObjectID) (Membership, bool) {
	for _, m := range u.Organizations {
		if m.OrganizationID == orgID {
			return m, true
		}
	}
	return Membership{}, false
}

// IsMemberOf reports whether the user belongs to the given organization.
func (u *User) IsMemberOf(orgID primitive.ObjectID) bool {
	_, ok := u.MembershipFor(orgID)
	return ok
}
