package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type OrganizationRole string

const (
	RoleOwner  OrganizationRole = "owner"
	RoleAdmin  OrganizationRole = "admin"
	RoleMember OrganizationRole = "member"
)

// CanAdminister reports whether the role grants organization administration.
func (r OrganizationRole) CanAdminister() bool {
	return r == RoleOwner || r == RoleAdmin
}

// Membership is a normalized membership entry stored on the User document.
// It always references the organization by id; display data (name, slug) is
// projected separately and never stored here.
type Membership struct {
	OrganizationID primitive.ObjectID `bson:"organizationId" json:"organizationId"`
	Role           OrganizationRole   `bson:"role" json:"role"`
}
