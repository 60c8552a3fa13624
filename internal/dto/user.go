package dto

import (
	"github.com/taskboard/taskboard-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserDTO represents a user in API responses.
type UserDTO struct {
	ID                    primitive.ObjectID  `json:"id"`
	Email                 string              `json:"email"`
	Name                  string              `json:"name"`
	CurrentOrganizationID *primitive.ObjectID `json:"currentOrganizationId,omitempty"`
	Organizations         []MembershipDTO     `json:"organizations"`
}

// UserRefDTO is the display projection attached wherever a response
// references a user by id.
type UserRefDTO struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name,omitempty"`
	Email string             `json:"email,omitempty"`
}

// ToUserRefDTO resolves a user reference against a preloaded user map. An id
// missing from the map (a deleted user) degrades to an id-only reference.
func ToUserRefDTO(id primitive.ObjectID, users map[primitive.ObjectID]models.User) UserRefDTO {
	if user, ok := users[id]; ok {
		return UserRefDTO{ID: user.ID, Name: user.Name, Email: user.Email}
	}
	return UserRefDTO{ID: id}
}

// OrganizationRefDTO is the optional denormalized display projection attached
// to a membership. It never replaces the organization id reference.
type OrganizationRefDTO struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// MembershipDTO represents one membership entry in API responses.
type MembershipDTO struct {
	OrganizationID primitive.ObjectID      `json:"organizationId"`
	Role           models.OrganizationRole `json:"role"`
	Organization   *OrganizationRefDTO     `json:"organization,omitempty"`
}

// ToUserDTO converts a user to its response shape, memberships without the
// display projection.
func ToUserDTO(user models.User) UserDTO {
	memberships := make([]MembershipDTO, len(user.Organizations))
	for i, m := range user.Organizations {
		memberships[i] = MembershipDTO{
			OrganizationID: m.OrganizationID,
			Role:           m.Role,
		}
	}

	return UserDTO{
		ID:                    user.ID,
		Email:                 user.Email,
		Name:                  user.Name,
		CurrentOrganizationID: user.CurrentOrganizationID,
		Organizations:         memberships,
	}
}

// ToUserDTOWithOrganizations converts a user to its response shape with the
// organization display projection resolved onto each membership.
func ToUserDTOWithOrganizations(user models.User, orgs []models.Organization) UserDTO {
	refs := make(map[primitive.ObjectID]OrganizationRefDTO, len(orgs))
	for _, org := range orgs {
		refs[org.ID] = OrganizationRefDTO{Name: org.Name, Slug: org.Slug}
	}

	out := ToUserDTO(user)
	for i := range out.Organizations {
		if ref, ok := refs[out.Organizations[i].OrganizationID]; ok {
			r := ref
			out.Organizations[i].Organization = &r
		}
	}
	return out
}
