package dto

import (
	"github.com/taskboard/taskboard-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrganizationWithRoleDTO represents an organization with the user's role
type OrganizationWithRoleDTO struct {
	ID      primitive.ObjectID      `json:"id"`
	Name    string                  `json:"name"`
	Slug    string                  `json:"slug"`
	OwnerID primitive.ObjectID      `json:"ownerId"`
	Role    models.OrganizationRole `json:"role"`
}

// OrganizationMemberDTO represents a member in an organization
type OrganizationMemberDTO struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

// OrganizationDetailDTO represents detailed organization information
type OrganizationDetailDTO struct {
	ID       primitive.ObjectID      `json:"id"`
	Name     string                  `json:"name"`
	Slug     string                  `json:"slug"`
	OwnerID  primitive.ObjectID      `json:"ownerId"`
	Settings map[string]string       `json:"settings"`
	Members  []OrganizationMemberDTO `json:"members"`
}

// ToOrganizationWithRoleDTO converts an organization plus the user's
// membership role to its list shape
func ToOrganizationWithRoleDTO(org models.Organization, role models.OrganizationRole) OrganizationWithRoleDTO {
	return OrganizationWithRoleDTO{
		ID:      org.ID,
		Name:    org.Name,
		Slug:    org.Slug,
		OwnerID: org.OwnerID,
		Role:    role,
	}
}

// ToOrganizationDetailDTO converts an organization with its member users to
// the detail shape
func ToOrganizationDetailDTO(org models.Organization, members []models.User) OrganizationDetailDTO {
	memberDTOs := make([]OrganizationMemberDTO, len(members))
	for i, user := range members {
		memberDTOs[i] = OrganizationMemberDTO{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		}
	}

	return OrganizationDetailDTO{
		ID:       org.ID,
		Name:     org.Name,
		Slug:     org.Slug,
		OwnerID:  org.OwnerID,
		Settings: org.Settings,
		Members:  memberDTOs,
	}
}
