package dto

import (
	"time"

	"github.com/taskboard/taskboard-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectDTO represents a project in API responses, with member and creator
// references resolved to display projections.
type ProjectDTO struct {
	ID             primitive.ObjectID   `json:"id"`
	OrganizationID primitive.ObjectID   `json:"organizationId"`
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	Status         models.ProjectStatus `json:"status"`
	Members        []UserRefDTO         `json:"members"`
	CreatedBy      UserRefDTO           `json:"createdBy"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

// ToProjectDTO converts a project to its response shape using a preloaded
// user map.
func ToProjectDTO(project models.Project, users map[primitive.ObjectID]models.User) ProjectDTO {
	members := make([]UserRefDTO, len(project.Members))
	for i, id := range project.Members {
		members[i] = ToUserRefDTO(id, users)
	}

	return ProjectDTO{
		ID:             project.ID,
		OrganizationID: project.OrganizationID,
		Name:           project.Name,
		Description:    project.Description,
		Status:         project.Status,
		Members:        members,
		CreatedBy:      ToUserRefDTO(project.CreatedBy, users),
		CreatedAt:      project.CreatedAt,
		UpdatedAt:      project.UpdatedAt,
	}
}

// ToProjectDTOs converts a project slice, preserving order.
func ToProjectDTOs(projects []models.Project, users map[primitive.ObjectID]models.User) []ProjectDTO {
	out := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		out[i] = ToProjectDTO(project, users)
	}
	return out
}
