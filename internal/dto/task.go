package dto

import (
	"time"

	"github.com/taskboard/taskboard-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskDTO represents a task in API responses, with assignee and creator
// references resolved to display projections.
type TaskDTO struct {
	ID             primitive.ObjectID  `json:"id"`
	OrganizationID primitive.ObjectID  `json:"organizationId"`
	ProjectID      primitive.ObjectID  `json:"projectId"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Status         models.TaskStatus   `json:"status"`
	Priority       models.TaskPriority `json:"priority"`
	AssignedTo     *UserRefDTO         `json:"assignedTo,omitempty"`
	DueDate        *time.Time          `json:"dueDate,omitempty"`
	CreatedBy      UserRefDTO          `json:"createdBy"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// ToTaskDTO converts a task to its response shape using a preloaded user map.
func ToTaskDTO(task models.Task, users map[primitive.ObjectID]models.User) TaskDTO {
	var assignedTo *UserRefDTO
	if task.AssignedTo != nil {
		ref := ToUserRefDTO(*task.AssignedTo, users)
		assignedTo = &ref
	}

	return TaskDTO{
		ID:             task.ID,
		OrganizationID: task.OrganizationID,
		ProjectID:      task.ProjectID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         task.Status,
		Priority:       task.Priority,
		AssignedTo:     assignedTo,
		DueDate:        task.DueDate,
		CreatedBy:      ToUserRefDTO(task.CreatedBy, users),
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
}

// ToTaskDTOs converts a task slice, preserving order.
func ToTaskDTOs(tasks []models.Task, users map[primitive.ObjectID]models.User) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		out[i] = ToTaskDTO(task, users)
	}
	return out
}
