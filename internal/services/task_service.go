package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrInvalidTaskStatus      = errors.New("invalid status")
	ErrInvalidTaskPriority    = errors.New("invalid priority")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be extracted from AI output")
)

// maxGeneratedTasks caps one AI extraction to keep a runaway response from
// flooding the client.
const maxGeneratedTasks = 20

// TaskService provides business logic for task operations, scoped to the
// organization id resolved by the tenant gate.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	generator   TaskGenerator
}

// NewTaskService creates a new TaskService. The generator may be nil, which
// disables task generation.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository, generator TaskGenerator) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		generator:   generator,
	}
}

// CreateTaskInput represents parameters to create a new task.
type CreateTaskInput struct {
	ProjectID   primitive.ObjectID
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	AssignedTo  *primitive.ObjectID
	DueDate     *time.Time
}

// CreateTask creates a task after verifying its project belongs to the same
// organization. The task carries the organization id itself, denormalized
// from the bound context.
func (s *TaskService) CreateTask(ctx context.Context, orgID, creatorID primitive.ObjectID, input CreateTaskInput) (*models.Task, error) {
	if input.Status != "" && !input.Status.Valid() {
		return nil, ErrInvalidTaskStatus
	}
	if input.Priority != "" && !input.Priority.Valid() {
		return nil, ErrInvalidTaskPriority
	}

	if _, err := s.projectRepo.FindByID(ctx, orgID, input.ProjectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	task := &models.Task{
		OrganizationID: orgID,
		ProjectID:      input.ProjectID,
		Title:          input.Title,
		Description:    input.Description,
		Status:         input.Status,
		Priority:       input.Priority,
		AssignedTo:     input.AssignedTo,
		DueDate:        input.DueDate,
		CreatedBy:      creatorID,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// ListTasks returns the organization's tasks with optional caller filters
// ANDed in.
func (s *TaskService) ListTasks(ctx context.Context, orgID primitive.ObjectID, filter repository.TaskFilter) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(ctx, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task by id within the organization.
func (s *TaskService) GetTask(ctx context.Context, orgID, id primitive.ObjectID) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// UpdateTaskInput holds the updatable task fields. Nil means unchanged.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	AssignedTo    *primitive.ObjectID
	ClearAssignee bool
	DueDate       *time.Time
	ClearDueDate  bool
}

// UpdateTask fetches the task by (id, organization) first, validates enums
// before any write, then applies the changes.
func (s *TaskService) UpdateTask(ctx context.Context, orgID, id primitive.ObjectID, input UpdateTaskInput) (*models.Task, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidTaskStatus
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, ErrInvalidTaskPriority
	}

	task, err := s.GetTask(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.AssignedTo != nil {
		task.AssignedTo = input.AssignedTo
	} else if input.ClearAssignee {
		task.AssignedTo = nil
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	} else if input.ClearDueDate {
		task.DueDate = nil
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// UpdateTaskStatus transitions the task status. An unknown status fails
// before any write happens.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, orgID, id primitive.ObjectID, status models.TaskStatus) (*models.Task, error) {
	if !status.Valid() {
		return nil, ErrInvalidTaskStatus
	}

	task, err := s.GetTask(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	task.Status = status
	if err := s.taskRepo.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// GenerateTasks extracts task suggestions from free-form text via the
// configured generator. Suggestions with an empty title are dropped and due
// dates more than a day in the past are cleared.
func (s *TaskService) GenerateTasks(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s.generator == nil {
		return nil, ErrAIServiceNotConfigured
	}

	suggestions, err := s.generator.GenerateTasksFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(suggestions) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(suggestions) > maxGeneratedTasks {
		return nil, fmt.Errorf("AI generated too many tasks (max %d)", maxGeneratedTasks)
	}

	valid := make([]GeneratedTask, 0, len(suggestions))
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, suggestion := range suggestions {
		if strings.TrimSpace(suggestion.Title) == "" {
			continue
		}
		if suggestion.DueDate != nil && suggestion.DueDate.Before(cutoff) {
			suggestion.DueDate = nil
		}
		valid = append(valid, suggestion)
	}

	if len(valid) == 0 {
		return nil, ErrAINoValidTasks
	}
	return valid, nil
}

// RelatedUsers loads the users referenced by the tasks' assignee and creator
// fields, keyed by id, for display projection.
func (s *TaskService) RelatedUsers(ctx context.Context, tasks []models.Task) (map[primitive.ObjectID]models.User, error) {
	seen := map[primitive.ObjectID]bool{}
	ids := []primitive.ObjectID{}
	for _, task := range tasks {
		if !seen[task.CreatedBy] {
			seen[task.CreatedBy] = true
			ids = append(ids, task.CreatedBy)
		}
		if task.AssignedTo != nil && !seen[*task.AssignedTo] {
			seen[*task.AssignedTo] = true
			ids = append(ids, *task.AssignedTo)
		}
	}

	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	out := make(map[primitive.ObjectID]models.User, len(users))
	for _, user := range users {
		out[user.ID] = user
	}
	return out, nil
}

// DeleteTask removes a task by id within the organization.
func (s *TaskService) DeleteTask(ctx context.Context, orgID, id primitive.ObjectID) error {
	if err := s.taskRepo.Delete(ctx, orgID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
