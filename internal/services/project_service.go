package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrInvalidProjectStatus = errors.New("invalid project status")
	ErrInvalidProjectName   = errors.New("project name cannot be empty")
)

// ProjectService provides business logic for project operations. Every
// operation is scoped to the organization id resolved by the tenant gate;
// the id is never taken from client input.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	Members     []primitive.ObjectID
}

// CreateProject creates a project in the given organization. The creator is
// the default member when none are supplied.
func (s *ProjectService) CreateProject(ctx context.Context, orgID, creatorID primitive.ObjectID, input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidProjectName
	}

	members := input.Members
	if len(members) == 0 {
		members = []primitive.ObjectID{creatorID}
	}

	project := &models.Project{
		OrganizationID: orgID,
		Name:           input.Name,
		Description:    input.Description,
		Status:         models.ProjectStatusActive,
		Members:        members,
		CreatedBy:      creatorID,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// ListProjects returns the organization's projects, optionally filtered by
// status.
func (s *ProjectService) ListProjects(ctx context.Context, orgID primitive.ObjectID, status *models.ProjectStatus) ([]models.Project, error) {
	projects, err := s.projectRepo.List(ctx, orgID, repository.ProjectFilter{Status: status})
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a project by id within the organization.
func (s *ProjectService) GetProject(ctx context.Context, orgID, id primitive.ObjectID) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// UpdateProjectInput holds the updatable project fields. Nil means unchanged.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *models.ProjectStatus
	Members     []primitive.ObjectID
}

// UpdateProject fetches the project by (id, organization) first and then
// applies the changes; the scoped fetch is the isolation guarantee.
func (s *ProjectService) UpdateProject(ctx context.Context, orgID, id primitive.ObjectID, input UpdateProjectInput) (*models.Project, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidProjectStatus
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, ErrInvalidProjectName
	}

	project, err := s.GetProject(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		project.Status = *input.Status
	}
	if input.Members != nil {
		project.Members = input.Members
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// RelatedUsers loads the users referenced by the projects' member and
// creator fields, keyed by id, for display projection.
func (s *ProjectService) RelatedUsers(ctx context.Context, projects []models.Project) (map[primitive.ObjectID]models.User, error) {
	seen := map[primitive.ObjectID]bool{}
	ids := []primitive.ObjectID{}
	for _, project := range projects {
		if !seen[project.CreatedBy] {
			seen[project.CreatedBy] = true
			ids = append(ids, project.CreatedBy)
		}
		for _, member := range project.Members {
			if !seen[member] {
				seen[member] = true
				ids = append(ids, member)
			}
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

// DeleteProject deletes the project and cascades to its tasks. Tasks go
// first, then the project; the two deletes are not transactional.
func (s *ProjectService) DeleteProject(ctx context.Context, orgID, id primitive.ObjectID) error {
	project, err := s.GetProject(ctx, orgID, id)
	if err != nil {
		return err
	}

	if _, err := s.taskRepo.DeleteByProject(ctx, orgID, project.ID); err != nil {
		return fmt.Errorf("failed to delete project tasks: %w", err)
	}

	if err := s.projectRepo.Delete(ctx, orgID, project.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}
