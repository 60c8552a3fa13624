package repository

import (
	"context"
	"errors"

	"github.com/taskboard/taskboard-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a document does not exist. Tenant-scoped
// lookups return it for documents in another organization as well, so a
// caller cannot distinguish "absent" from "not yours".
var ErrNotFound = errors.New("repository: not found")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID with the password projected out
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)

	// FindByIDs finds users by ID with passwords projected out
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)

	// FindByEmail finds a user by email, including the password hash
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// AddMembership appends a membership entry to the user's organizations list
	AddMembership(ctx context.Context, userID primitive.ObjectID, membership models.Membership) error

	// SetCurrentOrganization updates the user's current organization pointer.
	// Last write wins; there is no concurrency check.
	SetCurrentOrganization(ctx context.Context, userID, orgID primitive.ObjectID) error
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create creates a new organization
	Create(ctx context.Context, org *models.Organization) error

	// FindByID finds an organization by ID
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Organization, error)

	// FindByIDs finds all organizations matching the given IDs
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Organization, error)

	// Update replaces an organization document
	Update(ctx context.Context, org *models.Organization) error

	// AddMember adds a user id to the organization's members set
	AddMember(ctx context.Context, orgID, userID primitive.ObjectID) error
}

// ProjectFilter holds caller-supplied filters for listing projects. They are
// ANDed onto the mandatory organization filter, never replacing it.
type ProjectFilter struct {
	Status *models.ProjectStatus
}

// ProjectRepository defines the interface for project data access. Every
// method takes the owning organization id so no query can run unscoped.
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *models.Project) error

	// FindByID finds a project by ID within the organization
	FindByID(ctx context.Context, orgID, id primitive.ObjectID) (*models.Project, error)

	// List retrieves the organization's projects, newest first
	List(ctx context.Context, orgID primitive.ObjectID, filter ProjectFilter) ([]models.Project, error)

	// Update replaces a project document, scoped to its organization
	Update(ctx context.Context, project *models.Project) error

	// Delete removes a project by ID within the organization
	Delete(ctx context.Context, orgID, id primitive.ObjectID) error
}

// TaskFilter holds caller-supplied filters for listing tasks.
type TaskFilter struct {
	ProjectID  *primitive.ObjectID
	Status     *models.TaskStatus
	AssignedTo *primitive.ObjectID
}

// TaskRepository defines the interface for task data access, organization
// scoped the same way as ProjectRepository.
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID within the organization
	FindByID(ctx context.Context, orgID, id primitive.ObjectID) (*models.Task, error)

	// List retrieves the organization's tasks, newest first
	List(ctx context.Context, orgID primitive.ObjectID, filter TaskFilter) ([]models.Task, error)

	// Update replaces a task document, scoped to its organization
	Update(ctx context.Context, task *models.Task) error

	// Delete removes a task by ID within the organization
	Delete(ctx context.Context, orgID, id primitive.ObjectID) error

	// DeleteByProject removes all tasks of a project within the organization
	DeleteByProject(ctx context.Context, orgID, projectID primitive.ObjectID) (int64, error)
}
