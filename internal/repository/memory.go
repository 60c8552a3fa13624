package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taskboard/taskboard-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository implementations. They mirror the Mongo implementations'
// observable behavior (id assignment, password projection, tenant-scoped
// lookups, newest-first lists) and back the unit tests so no database is
// needed.

// MemoryUserRepository is an in-memory UserRepository
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]*models.User
}

// NewMemoryUserRepository creates an in-memory UserRepository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Organizations == nil {
		user.Organizations = []models.Membership{}
	}

	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	out := *user
	out.Password = "" // projected out, as in the Mongo implementation
	out.Organizations = append([]models.Membership{}, user.Organizations...)
	return &out, nil
}

func (r *MemoryUserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := []models.User{}
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			out := *user
			out.Password = ""
			users = append(users, out)
		}
	}
	return users, nil
}

func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			out := *user
			out.Organizations = append([]models.Membership{}, user.Organizations...)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) AddMembership(ctx context.Context, userID primitive.ObjectID, membership models.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return ErrNotFound
	}
	user.Organizations = append(user.Organizations, membership)
	user.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryUserRepository) SetCurrentOrganization(ctx context.Context, userID, orgID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return ErrNotFound
	}
	id := orgID
	user.CurrentOrganizationID = &id
	user.UpdatedAt = time.Now()
	return nil
}

// MemoryOrganizationRepository is an in-memory OrganizationRepository
type MemoryOrganizationRepository struct {
	mu   sync.RWMutex
	orgs map[primitive.ObjectID]*models.Organization
}

// NewMemoryOrganizationRepository creates an in-memory OrganizationRepository
func NewMemoryOrganizationRepository() *MemoryOrganizationRepository {
	return &MemoryOrganizationRepository{orgs: make(map[primitive.ObjectID]*models.Organization)}
}

func (r *MemoryOrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	org.ID = primitive.NewObjectID()
	org.CreatedAt = now
	org.UpdatedAt = now
	if org.Members == nil {
		org.Members = []primitive.ObjectID{}
	}
	if org.Settings == nil {
		org.Settings = map[string]string{"theme": "blue"}
	}

	stored := *org
	r.orgs[org.ID] = &stored
	return nil
}

func (r *MemoryOrganizationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	org, ok := r.orgs[id]
	if !ok {
		return nil, ErrNotFound
	}

	out := *org
	out.Members = append([]primitive.ObjectID{}, org.Members...)
	return &out, nil
}

func (r *MemoryOrganizationRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orgs := []models.Organization{}
	for _, id := range ids {
		if org, ok := r.orgs[id]; ok {
			orgs = append(orgs, *org)
		}
	}
	return orgs, nil
}

func (r *MemoryOrganizationRepository) Update(ctx context.Context, org *models.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orgs[org.ID]; !ok {
		return ErrNotFound
	}
	org.UpdatedAt = time.Now()
	stored := *org
	r.orgs[org.ID] = &stored
	return nil
}

func (r *MemoryOrganizationRepository) AddMember(ctx context.Context, orgID, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	org, ok := r.orgs[orgID]
	if !ok {
		return ErrNotFound
	}
	for _, id := range org.Members {
		if id == userID {
			return nil
		}
	}
	org.Members = append(org.Members, userID)
	org.UpdatedAt = time.Now()
	return nil
}

// MemoryProjectRepository is an in-memory ProjectRepository
type MemoryProjectRepository struct {
	mu       sync.RWMutex
	projects map[primitive.ObjectID]*models.Project
}

// NewMemoryProjectRepository creates an in-memory ProjectRepository
func NewMemoryProjectRepository() *MemoryProjectRepository {
	return &MemoryProjectRepository{projects: make(map[primitive.ObjectID]*models.Project)}
}

func (r *MemoryProjectRepository) Create(ctx context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	project.ID = primitive.NewObjectID()
	project.CreatedAt = now
	project.UpdatedAt = now
	if project.Status == "" {
		project.Status = models.ProjectStatusActive
	}
	if project.Members == nil {
		project.Members = []primitive.ObjectID{}
	}

	stored := *project
	r.projects[project.ID] = &stored
	return nil
}

func (r *MemoryProjectRepository) FindByID(ctx context.Context, orgID, id primitive.ObjectID) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	project, ok := r.projects[id]
	if !ok || project.OrganizationID != orgID {
		return nil, ErrNotFound
	}

	out := *project
	return &out, nil
}

func (r *MemoryProjectRepository) List(ctx context.Context, orgID primitive.ObjectID, filter ProjectFilter) ([]models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := []models.Project{}
	for _, project := range r.projects {
		if project.OrganizationID != orgID {
			continue
		}
		if filter.Status != nil && project.Status != *filter.Status {
			continue
		}
		projects = append(projects, *project)
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects, nil
}

func (r *MemoryProjectRepository) Update(ctx context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.projects[project.ID]
	if !ok || existing.OrganizationID != project.OrganizationID {
		return ErrNotFound
	}
	project.UpdatedAt = time.Now()
	stored := *project
	r.projects[project.ID] = &stored
	return nil
}

func (r *MemoryProjectRepository) Delete(ctx context.Context, orgID, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	project, ok := r.projects[id]
	if !ok || project.OrganizationID != orgID {
		return ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

// MemoryTaskRepository is an in-memory TaskRepository
type MemoryTaskRepository struct {
	mu    sync.RWMutex
	tasks map[primitive.ObjectID]*models.Task
}

// NewMemoryTaskRepository creates an in-memory TaskRepository
func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{tasks: make(map[primitive.ObjectID]*models.Task)}
}

func (r *MemoryTaskRepository) Create(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	task.ID = primitive.NewObjectID()
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.Status == "" {
		task.Status = models.TaskStatusTodo
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}

	stored := *task
	r.tasks[task.ID] = &stored
	return nil
}

func (r *MemoryTaskRepository) FindByID(ctx context.Context, orgID, id primitive.ObjectID) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok || task.OrganizationID != orgID {
		return nil, ErrNotFound
	}

	out := *task
	return &out, nil
}

func (r *MemoryTaskRepository) List(ctx context.Context, orgID primitive.ObjectID, filter TaskFilter) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := []models.Task{}
	for _, task := range r.tasks {
		if task.OrganizationID != orgID {
			continue
		}
		if filter.ProjectID != nil && task.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.AssignedTo != nil && (task.AssignedTo == nil || *task.AssignedTo != *filter.AssignedTo) {
			continue
		}
		tasks = append(tasks, *task)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (r *MemoryTaskRepository) Update(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.tasks[task.ID]
	if !ok || existing.OrganizationID != task.OrganizationID {
		return ErrNotFound
	}
	task.UpdatedAt = time.Now()
	stored := *task
	r.tasks[task.ID] = &stored
	return nil
}

func (r *MemoryTaskRepository) Delete(ctx context.Context, orgID, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok || task.OrganizationID != orgID {
		return ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *MemoryTaskRepository) DeleteByProject(ctx context.Context, orgID, projectID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, task := range r.tasks {
		if task.OrganizationID == orgID && task.ProjectID == projectID {
			delete(r.tasks, id)
			deleted++
		}
	}
	return deleted, nil
}
