package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/taskboard/taskboard-api/internal/dto"
	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func createTask(t *testing.T, env *testEnv, token string, projectID primitive.ObjectID, title string) dto.TaskDTO {
	t.Helper()

	w := env.do(t, http.MethodPost, "/api/tasks", token, map[string]string{
		"projectId": projectID.Hex(),
		"title":     title,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Task dto.TaskDTO `json:"task"`
	}
	decodeJSON(t, w, &resp)
	return resp.Task
}

func TestTaskHandler_CreateDefaults(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice@example.com", "Alice", "Acme")
	project := createProject(t, env, alice.Token, "Website")

	task := createTask(t, env, alice.Token, project.ID, "Design homepage")

	require.Equal(t, "Design homepage", task.Title)
	require.Equal(t, models.TaskStatusTodo, task.Status)
	require.Equal(t, models.TaskPriorityMedium, task.Priority)
	require.Equal(t, project.ID, task.ProjectID)
	require.Equal(t, project.OrganizationID, task.OrganizationID)
	require.Equal(t, alice.User.ID, task.CreatedBy.ID.Hex())
	require.Nil(t, task.AssignedTo)
}

func TestTaskHandler_CreateRejectsForeignProject(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice@example.com", "Alice", "Acme")
	bob := env.register(t, "bob@example.com", "Bob", "Bobcorp")

	project := createProject(t, env, alice.Token, "Website")

	// Bob cannot attach tasks to a project in Alice's organization.
	w := env.do(t, http.MethodPost, "/api/tasks", bob.Token, map[string]string{
		"projectId": project.ID.Hex(),
		"title":     "Sneaky task",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskHandler_GetIsTenantScoped(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice@example.com", "Alice", "Acme")
	bob := env.register(t, "bob@example.com", "Bob", "Bobcorp")

	project := createProject(t, env, alice.Token, "Website")
	task := createTask(t, env, alice.Token, project.ID, "Design homepage")

	w := env.do(t, http.MethodGet, "/api/tasks/"+task.ID.Hex(), alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/tasks/"+task.ID.Hex(), bob.Token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskHandler_ListFilters(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice@example.com", "Alice", "Acme")

	website := createProject(t, env, alice.Token, "Website")
	app := createProject(t, env, alice.Token, "Mobile App")

	design := createTask(t, env, alice.Token, website.ID, "Design")
	createTask(t, env, alice.Token, website.ID, "Build")
	createTask(t, env, alice.Token, app.ID, "Prototype")

	w := env.do(t, http.MethodGet, "/api/tasks?projectId="+website.ID.Hex(), alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Tasks []dto.TaskDTO `json:"tasks"`
	}
	decodeJSON(t, w, &list)
	require.Len(t, list.Tasks, 2)

	// Mark one done and filter by status within the same project.
	w = env.do(t, http.MethodPatch, "/api/tasks/"+design.ID.Hex()+"/status", alice.Token, map[string]string{
		"status": "done",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/tasks?projectId="+website.ID.Hex()+"&status=done", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &list)
	require.Len(t, list.Tasks, 1)
	require.Equal(t, design.ID, list.Tasks[0].ID)
}

func TestTaskHandler_ListNewestFirst(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice@example.com", "Alice", "Acme")
	project := createProject(t, env, alice.Token, "Website")

	titles := []string{"First", "Second", "Third"}
	for _, title := range titles {
		createTask(t, env, alice.Token, project.ID, title)
		time.Sleep(2 * time.Millisecond)
	}

	w := env.do(t, http.MethodGet, "/api/tasks", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Tasks []dto.TaskDTO `json:"tasks"`
	}
	decodeJSON(t, w, &list)
	require.Len(t, list.Tasks, 3)
	require.Equal(t, "Third", list.Tasks[0].Title)
	require.Equal(t, "Second", list.Tasks[1].Title)
	require.Equal(t, "First", list.Tasks[2].Title)
	for i := 1; i < len(list.Tasks); i++ {
		require.False(t, list.Tasks[i-1].CreatedAt.Before(list.Tasks[i].CreatedAt))
	}
}

func TestTaskHandler_ListAssignedToFilter(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice@example.com", "Alice", "Acme")

	project := createProject(t, env, alice.Token, "Website")
	task := createTask(t, env, alice.Token, project.ID, "Design")
	createTask(t, env, alice.Token, project.ID, "Build")

	w := env.do(t, http.MethodPut, "/api/tasks/"+task.ID.Hex(), alice.Token, map[string]string{
		"assignedTo": alice.User.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/tasks?assignedTo="+alice.User.ID, alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Tasks []dto.TaskDTO `json:"tasks"`
	}
	decodeJSON(t, w, &list)
	require.Len(t, list.Tasks, 1)
	require.Equal(t, task.ID, list.Tasks[0].ID)
}

func TestTaskHandler_AssigneeDisplayProjection(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice@example.com", "Alice", "Acme")

	project := createProject(t, env, alice.Token, "Website")
	task := createTask(t, env, alice.Token, project.ID, "Design")

	w := env.do(t, http.MethodPut, "/api/tasks/"+task.ID.Hex(), alice.Token, map[string]string{
		"assignedTo": alice.User.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Task dto.TaskDTO `json:"task"`
	}
	decodeJSON(t, w, &resp)

	// Assignee and creator come back as display projections, not bare ids.
	require.NotNil(t, resp.Task.AssignedTo)
	require.Equal(t, alice.User.ID, resp.Task.AssignedTo.ID.Hex())
	require.Equal(t, "Alice", resp.Task.AssignedTo.Name)
	require.Equal(t, "alice@example.com", resp.Task.AssignedTo.Email)
	require.Equal(t, "Alice", resp.Task.CreatedBy.Name)
}

func TestTaskHandler_UpdateStatusRejectsUnknownValue(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice@example.com", "Alice", "Acme")

	project := createProject(t, env, alice.Token, "Website")
	task := createTask(t, env, alice.Token, project.ID, "Design")

	w := env.do(t, http.MethodPatch, "/api/tasks/"+task.ID.Hex()+"/status", alice.Token, map[string]string{
		"status": "blocked",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// The stored status is untouched by the rejected write.
	stored, err := env.tasks.FindByID(context.Background(), task.OrganizationID, task.ID)
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusTodo, stored.Status)
}

func TestTaskHandler_UpdateClearsAssignee(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice@example.com", "Alice", "Acme")

	project := createProject(t, env, alice.Token, "Website")
	task := createTask(t, env, alice.Token, project.ID, "Design")

	w := env.do(t, http.MethodPut, "/api/tasks/"+task.ID.Hex(), alice.Token, map[string]string{
		"assignedTo": alice.User.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// An empty assignedTo unassigns the task.
	w = env.do(t, http.MethodPut, "/api/tasks/"+task.ID.Hex(), alice.Token, map[string]string{
		"assignedTo": "",
	})
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := env.tasks.FindByID(context.Background(), task.OrganizationID, task.ID)
	require.NoError(t, err)
	require.Nil(t, stored.AssignedTo)
}

func TestTaskHandler_UpdateSetsAndClearsDueDate(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice@example.com", "Alice", "Acme")

	project := createProject(t, env, alice.Token, "Website")
	task := createTask(t, env, alice.Token, project.ID, "Design")

	due := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)
	w := env.do(t, http.MethodPut, "/api/tasks/"+task.ID.Hex(), alice.Token, map[string]string{
		"dueDate": due.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := env.tasks.FindByID(context.Background(), task.OrganizationID, task.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.DueDate)
	require.True(t, stored.DueDate.Equal(due))

	// An empty dueDate clears the deadline, same contract as assignedTo.
	w = env.do(t, http.MethodPut, "/api/tasks/"+task.ID.Hex(), alice.Token, map[string]string{
		"dueDate": "",
	})
	require.Equal(t, http.StatusOK, w.Code)

	stored, err = env.tasks.FindByID(context.Background(), task.OrganizationID, task.ID)
	require.NoError(t, err)
	require.Nil(t, stored.DueDate)

	// A malformed dueDate is rejected outright.
	w = env.do(t, http.MethodPut, "/api/tasks/"+task.ID.Hex(), alice.Token, map[string]string{
		"dueDate": "next tuesday",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_Delete(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice@example.com", "Alice", "Acme")
	bob := env.register(t, "bob@example.com", "Bob", "Bobcorp")

	project := createProject(t, env, alice.Token, "Website")
	task := createTask(t, env, alice.Token, project.ID, "Design")

	// Deleting across the tenant boundary reads as absent.
	w := env.do(t, http.MethodDelete, "/api/tasks/"+task.ID.Hex(), bob.Token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/api/tasks/"+task.ID.Hex(), alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/tasks/"+task.ID.Hex(), alice.Token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

// stubGenerator returns canned suggestions without calling any external API.
type stubGenerator struct {
	tasks []services.GeneratedTask
	err   error
}

func (s *stubGenerator) GenerateTasksFromText(ctx context.Context, text string) ([]services.GeneratedTask, error) {
	return s.tasks, s.err
}

func TestTaskHandler_GenerateNotConfigured(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice@example.com", "Alice", "Acme")

	w := env.do(t, http.MethodPost, "/api/tasks/generate", alice.Token, map[string]string{
		"text": "Ship the redesign by Friday",
	})
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestTaskHandler_Generate(t *testing.T) {
	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	env := setupTestEnvWithGenerator(t, &stubGenerator{
		tasks: []services.GeneratedTask{
			{Title: "Ship the redesign", Description: "Finish and deploy", DueDate: &due},
			{Title: "   "}, // dropped: no usable title
		},
	})
	alice := env.register(t, "alice@example.com", "Alice", "Acme")

	w := env.do(t, http.MethodPost, "/api/tasks/generate", alice.Token, map[string]string{
		"text": "Ship the redesign by Friday",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Tasks []services.GeneratedTask `json:"tasks"`
	}
	decodeJSON(t, w, &resp)
	require.Len(t, resp.Tasks, 1)
	require.Equal(t, "Ship the redesign", resp.Tasks[0].Title)
	require.NotNil(t, resp.Tasks[0].DueDate)
	require.True(t, resp.Tasks[0].DueDate.Equal(due))
}
