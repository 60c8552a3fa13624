package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/taskboard/taskboard-api/internal/middleware"
	"github.com/taskboard/taskboard-api/internal/repository"
	"github.com/taskboard/taskboard-api/internal/services"
)

// testEnv wires the full handler stack against in-memory repositories, with
// the same route table and middleware chains as the server entrypoint.
type testEnv struct {
	users    *repository.MemoryUserRepository
	orgs     *repository.MemoryOrganizationRepository
	projects *repository.MemoryProjectRepository
	tasks    *repository.MemoryTaskRepository

	tokens *services.TokenService
	router *gin.Engine
}

func setupTestEnv(t *testing.T) *testEnv {
	return setupTestEnvWithGenerator(t, nil)
}

func setupTestEnvWithGenerator(t *testing.T, generator services.TaskGenerator) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := repository.NewMemoryUserRepository()
	orgs := repository.NewMemoryOrganizationRepository()
	projects := repository.NewMemoryProjectRepository()
	tasks := repository.NewMemoryTaskRepository()

	tokens := services.NewTokenService("test-secret")
	authService := services.NewAuthService(users, orgs)
	orgService := services.NewOrganizationService(orgs, users)
	projectService := services.NewProjectService(projects, tasks, users)
	taskService := services.NewTaskService(tasks, projects, users, generator)

	authHandler := NewAuthHandler(authService, tokens)
	orgHandler := NewOrganizationHandler(orgService)
	projectHandler := NewProjectHandler(projectService)
	taskHandler := NewTaskHandler(taskService)

	r := gin.New()
	requireAuth := middleware.RequireAuth(tokens, users)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
			auth.POST("/switch-organization", requireAuth, authHandler.SwitchOrganization)
		}

		orgGroup := api.Group("/organizations")
		orgGroup.Use(requireAuth)
		{
			orgGroup.POST("", orgHandler.CreateOrganization)
			orgGroup.GET("", orgHandler.ListOrganizations)
			orgGroup.GET("/:id", middleware.RequireOrganizationAccess(orgs), orgHandler.GetOrganization)
			orgGroup.PUT("/:id", middleware.RequireOrganizationAccess(orgs), middleware.RequireAdmin(), orgHandler.UpdateOrganization)
			orgGroup.POST("/:id/invite", middleware.RequireOrganizationAccess(orgs), middleware.RequireAdmin(), orgHandler.InviteMember)
		}

		projectGroup := api.Group("/projects")
		projectGroup.Use(requireAuth, middleware.RequireTenant())
		{
			projectGroup.POST("", projectHandler.CreateProject)
			projectGroup.GET("", projectHandler.ListProjects)
			projectGroup.GET("/:id", projectHandler.GetProject)
			projectGroup.PUT("/:id", projectHandler.UpdateProject)
			projectGroup.DELETE("/:id", projectHandler.DeleteProject)
		}

		taskGroup := api.Group("/tasks")
		taskGroup.Use(requireAuth, middleware.RequireTenant())
		{
			taskGroup.POST("", taskHandler.CreateTask)
			taskGroup.POST("/generate", taskHandler.GenerateTasks)
			taskGroup.GET("", taskHandler.ListTasks)
			taskGroup.GET("/:id", taskHandler.GetTask)
			taskGroup.PUT("/:id", taskHandler.UpdateTask)
			taskGroup.PATCH("/:id", taskHandler.UpdateTask)
			taskGroup.PATCH("/:id/status", taskHandler.UpdateTaskStatus)
			taskGroup.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	return &testEnv{
		users:    users,
		orgs:     orgs,
		projects: projects,
		tasks:    tasks,
		tokens:   tokens,
		router:   r,
	}
}

// do runs a request through the router, optionally with a bearer token and a
// JSON body.
func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// registeredUser is the decoded register/login response.
type registeredUser struct {
	Token string `json:"token"`
	User  struct {
		ID                    string `json:"id"`
		Email                 string `json:"email"`
		Name                  string `json:"name"`
		CurrentOrganizationID string `json:"currentOrganizationId"`
		Organizations         []struct {
			OrganizationID string `json:"organizationId"`
			Role           string `json:"role"`
		} `json:"organizations"`
	} `json:"user"`
}

// register creates a user with their default organization and returns the
// decoded response.
func (env *testEnv) register(t *testing.T, email, name, orgName string) registeredUser {
	t.Helper()

	w := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":            email,
		"password":         "supersecret",
		"name":             name,
		"organizationName": orgName,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp registeredUser
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
