package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskboard/taskboard-api/internal/config"
	"github.com/taskboard/taskboard-api/internal/database"
	apierrors "github.com/taskboard/taskboard-api/internal/errors"
	"github.com/taskboard/taskboard-api/internal/handlers"
	"github.com/taskboard/taskboard-api/internal/logging"
	"github.com/taskboard/taskboard-api/internal/middleware"
	"github.com/taskboard/taskboard-api/internal/repository"
	"github.com/taskboard/taskboard-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logging.Init(cfg.LogFile, cfg.IsProduction())
	apierrors.SetProductionMode(cfg.IsProduction())
	gin.SetMode(cfg.GinMode)

	// Connect to MongoDB
	client, cols, err := database.Connect(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logging.Logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer client.Disconnect(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := database.EnsureIndexes(ctx, cols); err != nil {
		logging.Logger.Fatalf("Failed to create indexes: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(cols.Users)
	orgRepo := repository.NewOrganizationRepository(cols.Organizations)
	projectRepo := repository.NewProjectRepository(cols.Projects)
	taskRepo := repository.NewTaskRepository(cols.Tasks)

	// Task generation stays disabled without an API key.
	var generator services.TaskGenerator
	if cfg.OpenAIAPIKey != "" {
		generator = services.NewAIService(cfg.OpenAIAPIKey)
	}

	// Services
	tokens := services.NewTokenService(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, orgRepo)
	orgService := services.NewOrganizationService(orgRepo, userRepo)
	projectService := services.NewProjectService(projectRepo, taskRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo, generator)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, tokens)
	orgHandler := handlers.NewOrganizationHandler(orgService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(), gin.Recovery())

	requireAuth := middleware.RequireAuth(tokens, userRepo)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "TaskBoard API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
			auth.POST("/switch-organization", requireAuth, authHandler.SwitchOrganization)
		}

		// Organization-management routes resolve their target organization from
		// the request itself, so membership is checked against the loaded document.
		orgs := api.Group("/organizations")
		orgs.Use(requireAuth)
		{
			orgs.POST("", orgHandler.CreateOrganization)
			orgs.GET("", orgHandler.ListOrganizations)
			orgs.GET("/:id", middleware.RequireOrganizationAccess(orgRepo), orgHandler.GetOrganization)
			orgs.PUT("/:id", middleware.RequireOrganizationAccess(orgRepo), middleware.RequireAdmin(), orgHandler.UpdateOrganization)
			orgs.POST("/:id/invite", middleware.RequireOrganizationAccess(orgRepo), middleware.RequireAdmin(), orgHandler.InviteMember)
		}

		// Project and task routes act within the current organization.
		projects := api.Group("/projects")
		projects.Use(requireAuth, middleware.RequireTenant())
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth, middleware.RequireTenant())
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/generate", taskHandler.GenerateTasks)
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.PATCH("/:id/status", taskHandler.UpdateTaskStatus)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	logging.Logger.Infof("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logging.Logger.Fatalf("Failed to start server: %v", err)
	}
}
