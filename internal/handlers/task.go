package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskboard/taskboard-api/internal/dto"
	apierrors "github.com/taskboard/taskboard-api/internal/errors"
	"github.com/taskboard/taskboard-api/internal/logging"
	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/repository"
	"github.com/taskboard/taskboard-api/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskHandler coordinates task HTTP handlers. All routes run behind the
// tenant gate.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a task in the bound organization.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, orgID, ok := requireTenantContext(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		ProjectID   string     `json:"projectId" binding:"required"`
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		Status      string     `json:"status"`
		Priority    string     `json:"priority"`
		AssignedTo  string     `json:"assignedTo"`
		DueDate     *time.Time `json:"dueDate"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	projectID, err := primitive.ObjectIDFromHex(req.ProjectID)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	var assignedTo *primitive.ObjectID
	if req.AssignedTo != "" {
		id, err := primitive.ObjectIDFromHex(req.AssignedTo)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assignee ID")
			return
		}
		assignedTo = &id
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), orgID, user.ID, services.CreateTaskInput{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		Priority:    models.TaskPriority(req.Priority),
		AssignedTo:  assignedTo,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.respondTask(c, http.StatusCreated, task)
}

// ListTasks returns the bound organization's tasks. Caller-supplied filters
// (projectId, status, assignedTo) are ANDed onto the organization filter.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	_, orgID, ok := requireTenantContext(c)
	if !ok {
		return
	}

	var filter repository.TaskFilter
	if raw := c.Query("projectId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			return
		}
		filter.ProjectID = &id
	}
	if raw := c.Query("status"); raw != "" {
		s := models.TaskStatus(raw)
		filter.Status = &s
	}
	if raw := c.Query("assignedTo"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assignee ID")
			return
		}
		filter.AssignedTo = &id
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), orgID, filter)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	users, err := h.taskService.RelatedUsers(c.Request.Context(), tasks)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToTaskDTOs(tasks, users)})
}

// GetTask returns a single task by id.
func (h *TaskHandler) GetTask(c *gin.Context) {
	_, orgID, ok := requireTenantContext(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), orgID, id)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.respondTask(c, http.StatusOK, task)
}

// UpdateTask applies partial changes to a task.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	_, orgID, ok := requireTenantContext(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	// assignedTo and dueDate take an empty string as "clear this field",
	// distinct from omitting the key.
	type UpdateTaskRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Status      *string `json:"status"`
		Priority    *string `json:"priority"`
		AssignedTo  *string `json:"assignedTo"`
		DueDate     *string `json:"dueDate"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		s := models.TaskStatus(*req.Status)
		input.Status = &s
	}
	if req.Priority != nil {
		p := models.TaskPriority(*req.Priority)
		input.Priority = &p
	}
	if req.AssignedTo != nil {
		if *req.AssignedTo == "" {
			input.ClearAssignee = true
		} else {
			assigneeID, err := primitive.ObjectIDFromHex(*req.AssignedTo)
			if err != nil {
				apierrors.BadRequest(c, "Invalid assignee ID")
				return
			}
			input.AssignedTo = &assigneeID
		}
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			input.ClearDueDate = true
		} else {
			dueDate, err := time.Parse(time.RFC3339, *req.DueDate)
			if err != nil {
				apierrors.BadRequest(c, "Invalid due date")
				return
			}
			input.DueDate = &dueDate
		}
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), orgID, id, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.respondTask(c, http.StatusOK, task)
}

// UpdateTaskStatus transitions a task's status.
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	_, orgID, ok := requireTenantContext(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	type UpdateStatusRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTaskStatus(c.Request.Context(), orgID, id, models.TaskStatus(req.Status))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.respondTask(c, http.StatusOK, task)
}

// DeleteTask removes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	_, orgID, ok := requireTenantContext(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), orgID, id); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// GenerateTasks extracts task suggestions from free-form text. Nothing is
// persisted; the client reviews the suggestions and creates tasks from them.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	if _, _, ok := requireTenantContext(c); !ok {
		return
	}

	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	suggestions, err := h.taskService.GenerateTasks(c.Request.Context(), req.Text)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": suggestions})
}

// respondTask writes a single task with its user references resolved.
func (h *TaskHandler) respondTask(c *gin.Context, status int, task *models.Task) {
	users, err := h.taskService.RelatedUsers(c.Request.Context(), []models.Task{*task})
	if err != nil {
		respondTaskError(c, err)
		return
	}
	c.JSON(status, gin.H{"task": dto.ToTaskDTO(*task, users)})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrInvalidTaskPriority),
		errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY.")
	default:
		logging.Logger.WithError(err).Error("task handler failure")
		apierrors.Internal(c, err)
	}
}
