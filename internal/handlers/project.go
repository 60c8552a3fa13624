package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskboard/taskboard-api/internal/dto"
	apierrors "github.com/taskboard/taskboard-api/internal/errors"
	"github.com/taskboard/taskboard-api/internal/logging"
	"github.com/taskboard/taskboard-api/internal/middleware"
	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectHandler coordinates project HTTP handlers. All routes run behind
// the tenant gate, so the organization id is always read from context.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProject creates a project in the bound organization. The
// organization id is never taken from the request body.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	user, orgID, ok := requireTenantContext(c)
	if !ok {
		return
	}

	type CreateProjectRequest struct {
		Name        string   `json:"name" binding:"required"`
		Description string   `json:"description"`
		Members     []string `json:"members"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	members, err := parseObjectIDs(req.Members)
	if err != nil {
		apierrors.BadRequest(c, "Invalid member ID")
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), orgID, user.ID, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Members:     members,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	h.respondProject(c, http.StatusCreated, project)
}

// ListProjects returns the bound organization's projects, optionally
// filtered by status.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	_, orgID, ok := requireTenantContext(c)
	if !ok {
		return
	}

	var status *models.ProjectStatus
	if raw := c.Query("status"); raw != "" {
		s := models.ProjectStatus(raw)
		status = &s
	}

	projects, err := h.projectService.ListProjects(c.Request.Context(), orgID, status)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	users, err := h.projectService.RelatedUsers(c.Request.Context(), projects)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": dto.ToProjectDTOs(projects, users)})
}

// GetProject returns a single project by id.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	_, orgID, ok := requireTenantContext(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), orgID, id)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	h.respondProject(c, http.StatusOK, project)
}

// UpdateProject applies partial changes to a project.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	_, orgID, ok := requireTenantContext(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	type UpdateProjectRequest struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Status      *string  `json:"status"`
		Members     []string `json:"members"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Status != nil {
		s := models.ProjectStatus(*req.Status)
		input.Status = &s
	}
	if req.Members != nil {
		members, err := parseObjectIDs(req.Members)
		if err != nil {
			apierrors.BadRequest(c, "Invalid member ID")
			return
		}
		input.Members = members
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), orgID, id, input)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	h.respondProject(c, http.StatusOK, project)
}

// DeleteProject deletes a project and all of its tasks.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	_, orgID, ok := requireTenantContext(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), orgID, id); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// respondProject writes a single project with its user references resolved.
func (h *ProjectHandler) respondProject(c *gin.Context, status int, project *models.Project) {
	users, err := h.projectService.RelatedUsers(c.Request.Context(), []models.Project{*project})
	if err != nil {
		respondProjectError(c, err)
		return
	}
	c.JSON(status, gin.H{"project": dto.ToProjectDTO(*project, users)})
}

// requireTenantContext pulls the authenticated user and bound organization id
// out of the context set by the auth and tenant gates.
func requireTenantContext(c *gin.Context) (*models.User, primitive.ObjectID, bool) {
	user, ok := middleware.GetUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return nil, primitive.NilObjectID, false
	}

	orgID, ok := middleware.GetOrganizationID(c)
	if !ok {
		apierrors.BadRequest(c, "No organization selected. Please select an organization first.")
		return nil, primitive.NilObjectID, false
	}

	return user, orgID, true
}

func parseObjectIDs(raw []string) ([]primitive.ObjectID, error) {
	if raw == nil {
		return nil, nil
	}
	ids := make([]primitive.ObjectID, len(raw))
	for i, s := range raw {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidProjectStatus),
		errors.Is(err, services.ErrInvalidProjectName):
		apierrors.BadRequest(c, err.Error())
	default:
		logging.Logger.WithError(err).Error("project handler failure")
		apierrors.Internal(c, err)
	}
}
