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
)

// OrganizationHandler coordinates organization-management HTTP handlers.
type OrganizationHandler struct {
	orgService *services.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
	}
}

// CreateOrganization creates a new organization owned by the caller.
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateOrgRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.CreateOrganization(c.Request.Context(), user, req.Name)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"organization": org})
}

// ListOrganizations returns the caller's organizations with their role in
// each.
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	orgs, err := h.orgService.ListForUser(c.Request.Context(), user)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	out := make([]dto.OrganizationWithRoleDTO, 0, len(orgs))
	for _, org := range orgs {
		membership, _ := user.MembershipFor(org.ID)
		out = append(out, dto.ToOrganizationWithRoleDTO(org, membership.Role))
	}

	c.JSON(http.StatusOK, gin.H{"organizations": out})
}

// GetOrganization returns the organization bound by the access gate, with
// member display projections.
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.NotFound(c, "Organization not found")
		return
	}

	members, err := h.orgService.MemberUsers(c.Request.Context(), org)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"organization": dto.ToOrganizationDetailDTO(*org, members),
	})
}

// UpdateOrganization updates the organization's name and settings.
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.NotFound(c, "Organization not found")
		return
	}

	type UpdateOrgRequest struct {
		Name     *string           `json:"name"`
		Settings map[string]string `json:"settings"`
	}

	var req UpdateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.orgService.Update(c.Request.Context(), org, services.UpdateOrganizationInput{
		Name:     req.Name,
		Settings: req.Settings,
	})
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"organization": updated})
}

// InviteMember adds an existing user to the organization by email.
func (h *OrganizationHandler) InviteMember(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.NotFound(c, "Organization not found")
		return
	}

	type InviteRequest struct {
		Email string                  `json:"email" binding:"required,email"`
		Role  models.OrganizationRole `json:"role"`
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.orgService.InviteMember(c.Request.Context(), org, req.Email, req.Role)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member invited successfully",
		"user": dto.OrganizationMemberDTO{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
	})
}

func respondOrganizationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidOrganizationName),
		errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrInvalidRole):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		logging.Logger.WithError(err).Error("organization handler failure")
		apierrors.Internal(c, err)
	}
}
