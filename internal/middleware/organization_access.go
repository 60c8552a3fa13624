package middleware

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	apierrors "github.com/taskboard/taskboard-api/internal/errors"
	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const contextKeyOrganization = "organization"

// RequireOrganizationAccess resolves the target organization from the request
// itself (path param, body field, query param, falling back to the user's
// current organization), loads it, and verifies membership against the
// organization's members set. Guards organization-management routes, which
// may act on an organization that is not yet the user's current one.
func RequireOrganizationAccess(orgRepo repository.OrganizationRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUser(c)
		if !ok {
			apierrors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		orgID, ok := resolveOrganizationID(c, user)
		if !ok {
			apierrors.BadRequest(c, "Organization ID is required")
			c.Abort()
			return
		}

		org, err := orgRepo.FindByID(c.Request.Context(), orgID)
		if err != nil {
			apierrors.NotFound(c, "Organization not found")
			c.Abort()
			return
		}

		if !org.HasMember(user.ID) {
			apierrors.Forbidden(c, "Access denied to this organization")
			c.Abort()
			return
		}

		c.Set(contextKeyOrganization, org)
		c.Set(contextKeyOrganizationID, org.ID)
		c.Next()
	}
}

// resolveOrganizationID reads the organization id from, in priority order:
// the :id path parameter, an organizationId body field, an organizationId
// query parameter, then the user's current organization.
func resolveOrganizationID(c *gin.Context, user *models.User) (primitive.ObjectID, bool) {
	if raw := c.Param("id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return primitive.NilObjectID, false
		}
		return id, true
	}

	if raw := peekBodyOrganizationID(c); raw != "" {
		if id, err := primitive.ObjectIDFromHex(raw); err == nil {
			return id, true
		}
	}

	if raw := c.Query("organizationId"); raw != "" {
		if id, err := primitive.ObjectIDFromHex(raw); err == nil {
			return id, true
		}
	}

	if user.CurrentOrganizationID != nil {
		return *user.CurrentOrganizationID, true
	}

	return primitive.NilObjectID, false
}

// peekBodyOrganizationID reads an organizationId field out of a JSON body and
// re-arms the body so downstream binding still sees it.
func peekBodyOrganizationID(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var payload struct {
		OrganizationID string `json:"organizationId"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.OrganizationID
}

// GetOrganization retrieves the organization bound by RequireOrganizationAccess.
func GetOrganization(c *gin.Context) (*models.Organization, bool) {
	v, exists := c.Get(contextKeyOrganization)
	if !exists {
		return nil, false
	}
	org, ok := v.(*models.Organization)
	return org, ok
}
