package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/taskboard/taskboard-api/internal/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const contextKeyOrganizationID = "organization_id"

// RequireTenant resolves the acting organization from the user's current
// organization pointer and binds its id onto the request context. Guards all
// project and task routes. Membership is verified from the user record alone;
// no organization fetch is needed on this path.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUser(c)
		if !ok {
			apierrors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		if user.CurrentOrganizationID == nil {
			apierrors.BadRequest(c, "No organization selected. Please select an organization first.")
			c.Abort()
			return
		}
		orgID := *user.CurrentOrganizationID

		// The pointer can go stale if memberships change out-of-band.
		if !user.IsMemberOf(orgID) {
			apierrors.Forbidden(c, "You do not have access to this organization")
			c.Abort()
			return
		}

		c.Set(contextKeyOrganizationID, orgID)
		c.Next()
	}
}

// GetOrganizationID retrieves the bound organization id from context. Every
// downstream project/task query must filter by it.
func GetOrganizationID(c *gin.Context) (primitive.ObjectID, bool) {
	v, exists := c.Get(contextKeyOrganizationID)
	if !exists {
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	return id, ok
}
