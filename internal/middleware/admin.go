package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/taskboard/taskboard-api/internal/errors"
)

// RequireAdmin checks that the user holds an admin or owner role in the bound
// organization. The role is read from the user's membership list; the
// organization document does not store roles. Runs after a tenant gate has
// bound the organization id.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUser(c)
		if !ok {
			apierrors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		orgID, ok := GetOrganizationID(c)
		if !ok {
			apierrors.BadRequest(c, "Organization not resolved")
			c.Abort()
			return
		}

		membership, ok := user.MembershipFor(orgID)
		if !ok || !membership.Role.CanAdminister() {
			apierrors.Forbidden(c, "Admin privileges required")
			c.Abort()
			return
		}

		c.Next()
	}
}
