package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	apierrors "github.com/taskboard/taskboard-api/internal/errors"
	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/repository"
	"github.com/taskboard/taskboard-api/internal/services"
)

const contextKeyUser = "user"

// RequireAuth verifies the bearer token and attaches the resolved user to the
// request context. This is the only place a raw token is ever decoded; all
// later stages trust the attached user.
func RequireAuth(tokens *services.TokenService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apierrors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		userID, err := tokens.Verify(tokenStr)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		// The user may have been deleted after the token was issued.
		user, err := userRepo.FindByID(c.Request.Context(), userID)
		if err != nil {
			apierrors.Unauthorized(c, "User not found")
			c.Abort()
			return
		}

		c.Set(contextKeyUser, user)
		c.Next()
	}
}

// GetUser retrieves the authenticated user from context.
func GetUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(contextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
