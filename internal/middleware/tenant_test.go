package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/taskboard/taskboard-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withUser injects an authenticated user without going through the token path.
func withUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKeyUser, user)
		c.Next()
	}
}

func tenantProbe(t *testing.T, user *models.User) (*gin.Engine, *primitive.ObjectID) {
	t.Helper()

	bound := new(primitive.ObjectID)
	r := gin.New()
	r.GET("/probe", withUser(user), RequireTenant(), func(c *gin.Context) {
		id, ok := GetOrganizationID(c)
		require.True(t, ok)
		*bound = id
		c.Status(http.StatusOK)
	})
	return r, bound
}

func TestRequireTenant_BindsCurrentOrganization(t *testing.T) {
	orgID := primitive.NewObjectID()
	user := &models.User{
		ID:                    primitive.NewObjectID(),
		CurrentOrganizationID: &orgID,
		Organizations: []models.Membership{
			{OrganizationID: orgID, Role: models.RoleMember},
		},
	}

	r, bound := tenantProbe(t, user)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, orgID, *bound)
}

func TestRequireTenant_NoCurrentOrganization(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID()}

	r, _ := tenantProbe(t, user)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequireTenant_StaleMembership(t *testing.T) {
	// Current organization points at an organization the user no longer
	// belongs to.
	orgID := primitive.NewObjectID()
	user := &models.User{
		ID:                    primitive.NewObjectID(),
		CurrentOrganizationID: &orgID,
		Organizations:         []models.Membership{},
	}

	r, _ := tenantProbe(t, user)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireTenant_Unauthenticated(t *testing.T) {
	r := gin.New()
	r.GET("/probe", RequireTenant(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
