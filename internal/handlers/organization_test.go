package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taskboard/taskboard-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOrganizationHandler_Create(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice@example.com", "Alice", "Acme")

	w := env.do(t, http.MethodPost, "/api/organizations", alice.Token, map[string]string{
		"name": "Side Project",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Organization models.Organization `json:"organization"`
	}
	decodeJSON(t, w, &resp)
	require.Equal(t, "Side Project", resp.Organization.Name)
	require.NotEmpty(t, resp.Organization.Slug)
	require.Equal(t, alice.User.ID, resp.Organization.OwnerID.Hex())

	// The creator's membership shows up on the user side as owner.
	userID, err := primitive.ObjectIDFromHex(alice.User.ID)
	require.NoError(t, err)
	user, err := env.users.FindByID(context.Background(), userID)
	require.NoError(t, err)

	membership, ok := user.MembershipFor(resp.Organization.ID)
	require.True(t, ok)
	require.Equal(t, models.RoleOwner, membership.Role)

	// Registering already set a current organization; creating another one
	// does not change it.
	require.NotNil(t, user.CurrentOrganizationID)
	require.Equal(t, alice.User.Organizations[0].OrganizationID, user.CurrentOrganizationID.Hex())
}

func TestOrganizationHandler_ListIncludesRoles(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice@example.com", "Alice", "Acme")
	bob := env.register(t, "bob@example.com", "Bob", "Bobcorp")

	// Invite Bob into Acme as a member.
	acmeID := alice.User.Organizations[0].OrganizationID
	w := env.do(t, http.MethodPost, "/api/organizations/"+acmeID+"/invite", alice.Token, map[string]string{
		"email": "bob@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/organizations", bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Organizations []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			Role string `json:"role"`
		} `json:"organizations"`
	}
	decodeJSON(t, w, &list)
	require.Len(t, list.Organizations, 2)

	roles := map[string]string{}
	for _, org := range list.Organizations {
		roles[org.Name] = org.Role
	}
	require.Equal(t, "owner", roles["Bobcorp"])
	require.Equal(t, "member", roles["Acme"])
}

func TestOrganizationHandler_GetRequiresMembership(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice@example.com", "Alice", "Acme")
	bob := env.register(t, "bob@example.com", "Bob", "Bobcorp")

	acmeID := alice.User.Organizations[0].OrganizationID

	w := env.do(t, http.MethodGet, "/api/organizations/"+acmeID, alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Organization struct {
			Name    string `json:"name"`
			Members []struct {
				Email string `json:"email"`
			} `json:"members"`
		} `json:"organization"`
	}
	decodeJSON(t, w, &resp)
	require.Equal(t, "Acme", resp.Organization.Name)
	require.Len(t, resp.Organization.Members, 1)
	require.Equal(t, "alice@example.com", resp.Organization.Members[0].Email)

	// A non-member is refused, not told the organization is absent; its
	// existence is already evident from the id.
	w = env.do(t, http.MethodGet, "/api/organizations/"+acmeID, bob.Token, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	// An unknown organization id is absent outright.
	w = env.do(t, http.MethodGet, "/api/organizations/"+primitive.NewObjectID().Hex(), bob.Token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrganizationHandler_UpdateRequiresAdmin(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice@example.com", "Alice", "Acme")
	env.register(t, "bob@example.com", "Bob", "Bobcorp")

	acmeID := alice.User.Organizations[0].OrganizationID

	w := env.do(t, http.MethodPost, "/api/organizations/"+acmeID+"/invite", alice.Token, map[string]string{
		"email": "bob@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Bob is a plain member, so the admin gate refuses the update.
	login := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "bob@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, login.Code)
	var bob registeredUser
	decodeJSON(t, login, &bob)

	w = env.do(t, http.MethodPut, "/api/organizations/"+acmeID, bob.Token, map[string]any{
		"name": "Hijacked",
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	// The owner can rename and merge settings.
	w = env.do(t, http.MethodPut, "/api/organizations/"+acmeID, alice.Token, map[string]any{
		"name":     "Acme Corp",
		"settings": map[string]string{"theme": "dark"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Organization models.Organization `json:"organization"`
	}
	decodeJSON(t, w, &resp)
	require.Equal(t, "Acme Corp", resp.Organization.Name)
	require.Equal(t, "dark", resp.Organization.Settings["theme"])
}

func TestOrganizationHandler_InviteUpdatesBothSides(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice@example.com", "Alice", "Acme")
	bob := env.register(t, "bob@example.com", "Bob", "Bobcorp")

	acmeID := alice.User.Organizations[0].OrganizationID

	w := env.do(t, http.MethodPost, "/api/organizations/"+acmeID+"/invite", alice.Token, map[string]string{
		"email": "bob@example.com",
		"role":  "admin",
	})
	require.Equal(t, http.StatusOK, w.Code)

	orgID, err := primitive.ObjectIDFromHex(acmeID)
	require.NoError(t, err)
	bobID, err := primitive.ObjectIDFromHex(bob.User.ID)
	require.NoError(t, err)

	// Organization side lists Bob as a member.
	org, err := env.orgs.FindByID(context.Background(), orgID)
	require.NoError(t, err)
	require.True(t, org.HasMember(bobID))

	// User side carries the membership with the invited role.
	storedBob, err := env.users.FindByID(context.Background(), bobID)
	require.NoError(t, err)
	membership, ok := storedBob.MembershipFor(orgID)
	require.True(t, ok)
	require.Equal(t, models.RoleAdmin, membership.Role)
}

func TestOrganizationHandler_InviteExistingMember(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice@example.com", "Alice", "Acme")

	acmeID := alice.User.Organizations[0].OrganizationID

	w := env.do(t, http.MethodPost, "/api/organizations/"+acmeID+"/invite", alice.Token, map[string]string{
		"email": "alice@example.com",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrganizationHandler_InviteUnknownEmail(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice@example.com", "Alice", "Acme")

	acmeID := alice.User.Organizations[0].OrganizationID

	w := env.do(t, http.MethodPost, "/api/organizations/"+acmeID+"/invite", alice.Token, map[string]string{
		"email": "nobody@example.com",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}
