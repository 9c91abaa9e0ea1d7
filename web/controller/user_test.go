package controller

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userhub/database"
	"userhub/web/entity"
	"userhub/web/service"
)

func setupUserRouter(t *testing.T, adminPatch bool) (*gin.Engine, *service.UserService, *service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, database.InitDB("file::memory:?cache=shared"))

	users := service.NewUserService()
	revoked := service.NewRevocationService()
	auth := service.NewAuthService(users, revoked, "test-secret")
	audit := &service.AuditLogService{}

	engine := gin.New()
	api := engine.Group("/api")
	NewUserController(api, users, audit, auth, revoked, adminPatch)
	return engine, users, auth
}

func listUsers(t *testing.T, engine *gin.Engine, path string, header http.Header) (*entity.UserPage, int, http.Header) {
	t.Helper()
	w := doJSON(t, engine, http.MethodGet, path, "", header)
	if w.Code != http.StatusOK {
		return nil, w.Code, w.Header()
	}
	var page entity.UserPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	return &page, w.Code, w.Header()
}

func TestListDefaults(t *testing.T) {
	engine, users, _ := setupUserRouter(t, false)
	require.NoError(t, users.SeedDemo(25))

	page, code, header := listUsers(t, engine, "/api/users", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.Limit)
	assert.Equal(t, 25, page.Total)
	assert.Len(t, page.Items, 20)
	assert.NotEmpty(t, header.Get("ETag"))
}

func TestListPagination(t *testing.T) {
	engine, users, _ := setupUserRouter(t, false)
	require.NoError(t, users.SeedDemo(25))

	page, code, _ := listUsers(t, engine, "/api/users?page=2&limit=20", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, 25, page.Total)

	// Past the end: empty items, total intact.
	page, code, _ = listUsers(t, engine, "/api/users?page=9&limit=20", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, page.Items)
	assert.Equal(t, 25, page.Total)

	// Bad parameters fall back to defaults; the limit is capped at 100.
	page, code, _ = listUsers(t, engine, "/api/users?page=zero&limit=-3", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.Limit)

	page, code, _ = listUsers(t, engine, "/api/users?limit=500", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 100, page.Limit)
}

func TestListSearch(t *testing.T) {
	engine, users, _ := setupUserRouter(t, false)
	require.NoError(t, users.SeedDemo(25))

	// Even-numbered demo users get .org addresses: 13 of 25.
	page, code, _ := listUsers(t, engine, "/api/users?search=ORG", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 13, page.Total)
	for _, u := range page.Items {
		assert.Contains(t, u.Email, ".org")
	}

	page, code, _ = listUsers(t, engine, "/api/users?search=monterrey", nil)
	require.Equal(t, http.StatusOK, code)
	for _, u := range page.Items {
		assert.Equal(t, "Monterrey", u.City)
	}

	page, code, _ = listUsers(t, engine, "/api/users?search=no-such-user", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Items)
}

func TestConditionalGet(t *testing.T) {
	engine, users, _ := setupUserRouter(t, false)
	require.NoError(t, users.SeedDemo(5))

	_, code, header := listUsers(t, engine, "/api/users", nil)
	require.Equal(t, http.StatusOK, code)
	tag := header.Get("ETag")
	require.NotEmpty(t, tag)

	// Replaying the query with the tag short-circuits to 304, empty body.
	w := doJSON(t, engine, http.MethodGet, "/api/users", "", http.Header{"If-None-Match": []string{tag}})
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())

	// Any data change invalidates the tag.
	_, err := users.ToggleActive(0)
	require.NoError(t, err)
	w = doJSON(t, engine, http.MethodGet, "/api/users", "", http.Header{"If-None-Match": []string{tag}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, tag, w.Header().Get("ETag"))
}

func TestPatchToggle(t *testing.T) {
	engine, users, _ := setupUserRouter(t, false)
	_, err := users.Create("Ana", "ana@x.org", "Monterrey", true, "secret1")
	require.NoError(t, err)

	w := doJSON(t, engine, http.MethodPatch, "/api/users/0", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var result entity.UpdateResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "User updated successfully", result.Message)
	assert.False(t, result.User.Active)

	// Toggling again restores the original state.
	w = doJSON(t, engine, http.MethodPatch, "/api/users/0", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.User.Active)
}

func TestPatchMerge(t *testing.T) {
	engine, users, _ := setupUserRouter(t, false)
	_, err := users.Create("Ana", "ana@x.org", "Monterrey", true, "secret1")
	require.NoError(t, err)
	_, err = users.Create("Bob", "bob@y.com", "CDMX", true, "secret1")
	require.NoError(t, err)

	w := doJSON(t, engine, http.MethodPatch, "/api/users/0", `{"city":"Austin","active":false}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var result entity.UpdateResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "Austin", result.User.City)
	assert.False(t, result.User.Active)
	assert.Equal(t, "Ana", result.User.Name)

	// Merge into a taken email conflicts.
	w = doJSON(t, engine, http.MethodPatch, "/api/users/0", `{"email":"bob@y.com"}`, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPatchValidation(t *testing.T) {
	engine, users, _ := setupUserRouter(t, false)
	_, err := users.Create("Ana", "ana@x.org", "Monterrey", true, "secret1")
	require.NoError(t, err)

	for _, body := range []string{
		`{"name":"A"}`,
		`{"city":" x "}`,
		`{"email":"not-an-email"}`,
		`{broken`,
	} {
		w := doJSON(t, engine, http.MethodPatch, "/api/users/0", body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}
}

func TestPatchUnknownUser(t *testing.T) {
	engine, _, _ := setupUserRouter(t, false)

	w := doJSON(t, engine, http.MethodPatch, "/api/users/42", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")

	w = doJSON(t, engine, http.MethodPatch, "/api/users/abc", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPatchAdminGate(t *testing.T) {
	engine, users, auth := setupUserRouter(t, true)
	_, err := users.Create("Ana", "ana@x.org", "Monterrey", true, "secret1")
	require.NoError(t, err)
	_, err = users.BootstrapAdmin("root@x.org", "rootpass")
	require.NoError(t, err)

	// No token.
	w := doJSON(t, engine, http.MethodPatch, "/api/users/0", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Regular user token.
	access, _, err := auth.Login("ana@x.org", "secret1")
	require.NoError(t, err)
	w = doJSON(t, engine, http.MethodPatch, "/api/users/0", "", http.Header{"Authorization": []string{"Bearer " + access}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admin token.
	access, _, err = auth.Login("root@x.org", "rootpass")
	require.NoError(t, err)
	w = doJSON(t, engine, http.MethodPatch, "/api/users/0", "", http.Header{"Authorization": []string{"Bearer " + access}})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserStats(t *testing.T) {
	engine, users, _ := setupUserRouter(t, false)
	require.NoError(t, users.SeedDemo(4))

	w := doJSON(t, engine, http.MethodGet, "/api/users/stats", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats entity.UserStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Active)
	assert.Equal(t, 2, stats.Inactive)
	assert.Equal(t, 2, stats.OrgCount)
	assert.InDelta(t, 50.0, stats.OrgPercentage, 0.001)
}
