package handler

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"vliz-backend/internal/allowlist"
	"vliz-backend/internal/middleware"
	"vliz-backend/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func newUsersApp(t *testing.T) (*fiber.App, *allowlist.List) {
	t.Helper()

	list, err := allowlist.New(filepath.Join(t.TempDir(), "allowed-users.json"), []string{"admin-1"})
	require.NoError(t, err)

	h := NewUserHandler(list)
	codec := session.NewCodec(testSecret)

	app := fiber.New()
	grp := app.Group("/users", middleware.Auth(codec), middleware.Admin(list))
	grp.Get("/", h.List)
	grp.Post("/", h.Add)
	grp.Delete("/", h.Remove)
	return app, list
}

func TestUsers_RequiresAuth(t *testing.T) {
	app, _ := newUsersApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users/", nil))
	require.NoError(t, err)
	require.Equal(t, 401, resp.StatusCode)
}

func TestUsers_RequiresAdmin(t *testing.T) {
	app, _ := newUsersApp(t)

	req := httptest.NewRequest(http.MethodGet, "/users/", nil)
	req.Header.Set("Cookie", sessionCookie(t, "random-user", "bob"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 403, resp.StatusCode)
}

func TestUsers_AdminCRUD(t *testing.T) {
	app, list := newUsersApp(t)
	cookie := sessionCookie(t, "admin-1", "boss")

	// Add
	req := jsonReq(t, http.MethodPost, "/users/", fiber.Map{"userId": "300"})
	req.Header.Set("Cookie", cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	require.True(t, list.IsAllowed("300"))

	// Duplicate add
	req = jsonReq(t, http.MethodPost, "/users/", fiber.Map{"userId": "300"})
	req.Header.Set("Cookie", cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 400, resp.StatusCode)

	// Remove
	req = jsonReq(t, http.MethodDelete, "/users/", fiber.Map{"userId": "300"})
	req.Header.Set("Cookie", cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	require.False(t, list.IsAllowed("300"))

	// Removing a default entry is refused
	req = jsonReq(t, http.MethodDelete, "/users/", fiber.Map{"userId": "admin-1"})
	req.Header.Set("Cookie", cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 403, resp.StatusCode)
}
