package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"vliz-backend/internal/model"
	"vliz-backend/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func okHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}

func TestAuth_MissingCookie(t *testing.T) {
	app := fiber.New()
	app.Get("/", Auth(session.NewCodec("secret")), okHandler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, 401, resp.StatusCode)
}

func TestAuth_ValidCookieExposesSession(t *testing.T) {
	codec := session.NewCodec("secret")
	token, err := codec.Encode(model.Session{UserID: "1", Username: "bob"})
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/", Auth(codec), func(c *fiber.Ctx) error {
		s := SessionFromCtx(c)
		require.NotNil(t, s)
		require.Equal(t, "bob", s.Username)
		return okHandler(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Cookie", session.CookieName+"="+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	app := fiber.New()
	app.Get("/", OptionalAuth(session.NewCodec("secret")), func(c *fiber.Ctx) error {
		require.Nil(t, SessionFromCtx(c))
		return okHandler(c)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
}

func TestOwnerKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	app := fiber.New()
	app.Post("/", OwnerKey(string(hash)), okHandler)

	// No key
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/", nil))
	require.NoError(t, err)
	require.Equal(t, 403, resp.StatusCode)

	// Wrong key
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Owner-Key", "guess")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 403, resp.StatusCode)

	// Right key
	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Owner-Key", "hunter2")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
}

func TestOwnerKey_DisabledWithoutHash(t *testing.T) {
	app := fiber.New()
	app.Post("/", OwnerKey(""), okHandler)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Owner-Key", "anything")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 403, resp.StatusCode)
}
