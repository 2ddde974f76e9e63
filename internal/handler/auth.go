package handler

import (
	"log"
	"time"

	"vliz-backend/internal/allowlist"
	"vliz-backend/internal/auth"
	"vliz-backend/internal/middleware"
	"vliz-backend/internal/session"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	oauth      *auth.DiscordOAuth
	codec      *session.Codec
	list       *allowlist.List
	production bool
}

func NewAuthHandler(oauth *auth.DiscordOAuth, codec *session.Codec, list *allowlist.List, production bool) *AuthHandler {
	return &AuthHandler{oauth: oauth, codec: codec, list: list, production: production}
}

// Login redirects the browser into the Discord authorize flow.
// GET /api/v1/auth/discord
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	return c.Redirect(h.oauth.AuthURL(), fiber.StatusTemporaryRedirect)
}

// Callback completes the OAuth flow: exchanges the code, gates on the
// allow-list, sets the session cookie and sends the user to the dashboard.
// GET /api/v1/auth/discord/callback
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	if errParam := c.Query("error"); errParam != "" {
		return c.Redirect("/?error=" + errParam)
	}

	code := c.Query("code")
	if code == "" {
		return c.Redirect("/?error=no_code")
	}

	s, err := h.oauth.Authenticate(c.Context(), code)
	if err != nil {
		log.Printf("[auth] discord oauth failed: %v", err)
		return c.Redirect("/?error=auth_failed")
	}

	if !h.list.IsAllowed(s.UserID) {
		return c.Redirect("/?error=not_verified")
	}

	token, err := h.codec.Encode(*s)
	if err != nil {
		log.Printf("[auth] encode session failed: %v", err)
		return c.Redirect("/?error=auth_failed")
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    token,
		HTTPOnly: true,
		Secure:   h.production,
		SameSite: "Lax",
		Expires:  time.Now().Add(session.Duration),
	})

	return c.Redirect("/dashboard")
}

// Session reports the current identity.
// GET /api/v1/auth/session
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	s := middleware.SessionFromCtx(c)
	if s == nil {
		return c.Status(401).JSON(fiber.Map{"authenticated": false})
	}

	return c.JSON(fiber.Map{
		"authenticated": true,
		"user": fiber.Map{
			"id":       s.UserID,
			"username": s.Username,
			"avatar":   s.Avatar,
			"isAdmin":  h.list.IsAdmin(s.UserID),
		},
	})
}

// Logout clears the session cookie.
// DELETE /api/v1/auth/session
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		HTTPOnly: true,
		Secure:   h.production,
		SameSite: "Lax",
		Expires:  time.Now().Add(-time.Hour),
	})
	return c.JSON(fiber.Map{"success": true})
}
