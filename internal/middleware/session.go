package middleware

import (
	"vliz-backend/internal/model"
	"vliz-backend/internal/session"

	"github.com/gofiber/fiber/v2"
)

// OptionalAuth decodes the session cookie when present but lets anonymous
// requests through. Handlers that attribute messages read the session from
// locals and fall back to anonymous when it is absent.
func OptionalAuth(codec *session.Codec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cookie := c.Cookies(session.CookieName); cookie != "" {
			if s, err := codec.Decode(cookie); err == nil {
				c.Locals(LocalSession, s)
			}
		}
		return c.Next()
	}
}

// SessionFromCtx returns the decoded session stored by Auth/OptionalAuth,
// or nil for anonymous requests.
func SessionFromCtx(c *fiber.Ctx) *model.Session {
	s, _ := c.Locals(LocalSession).(*model.Session)
	return s
}
