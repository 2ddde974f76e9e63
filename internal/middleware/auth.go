package middleware

import (
	"vliz-backend/internal/allowlist"
	"vliz-backend/internal/session"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// Session locals keys.
const (
	LocalSession = "session"
)

// Auth requires a valid discord_session cookie and stores the decoded
// session in locals.
func Auth(codec *session.Codec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookie := c.Cookies(session.CookieName)
		if cookie == "" {
			return c.Status(401).JSON(fiber.Map{"error": "not authenticated"})
		}

		s, err := codec.Decode(cookie)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "invalid or expired session"})
		}

		c.Locals(LocalSession, s)
		return c.Next()
	}
}

// Admin requires the authenticated user to be on the admin list. Must run
// after Auth.
func Admin(list *allowlist.List) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := SessionFromCtx(c)
		if s == nil || !list.IsAdmin(s.UserID) {
			return c.Status(403).JSON(fiber.Map{"error": "admin access required"})
		}
		return c.Next()
	}
}

// OwnerKey guards destructive operations behind the X-Owner-Key header,
// compared against a bcrypt hash from configuration. An empty hash
// disables the routes entirely.
func OwnerKey(keyHash string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if keyHash == "" {
			return c.Status(403).JSON(fiber.Map{"error": "owner operations disabled"})
		}
		key := c.Get("X-Owner-Key")
		if key == "" || bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(key)) != nil {
			return c.Status(403).JSON(fiber.Map{"error": "invalid owner key"})
		}
		return c.Next()
	}
}
