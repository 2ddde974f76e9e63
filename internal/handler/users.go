package handler

import (
	"errors"
	"log"

	"vliz-backend/internal/allowlist"

	"github.com/gofiber/fiber/v2"
)

// UserHandler exposes the allow-list CRUD. All routes sit behind the admin
// middleware.
type UserHandler struct {
	list *allowlist.List
}

func NewUserHandler(list *allowlist.List) *UserHandler {
	return &UserHandler{list: list}
}

// List returns every allowed user.
// GET /api/v1/users
func (h *UserHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"users": h.list.All()})
}

// Add puts a Discord user ID on the allow-list.
// POST /api/v1/users
func (h *UserHandler) Add(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.UserID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "invalid user ID"})
	}

	user, err := h.list.Add(req.UserID)
	switch {
	case errors.Is(err, allowlist.ErrDuplicate):
		return c.Status(400).JSON(fiber.Map{"error": "user already exists"})
	case err != nil:
		log.Printf("[users] add failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to add user"})
	}

	return c.JSON(fiber.Map{"success": true, "user": user})
}

// Remove takes a Discord user ID off the allow-list. Default entries are
// protected.
// DELETE /api/v1/users
func (h *UserHandler) Remove(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.UserID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "invalid user ID"})
	}

	err := h.list.Remove(req.UserID)
	switch {
	case errors.Is(err, allowlist.ErrNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "user not found"})
	case errors.Is(err, allowlist.ErrDefaultUser):
		return c.Status(403).JSON(fiber.Map{"error": "cannot delete default user"})
	case err != nil:
		log.Printf("[users] remove failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete user"})
	}

	return c.JSON(fiber.Map{"success": true})
}
