package handler

import (
	"context"
	"time"

	"vliz-backend/internal/logstore"

	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	store logstore.Store
}

func NewHealthHandler(store logstore.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready probes the log store with a short timeout so the dashboard's
// connection indicator can tell "server up, store down" from "all good".
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := h.store.GetAll(ctx); err != nil {
		return c.Status(503).JSON(fiber.Map{
			"status":    "offline",
			"connected": false,
			"message":   "message store is not reachable",
		})
	}

	return c.JSON(fiber.Map{
		"status":    "online",
		"connected": true,
		"message":   "message store is reachable",
	})
}
