package handler

import (
	"vliz-backend/internal/state"

	"github.com/gofiber/fiber/v2"
)

// SettingsHandler serves the persisted viewer state: the maintenance flag
// and the UI preferences.
type SettingsHandler struct {
	state *state.ClientState
}

func NewSettingsHandler(st *state.ClientState) *SettingsHandler {
	return &SettingsHandler{state: st}
}

// Maintenance reports the current maintenance flag. The dashboard checks
// it on load; transitions in between arrive over WebSocket.
// GET /api/v1/maintenance
func (h *SettingsHandler) Maintenance(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"enabled": h.state.Maintenance()})
}

// Preferences returns the stored UI preferences.
// GET /api/v1/preferences
func (h *SettingsHandler) Preferences(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"language": h.state.Language(),
		"theme":    h.state.Theme(),
		"sound":    h.state.SoundEnabled(),
	})
}

// UpdatePreferences stores the UI preferences. Absent fields keep their
// current value.
// PUT /api/v1/preferences
func (h *SettingsHandler) UpdatePreferences(c *fiber.Ctx) error {
	var req struct {
		Language *string `json:"language"`
		Theme    *string `json:"theme"`
		Sound    *bool   `json:"sound"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Language != nil {
		if *req.Language != "en" && *req.Language != "es" {
			return c.Status(400).JSON(fiber.Map{"error": "language must be en or es"})
		}
		if err := h.state.SetLanguage(*req.Language); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to save preferences"})
		}
	}
	if req.Theme != nil {
		if err := h.state.SetTheme(*req.Theme); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to save preferences"})
		}
	}
	if req.Sound != nil {
		if err := h.state.SetSoundEnabled(*req.Sound); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to save preferences"})
		}
	}

	return c.JSON(fiber.Map{"success": true})
}
