package handler

import (
	"errors"
	"log"
	"strings"
	"unicode/utf8"

	"vliz-backend/internal/chat"
	"vliz-backend/internal/logstore"
	"vliz-backend/internal/middleware"
	"vliz-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

type MessageHandler struct {
	store    logstore.Store
	pipeline *chat.Pipeline
}

func NewMessageHandler(store logstore.Store, pipeline *chat.Pipeline) *MessageHandler {
	return &MessageHandler{store: store, pipeline: pipeline}
}

// Get returns both classified channels.
// GET /api/v1/messages
//
// A store failure still answers 200 with empty channels and an error
// field: the dashboard keeps its last-known-good view and retries on the
// next poll instead of treating the outage as fatal.
func (h *MessageHandler) Get(c *fiber.Ctx) error {
	records, err := h.store.GetAll(c.Context())
	if err != nil {
		log.Printf("[messages] fetch failed: %v", err)
		return c.JSON(fiber.Map{
			"support": []model.ClassifiedMessage{},
			"public":  []model.ClassifiedMessage{},
			"error":   "backend unreachable",
		})
	}

	cls := chat.Classify(records)
	return c.JSON(fiber.Map{
		"support": cls.Support,
		"public":  cls.Public,
	})
}

// Send appends a text message to the requested channel.
// POST /api/v1/messages/send
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	var req model.SendRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if strings.TrimSpace(req.Msg) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "message is required"})
	}
	if utf8.RuneCountInString(req.Msg) > chat.MaxMessageChars {
		return c.Status(400).JSON(fiber.Map{"error": "message exceeds 64 characters"})
	}

	author := sessionAuthor(c)
	var err error
	if req.Channel == string(model.ChannelPublic) {
		err = h.pipeline.SendPublic(c.Context(), req.Msg, author)
	} else {
		err = h.pipeline.SendPlain(c.Context(), req.Msg, author)
	}
	if err != nil {
		log.Printf("[messages] send failed: %v", err)
		return c.Status(502).JSON(fiber.Map{"error": "failed to send message"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// SendFile appends a file message.
// POST /api/v1/messages/file
func (h *MessageHandler) SendFile(c *fiber.Ctx) error {
	var req model.SendFileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Filename == "" || req.DataURL == "" {
		return c.Status(400).JSON(fiber.Map{"error": "filename and data_url are required"})
	}

	author := sessionAuthor(c)
	public := req.Channel == string(model.ChannelPublic)
	if err := h.pipeline.SendFile(c.Context(), req.Filename, req.DataURL, author, public); err != nil {
		if errors.Is(err, chat.ErrSizeLimit) {
			return c.Status(413).JSON(fiber.Map{"error": "file too large (max 10MB)"})
		}
		log.Printf("[messages] send file failed: %v", err)
		return c.Status(502).JSON(fiber.Map{"error": "failed to send file"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// Delete removes a message by its display position within a channel.
// POST /api/v1/messages/delete
func (h *MessageHandler) Delete(c *fiber.Ctx) error {
	var req model.DeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Index < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "invalid message index"})
	}

	channel := model.ChannelSupport
	if req.ChatType == string(model.ChannelPublic) {
		channel = model.ChannelPublic
	}

	err := h.pipeline.Delete(c.Context(), channel, req.Index)
	switch {
	case errors.Is(err, chat.ErrRecordNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "message not found"})
	case errors.Is(err, chat.ErrDesync):
		return c.Status(409).JSON(fiber.Map{"error": "message is missing from the shared log"})
	case err != nil:
		log.Printf("[messages] delete failed: %v", err)
		return c.Status(502).JSON(fiber.Map{"error": "failed to delete message"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// Clear wipes the whole log. Owner key required.
// POST /api/v1/messages/clear
func (h *MessageHandler) Clear(c *fiber.Ctx) error {
	if err := h.store.Clear(c.Context()); err != nil {
		log.Printf("[messages] clear failed: %v", err)
		return c.Status(502).JSON(fiber.Map{"error": "failed to clear messages"})
	}
	return c.JSON(fiber.Map{"success": true})
}

// sessionAuthor maps an authenticated session onto the USER marker
// payload. Anonymous requests send unattributed.
func sessionAuthor(c *fiber.Ctx) *model.Author {
	s := middleware.SessionFromCtx(c)
	if s == nil {
		return nil
	}
	return &model.Author{UserID: s.UserID, Username: s.Username, Avatar: s.Avatar}
}
