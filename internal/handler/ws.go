package handler

import (
	"encoding/json"
	"log"
	"time"

	"vliz-backend/internal/chat"
	"vliz-backend/internal/model"
	"vliz-backend/internal/service"
	"vliz-backend/internal/session"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type WSHandler struct {
	hub    *service.WSHub
	engine *chat.Engine
	codec  *session.Codec
}

func NewWSHandler(hub *service.WSHub, engine *chat.Engine, codec *session.Codec) *WSHandler {
	return &WSHandler{hub: hub, engine: engine, codec: codec}
}

// Upgrade authenticates the session cookie and promotes the connection.
// GET /ws
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	cookie := c.Cookies(session.CookieName)
	if cookie == "" {
		return c.Status(401).JSON(fiber.Map{"error": "not authenticated"})
	}
	s, err := h.codec.Decode(cookie)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "invalid session"})
	}

	c.Locals("user_id", s.UserID)
	c.Locals("username", s.Username)
	return websocket.New(h.handleConnection)(c)
}

func (h *WSHandler) handleConnection(c *websocket.Conn) {
	userID, _ := c.Locals("user_id").(string)
	username, _ := c.Locals("username").(string)

	client := &service.WSClient{
		Conn:     c,
		UserID:   userID,
		Username: username,
		Send:     make(chan []byte, 256),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	// Writer goroutine
	go func() {
		defer c.Close()
		for msg := range client.Send {
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
	}()

	// Reader loop
	c.SetReadDeadline(time.Now().Add(60 * time.Second))
	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			break
		}
		c.SetReadDeadline(time.Now().Add(60 * time.Second))

		var event model.WSEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			continue
		}

		switch event.Type {
		case "ping":
			pong, _ := json.Marshal(model.WSEvent{Type: "pong"})
			select {
			case client.Send <- pong:
			default:
			}
		case "channel":
			// The viewer switched tabs; notifications follow the active
			// channel.
			var sub struct {
				Channel model.Channel `json:"channel"`
			}
			if err := json.Unmarshal(event.Data, &sub); err != nil {
				continue
			}
			switch sub.Channel {
			case model.ChannelSupport, model.ChannelPublic:
				h.engine.SetActiveChannel(sub.Channel)
			}
		default:
			log.Printf("WS: unknown event type %s from %s", event.Type, username)
		}
	}
}
