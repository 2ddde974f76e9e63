package model

import "encoding/json"

// WSEvent is the envelope for all WebSocket traffic between the server and
// connected dashboards.
type WSEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// WSNewMessages announces that a channel grew by Count records since the
// last poll tick. One event per tick, not per message.
type WSNewMessages struct {
	Channel Channel `json:"channel"`
	Count   int     `json:"count"`
}

// WSMaintenance announces a maintenance mode transition.
type WSMaintenance struct {
	Enabled bool `json:"enabled"`
}
