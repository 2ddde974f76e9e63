// Package state persists the per-viewer client state (sent-message set,
// sync cursor, maintenance flag, UI preferences) behind a small key-value
// interface so the chat core stays testable with an in-memory stand-in.
package state

import (
	"encoding/json"
	"strconv"
)

// Storage keys. These mirror the dashboard's localStorage keys so a state
// file is recognizable at a glance.
const (
	KeySentMessages = "vliz_sent_messages"
	KeyLastCount    = "vliz_last_message_count"
	KeyMaintenance  = "vliz_maintenance"
	KeyLanguage     = "vliz_language"
	KeyTheme        = "vliz_theme"
	KeySound        = "vliz_sound"
)

// Store is a flat string key-value store. Get returns "" for missing keys.
type Store interface {
	Get(key string) string
	Set(key, value string) error
}

// ClientState wraps a Store with typed accessors for the known keys.
type ClientState struct {
	kv Store
}

func NewClientState(kv Store) *ClientState {
	return &ClientState{kv: kv}
}

func (s *ClientState) SentBodies() []string {
	raw := s.kv.Get(KeySentMessages)
	if raw == "" {
		return nil
	}
	var bodies []string
	if err := json.Unmarshal([]byte(raw), &bodies); err != nil {
		return nil
	}
	return bodies
}

func (s *ClientState) SetSentBodies(bodies []string) error {
	if bodies == nil {
		bodies = []string{}
	}
	data, err := json.Marshal(bodies)
	if err != nil {
		return err
	}
	return s.kv.Set(KeySentMessages, string(data))
}

func (s *ClientState) LastProcessedCount() int {
	n, err := strconv.Atoi(s.kv.Get(KeyLastCount))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func (s *ClientState) SetLastProcessedCount(n int) error {
	return s.kv.Set(KeyLastCount, strconv.Itoa(n))
}

func (s *ClientState) Maintenance() bool {
	return s.kv.Get(KeyMaintenance) == "true"
}

func (s *ClientState) SetMaintenance(on bool) error {
	return s.kv.Set(KeyMaintenance, strconv.FormatBool(on))
}

// SoundEnabled defaults to true when the key was never written.
func (s *ClientState) SoundEnabled() bool {
	return s.kv.Get(KeySound) != "false"
}

func (s *ClientState) SetSoundEnabled(on bool) error {
	return s.kv.Set(KeySound, strconv.FormatBool(on))
}

func (s *ClientState) Language() string {
	if v := s.kv.Get(KeyLanguage); v != "" {
		return v
	}
	return "en"
}

func (s *ClientState) SetLanguage(lang string) error {
	return s.kv.Set(KeyLanguage, lang)
}

func (s *ClientState) Theme() string {
	if v := s.kv.Get(KeyTheme); v != "" {
		return v
	}
	return "dark"
}

func (s *ClientState) SetTheme(theme string) error {
	return s.kv.Set(KeyTheme, theme)
}
