// Package allowlist manages the set of Discord user IDs permitted to use
// the dashboard. The list lives in a JSON file under the data directory;
// default entries come from configuration and cannot be removed.
package allowlist

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"vliz-backend/internal/model"
)

var (
	ErrDuplicate   = errors.New("user already exists")
	ErrNotFound    = errors.New("user not found")
	ErrDefaultUser = errors.New("cannot delete default user")
)

type List struct {
	mu       sync.Mutex
	path     string
	adminIDs map[string]bool
	users    []model.AllowedUser
}

// New loads the allow-list from path, seeding it with the admin IDs on
// first run. Admins are always allowed and always default entries.
func New(path string, adminIDs []string) (*List, error) {
	l := &List{path: path, adminIDs: make(map[string]bool)}
	for _, id := range adminIDs {
		l.adminIDs[id] = true
	}

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		for _, id := range adminIDs {
			l.users = append(l.users, model.AllowedUser{ID: id, IsDefault: true})
		}
		if err := l.flushLocked(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal(raw, &l.users); err != nil {
			return nil, err
		}
	}

	return l, nil
}

func (l *List) IsAllowed(userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, u := range l.users {
		if u.ID == userID {
			return true
		}
	}
	return false
}

func (l *List) IsAdmin(userID string) bool {
	return l.adminIDs[userID]
}

func (l *List) All() []model.AllowedUser {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.AllowedUser{}, l.users...)
}

func (l *List) Add(userID string) (model.AllowedUser, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, u := range l.users {
		if u.ID == userID {
			return model.AllowedUser{}, ErrDuplicate
		}
	}

	user := model.AllowedUser{
		ID:      userID,
		AddedAt: time.Now().UTC().Format(time.RFC3339),
	}
	l.users = append(l.users, user)
	if err := l.flushLocked(); err != nil {
		return model.AllowedUser{}, err
	}
	return user, nil
}

func (l *List) Remove(userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, u := range l.users {
		if u.ID != userID {
			continue
		}
		if u.IsDefault {
			return ErrDefaultUser
		}
		l.users = append(l.users[:i], l.users[i+1:]...)
		return l.flushLocked()
	}
	return ErrNotFound
}

func (l *List) flushLocked() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(l.users, "", "  ")
	if err != nil {
		return err
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, l.path)
}
