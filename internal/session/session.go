package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cloudtalk/internal/models"
)

// Key is the slot name the resolved user persists under, the local
// equivalent of the browser's localStorage entry.
const Key = "chat-user"

// Store persists the logged-in user across process restarts. Absence of the
// file means no active session.
type Store struct {
	path string
}

// NewStore builds a store writing to path. An empty path resolves to
// <user config dir>/cloudtalk/chat-user.json.
func NewStore(path string) (*Store, error) {
	if path == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		path = filepath.Join(base, "cloudtalk", Key+".json")
	}
	return &Store{path: path}, nil
}

// Save writes the user to the slot.
func (s *Store) Save(user models.User) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Load reads the persisted user. The second return is false when no session
// exists.
func (s *Store) Load() (models.User, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("read session: %w", err)
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return models.User{}, false, fmt.Errorf("decode session: %w", err)
	}
	return user, true, nil
}

// Clear removes the slot; clearing an absent session is fine.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
