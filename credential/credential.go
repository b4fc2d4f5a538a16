// Package credential remembers the player's name between runs. The OS keyring is preferred; a
// flat JSON file is used where no keyring backend exists.
package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/zalando/go-keyring"
)

const keyUsername = "username"

// ErrNotFound is returned when no username has been saved.
var ErrNotFound = errors.New("credential: not found")

// record is the on-disk fallback format.
type record struct {
	Username string `json:"username"`
}

// Store reads and writes the saved username.
type Store struct {
	service      string
	fallbackPath string
	mu           sync.Mutex
}

// NewStore returns a store using the given keyring service name and fallback file.
func NewStore(service, fallbackPath string) *Store {
	if strings.TrimSpace(service) == "" {
		service = "neon-tetris"
	}
	return &Store{service: service, fallbackPath: fallbackPath}
}

// Username returns the saved name, or ErrNotFound.
func (s *Store) Username() (string, error) {
	name, err := keyring.Get(s.service, keyUsername)
	if err == nil && name != "" {
		return name, nil
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		log.Debug().Err(err).Msg("keyring unavailable, reading credential file")
	}

	rec, ferr := s.readFile()
	if ferr != nil {
		return "", ferr
	}
	if rec.Username == "" {
		return "", ErrNotFound
	}
	return rec.Username, nil
}

// SaveUsername stores name in the keyring, or in the fallback file if the keyring refuses.
func (s *Store) SaveUsername(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("credential: username is required")
	}
	if err := keyring.Set(s.service, keyUsername, name); err == nil {
		log.Info().Str("user", name).Msg("credentials saved to keyring")
		return nil
	} else {
		log.Debug().Err(err).Msg("keyring set failed, writing credential file")
	}
	if err := s.writeFile(record{Username: name}); err != nil {
		return err
	}
	log.Info().Str("user", name).Str("path", s.fallbackPath).Msg("credentials saved")
	return nil
}

// Forget removes the saved name from both places.
func (s *Store) Forget() error {
	if err := keyring.Delete(s.service, keyUsername); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		log.Debug().Err(err).Msg("keyring delete failed")
	}
	if s.fallbackPath == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.fallbackPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("credential: remove %s: %w", s.fallbackPath, err)
	}
	return nil
}

func (s *Store) readFile() (record, error) {
	if s.fallbackPath == "" {
		return record{}, ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.fallbackPath)
	if errors.Is(err, os.ErrNotExist) {
		return record{}, ErrNotFound
	}
	if err != nil {
		return record{}, fmt.Errorf("credential: read %s: %w", s.fallbackPath, err)
	}
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return record{}, fmt.Errorf("credential: decode %s: %w", s.fallbackPath, err)
	}
	return rec, nil
}

func (s *Store) writeFile(rec record) error {
	if s.fallbackPath == "" {
		return fmt.Errorf("credential: keyring unavailable and no fallback path configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.fallbackPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("credential: mkdir %s: %w", dir, err)
		}
	}
	tmp := s.fallbackPath + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("credential: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.fallbackPath); err != nil {
		return fmt.Errorf("credential: rename %s: %w", tmp, err)
	}
	return nil
}
