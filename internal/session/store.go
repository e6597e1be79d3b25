package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rmaloney/backoffice/internal/client"
)

// state is the persisted session snapshot
type state struct {
	Token string       `json:"token,omitempty"`
	User  *client.User `json:"user,omitempty"`
}

// Store holds the current authentication session and persists it to disk so
// it survives process restarts. The zero value is unusable; use NewStore.
//
// Store implements client.TokenSource.
type Store struct {
	mu        sync.RWMutex
	path      string
	state     state
	listeners []func()
}

// NewStore creates a session store backed by the file at path. An existing
// session file is loaded; a missing or unreadable file starts logged out.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	if err := json.Unmarshal(data, &s.state); err != nil {
		// A corrupt session file is not fatal; start logged out.
		s.state = state{}
	}

	return s, nil
}

// Login stores the token and user for an authenticated session
func (s *Store) Login(token string, user *client.User) error {
	s.mu.Lock()
	s.state = state{Token: token, User: user}
	err := s.save()
	s.mu.Unlock()

	s.notify()
	return err
}

// Logout clears the session and removes the persisted file
func (s *Store) Logout() error {
	s.mu.Lock()
	s.state = state{}
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		s.mu.Unlock()
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// SetUser replaces the cached user without touching the token
func (s *Store) SetUser(user *client.User) error {
	s.mu.Lock()
	s.state.User = user
	err := s.save()
	s.mu.Unlock()

	s.notify()
	return err
}

// Token returns the current bearer token, or empty when logged out
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// Current returns the cached authenticated user, or nil when logged out
func (s *Store) Current() *client.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User
}

// IsAuthenticated reports whether a token is present
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token != ""
}

// OnChange registers a callback invoked after every session change
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// save writes the session to disk. Caller must hold the lock.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	// The file holds a bearer token; keep it owner-only.
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

func (s *Store) notify() {
	s.mu.RLock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}
