package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Tokens is what a login yields.
type Tokens struct {
	Username string `json:"username"`
	Access   string `json:"access"`
	Refresh  string `json:"refresh"`
}

// Store persists tokens between processes.
type Store interface {
	Load() (Tokens, error)
	Save(Tokens) error
	Remove() error
}

// Session holds the caller's tokens. Every request reads the current
// access token from it.
type Session struct {
	mu     sync.RWMutex
	tokens Tokens
	store  Store
}

// NewSession restores tokens from store when one is given. A missing or
// unreadable file yields an empty session.
func NewSession(store Store) *Session {
	s := &Session{store: store}
	if store != nil {
		if tokens, err := store.Load(); err == nil {
			s.tokens = tokens
		}
	}
	return s
}

func (s *Session) Set(tokens Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens = tokens
	if s.store != nil {
		return s.store.Save(tokens)
	}
	return nil
}

func (s *Session) SetAccess(access string) error {
	s.mu.Lock()
	tokens := s.tokens
	s.mu.Unlock()

	tokens.Access = access
	return s.Set(tokens)
}

func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens = Tokens{}
	if s.store != nil {
		return s.store.Remove()
	}
	return nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.Access
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.Refresh
}

func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.Username
}

func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}

// FileStore keeps tokens in a JSON file readable only by the owner.
type FileStore struct {
	Path string
}

func (f FileStore) Load() (Tokens, error) {
	var tokens Tokens
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return tokens, err
	}
	if err := json.Unmarshal(data, &tokens); err != nil {
		return tokens, fmt.Errorf("failed to parse session file: %w", err)
	}
	return tokens, nil
}

func (f FileStore) Save(tokens Tokens) error {
	data, err := json.Marshal(tokens)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	return os.WriteFile(f.Path, data, 0o600)
}

func (f FileStore) Remove() error {
	err := os.Remove(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
