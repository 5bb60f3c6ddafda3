package memory

import (
	"context"
	"sync"
)

// TokenStore keeps the processor auth state in memory for local runs and
// tests.
type TokenStore struct {
	mu    sync.RWMutex
	token string
	user  string
}

func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

func (s *TokenStore) Token(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *TokenStore) SaveToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *TokenStore) SetUser(user string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

func (s *TokenStore) User() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// ClearAuth drops the token and any persisted user state together.
func (s *TokenStore) ClearAuth(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = ""
	return nil
}
