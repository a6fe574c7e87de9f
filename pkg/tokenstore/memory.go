package tokenstore

import (
	"context"
	"sync"

	"github.com/tigermood/moodcorner/pkg/models"
)

type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Load(_ context.Context) (models.TokenPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.TokenPair{
		AccessToken:  s.values[AccessTokenKey],
		RefreshToken: s.values[RefreshTokenKey],
	}, nil
}

func (s *MemoryStore) Save(_ context.Context, pair models.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[AccessTokenKey] = pair.AccessToken
	if pair.RefreshToken != "" {
		s.values[RefreshTokenKey] = pair.RefreshToken
	}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, AccessTokenKey)
	delete(s.values, RefreshTokenKey)
	return nil
}

// Get returns the raw value stored under key.
func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}
