package store

import (
	"context"
	"sync"

	"vcissuer/internal/configuration/models"
	"vcissuer/internal/sentinel"
)

// InMemoryStore keeps the last saved configuration in process memory.
type InMemoryStore struct {
	mu  sync.RWMutex
	cfg *models.IssuerConfiguration
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

// Load returns sentinel.ErrNotFound until a configuration has been saved.
func (s *InMemoryStore) Load(_ context.Context) (*models.IssuerConfiguration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cfg == nil {
		return nil, sentinel.ErrNotFound
	}
	return s.cfg.Clone(), nil
}

func (s *InMemoryStore) Save(_ context.Context, cfg *models.IssuerConfiguration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg.Clone()
	return nil
}
