package store

import (
	"context"
	"sync"
	"time"

	"vcissuer/internal/issuance/models"
	"vcissuer/internal/sentinel"
)

// InMemoryStore keeps pending issuances in process memory. Expired entries
// stay until DeleteExpired runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	tickets map[string]models.PendingIssuance
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{tickets: make(map[string]models.PendingIssuance)}
}

func (s *InMemoryStore) Save(_ context.Context, ticket *models.PendingIssuance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[ticket.ClaimsHash] = *ticket
	return nil
}

func (s *InMemoryStore) FindByHash(_ context.Context, hash string) (*models.PendingIssuance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ticket, ok := s.tickets[hash]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &ticket, nil
}

func (s *InMemoryStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for hash, ticket := range s.tickets {
		if ticket.IsExpired(now) {
			delete(s.tickets, hash)
			deleted++
		}
	}
	return deleted, nil
}
