package store

import (
	"context"
	"sync"

	"vcissuer/internal/events/models"
	"vcissuer/internal/sentinel"
)

// InMemoryStore keeps events in insertion order.
type InMemoryStore struct {
	mu     sync.RWMutex
	byName map[string]*models.Event
	order  []string
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{byName: make(map[string]*models.Event)}
}

// Create stores event, failing with sentinel.ErrConflict when the name is taken.
func (s *InMemoryStore) Create(_ context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[event.Name]; ok {
		return sentinel.ErrConflict
	}
	cp := *event
	s.byName[event.Name] = &cp
	s.order = append(s.order, event.Name)
	return nil
}

func (s *InMemoryStore) FindByName(_ context.Context, name string) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.byName[name]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *event
	return &cp, nil
}

// List returns all events ordered by creation.
func (s *InMemoryStore) List(_ context.Context) ([]*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Event, 0, len(s.order))
	for _, name := range s.order {
		cp := *s.byName[name]
		out = append(out, &cp)
	}
	return out, nil
}
