package store

import (
	"context"
	"sync"
	"time"

	"vcissuer/internal/eligibility/models"
	"vcissuer/internal/sentinel"
	"vcissuer/pkg/domain"
)

// InMemoryStore keeps eligibility records in process memory.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[domain.Principal]*models.Record
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{records: make(map[domain.Principal]*models.Record)}
}

func (s *InMemoryStore) FindBySubject(_ context.Context, subject domain.Principal) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[subject]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return record.Clone(), nil
}

// Upsert creates the record if absent and appends eventName if the subject
// does not attend it yet. An empty eventName only ensures the record exists.
func (s *InMemoryStore) Upsert(_ context.Context, subject domain.Principal, eventName string, now time.Time) (*models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[subject]
	if !ok {
		record = &models.Record{Subject: subject, JoinedAt: now}
		s.records[subject] = record
	}
	if eventName != "" && !record.Attended(eventName) {
		record.Events = append(record.Events, models.EventAttendance{EventName: eventName, JoinedAt: now})
	}
	return record.Clone(), nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}
