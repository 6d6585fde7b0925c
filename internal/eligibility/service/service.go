package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"vcissuer/internal/eligibility/metrics"
	"vcissuer/internal/eligibility/models"
	eventmodels "vcissuer/internal/events/models"
	"vcissuer/internal/sentinel"
	"vcissuer/pkg/domain"
	dErrors "vcissuer/pkg/domain-errors"
	"vcissuer/pkg/platform/audit"
	platformsync "vcissuer/pkg/platform/sync"
	"vcissuer/pkg/requestcontext"
)

// Store persists eligibility records.
type Store interface {
	FindBySubject(ctx context.Context, subject domain.Principal) (*models.Record, error)
	// Upsert creates the record if absent and appends eventName if absent.
	Upsert(ctx context.Context, subject domain.Principal, eventName string, now time.Time) (*models.Record, error)
	Count(ctx context.Context) (int, error)
}

// EventLookup resolves events by name. Missing events are reported as
// not_found domain errors.
type EventLookup interface {
	Lookup(ctx context.Context, name string) (*eventmodels.Event, error)
}

type Option func(*Service)

func WithAuditor(a *audit.Logger) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// Service registers subjects as early adopters and event attendees.
type Service struct {
	store   Store
	events  EventLookup
	logger  *slog.Logger
	auditor *audit.Logger
	metrics *metrics.Metrics
	locks   *platformsync.ShardedMutex
}

func New(store Store, events EventLookup, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		events: events,
		logger: logger,
		locks:  platformsync.NewShardedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register records subject as an early adopter, optionally attending the
// event in reg. Registering again is idempotent: the original join time is
// kept and an already attended event is not added twice.
func (s *Service) Register(ctx context.Context, subject domain.Principal, now time.Time, reg *models.EventRegistration) (*models.Record, error) {
	if subject.IsAnonymous() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "anonymous principals cannot register")
	}

	eventName := ""
	if reg != nil {
		normalized := *reg
		normalized.Normalize()
		reg = &normalized
		if err := reg.Validate(); err != nil {
			s.metrics.IncRegistration("rejected")
			return nil, err
		}
		if err := s.checkRegistrationCode(ctx, reg); err != nil {
			s.metrics.IncRegistration("rejected")
			return nil, err
		}
		eventName = reg.EventName
	}

	var record *models.Record
	var created bool
	err := s.locks.WithLock(subject.String(), func() error {
		_, err := s.store.FindBySubject(ctx, subject)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			created = true
		case err != nil:
			return err
		}
		record, err = s.store.Upsert(ctx, subject, eventName, now)
		return err
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register subject")
	}

	outcome := "existing"
	if created {
		outcome = "new"
	}
	s.metrics.IncRegistration(outcome)
	s.logger.InfoContext(ctx, "subject registered",
		"caller", subject,
		"event_name", eventName,
		"new", created,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.auditor.Log(ctx, audit.EventSubjectRegistered, subject.String(),
		"event_name", eventName,
		"new", created,
	)
	return record, nil
}

// Eligibility returns the subject's record, or nil when it never registered.
func (s *Service) Eligibility(ctx context.Context, subject domain.Principal) (*models.Record, error) {
	record, err := s.store.FindBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load eligibility")
	}
	return record, nil
}

func (s *Service) checkRegistrationCode(ctx context.Context, reg *models.EventRegistration) error {
	event, err := s.events.Lookup(ctx, reg.EventName)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(event.RegistrationCode), []byte(reg.RegistrationCode)) != 1 {
		return dErrors.New(dErrors.CodeForbidden, fmt.Sprintf("invalid registration code for event %s", reg.EventName))
	}
	return nil
}
