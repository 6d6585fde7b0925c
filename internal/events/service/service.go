package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	configmodels "vcissuer/internal/configuration/models"
	"vcissuer/internal/events/models"
	"vcissuer/internal/sentinel"
	"vcissuer/pkg/domain"
	dErrors "vcissuer/pkg/domain-errors"
	"vcissuer/pkg/platform/audit"
	"vcissuer/pkg/requestcontext"
	"vcissuer/pkg/secrets"
)

// Store persists events.
type Store interface {
	Create(ctx context.Context, event *models.Event) error
	FindByName(ctx context.Context, name string) (*models.Event, error)
	List(ctx context.Context) ([]*models.Event, error)
}

// ConfigSource exposes the current issuer configuration snapshot.
type ConfigSource interface {
	Current() *configmodels.IssuerConfiguration
}

type Option func(*Service)

// WithAuditor attaches an audit logger.
func WithAuditor(a *audit.Logger) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

// WithCodeGenerator overrides registration code generation.
func WithCodeGenerator(fn func() (string, error)) Option {
	return func(s *Service) {
		s.newCode = fn
	}
}

// Service is the event registry.
type Service struct {
	store   Store
	config  ConfigSource
	logger  *slog.Logger
	auditor *audit.Logger
	newCode func() (string, error)
}

func New(store Store, config ConfigSource, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:   store,
		config:  config,
		logger:  logger,
		newCode: secrets.RegistrationCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) requireController(caller domain.Principal, msg string) error {
	cfg := s.config.Current()
	if cfg == nil || !cfg.IsController(caller) {
		return dErrors.New(dErrors.CodeForbidden, msg)
	}
	return nil
}

// Add registers a new event. A nil code is replaced by a generated one; an
// empty code is rejected.
func (s *Service) Add(ctx context.Context, caller domain.Principal, name string, code *string) (*models.Event, error) {
	if err := s.requireController(caller, "Only controllers can register events"); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "event name cannot be an empty string")
	}

	registrationCode := ""
	if code != nil {
		if *code == "" {
			return nil, dErrors.New(dErrors.CodeValidation, models.EmptyRegistrationCodeMessage)
		}
		registrationCode = *code
	} else {
		generated, err := s.newCode()
		if err != nil {
			return nil, err
		}
		registrationCode = generated
	}

	event := &models.Event{
		Name:             name,
		RegistrationCode: registrationCode,
		CreatedAt:        requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, event); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, fmt.Sprintf("event %s already exists", name))
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to add event")
	}

	s.logger.InfoContext(ctx, "event added",
		"event_name", name,
		"caller", caller,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.auditor.Log(ctx, audit.EventEventAdded, "", "event_name", name)
	return event, nil
}

// List returns every event with its registration code, in creation order.
func (s *Service) List(ctx context.Context, caller domain.Principal) ([]*models.Event, error) {
	if err := s.requireController(caller, "Only controllers can list events"); err != nil {
		return nil, err
	}
	events, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list events")
	}
	return events, nil
}

// Lookup returns the named event or not_found.
func (s *Service) Lookup(ctx context.Context, name string) (*models.Event, error) {
	event, err := s.store.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("event %s does not exist", name))
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up event")
	}
	return event, nil
}
