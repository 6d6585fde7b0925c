package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"vcissuer/internal/configuration/models"
	"vcissuer/internal/sentinel"
	"vcissuer/pkg/domain"
	dErrors "vcissuer/pkg/domain-errors"
	"vcissuer/pkg/platform/audit"
)

// Store persists the issuer configuration.
// Load returns sentinel.ErrNotFound when nothing has been saved yet.
type Store interface {
	Load(ctx context.Context) (*models.IssuerConfiguration, error)
	Save(ctx context.Context, cfg *models.IssuerConfiguration) error
}

type Option func(*Service)

// Service owns the issuer configuration lifecycle.
type Service struct {
	store   Store
	holder  *Holder
	auditor *audit.Logger
	logger  *slog.Logger

	// mu serializes writers so version numbers stay monotonic.
	mu sync.Mutex
}

func WithAuditor(a *audit.Logger) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

func New(store Store, holder *Holder, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		holder: holder,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bootstrap installs the persisted configuration, or persists seed when the
// store is empty.
func (s *Service) Bootstrap(ctx context.Context, seed *models.IssuerConfiguration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.store.Load(ctx)
	switch {
	case err == nil:
		s.holder.set(stored)
		s.logger.InfoContext(ctx, "issuer configuration restored", "version", stored.Version)
		return nil
	case !errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load issuer configuration")
	}

	if err := seed.Validate(); err != nil {
		return err
	}
	next := seed.Clone()
	next.Version = 1
	if err := s.store.Save(ctx, next); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save issuer configuration")
	}
	s.holder.set(next)
	s.logger.InfoContext(ctx, "issuer configuration seeded", "version", next.Version)
	return nil
}

// Current returns the active configuration snapshot.
func (s *Service) Current() *models.IssuerConfiguration {
	return s.holder.Current()
}

// Configure replaces the whole configuration. Only controllers of the
// current configuration may call it.
func (s *Service) Configure(ctx context.Context, caller domain.Principal, cfg *models.IssuerConfiguration) (*models.IssuerConfiguration, error) {
	current := s.holder.Current()
	if current == nil || !current.IsController(caller) {
		return nil, dErrors.New(dErrors.CodeForbidden, "Only controllers can configure the issuer")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := cfg.Clone()
	next.Version = s.holder.version() + 1
	if err := s.store.Save(ctx, next); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save issuer configuration")
	}
	s.holder.set(next)

	s.auditor.Log(ctx, audit.EventIssuerConfigured, caller.String(),
		"version", next.Version,
		"authorities", strings.Join(next.AuthorityIDs, ","),
	)
	return next, nil
}

// DerivationOrigin returns the origin principals are derived for when the
// issuer is used from frontendHostname.
func (s *Service) DerivationOrigin(_ context.Context, frontendHostname string) (*models.DerivationOriginResponse, error) {
	current := s.holder.Current()
	if current == nil || !current.AllowsFrontend(frontendHostname) {
		return nil, dErrors.New(dErrors.CodeUnsupportedOrigin, frontendHostname)
	}
	return &models.DerivationOriginResponse{Origin: current.DerivationOrigin}, nil
}
