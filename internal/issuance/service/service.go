package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	configmodels "vcissuer/internal/configuration/models"
	credential "vcissuer/internal/credential/models"
	eligibility "vcissuer/internal/eligibility/models"
	"vcissuer/internal/idalias"
	"vcissuer/internal/issuance/certifier"
	"vcissuer/internal/issuance/metrics"
	"vcissuer/internal/issuance/models"
	"vcissuer/internal/issuance/vctoken"
	"vcissuer/internal/sentinel"
	"vcissuer/pkg/domain"
	dErrors "vcissuer/pkg/domain-errors"
	"vcissuer/pkg/platform/audit"
	"vcissuer/pkg/platform/tracer"
	"vcissuer/pkg/requestcontext"
)

// DefaultTicketTTL bounds the time between prepare and get.
const DefaultTicketTTL = 15 * time.Minute

const (
	contextExpiredMessage = "prepared context expired or unknown"
	specMismatchMessage   = "credential spec does not match prepared context"
)

// ConfigSource returns the current issuer configuration snapshot.
type ConfigSource interface {
	Current() *configmodels.IssuerConfiguration
}

// AliasVerifier checks signed id aliases against the issuer configuration.
type AliasVerifier interface {
	Verify(ctx context.Context, signed idalias.SignedIdAlias, expectedSubject domain.Principal, now time.Time, cfg *configmodels.IssuerConfiguration) (*idalias.VerifiedAlias, error)
}

// EligibilityReader returns a subject's record, or nil when it never registered.
type EligibilityReader interface {
	Eligibility(ctx context.Context, subject domain.Principal) (*eligibility.Record, error)
}

// Catalog derives credential claims for supported credential specs.
type Catalog interface {
	DeriveClaims(spec credential.CredentialSpec, subject domain.Principal, record *eligibility.Record) (*credential.Claims, error)
	ValidateClaimsMatchSpec(claims *credential.Claims, spec credential.CredentialSpec) error
}

// Certifier signs committed messages out of band.
type Certifier interface {
	Commit(message []byte) string
	Signature(hash string) ([]byte, error)
}

// Tickets persists pending issuances keyed by claims hash.
type Tickets interface {
	Save(ctx context.Context, ticket *models.PendingIssuance) error
	FindByHash(ctx context.Context, hash string) (*models.PendingIssuance, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
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

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func WithTicketTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ticketTTL = ttl
		}
	}
}

// Deps groups the collaborators the issuance flow cannot run without.
type Deps struct {
	Config      ConfigSource
	Verifier    AliasVerifier
	Eligibility EligibilityReader
	Catalog     Catalog
	Certifier   Certifier
	Tickets     Tickets
	Builder     *vctoken.Builder
}

// Service runs the two-phase prepare/get credential issuance.
type Service struct {
	config      ConfigSource
	verifier    AliasVerifier
	eligibility EligibilityReader
	catalog     Catalog
	certifier   Certifier
	tickets     Tickets
	builder     *vctoken.Builder
	logger      *slog.Logger
	auditor     *audit.Logger
	metrics     *metrics.Metrics
	tracer      tracer.Tracer
	ticketTTL   time.Duration
}

func New(deps Deps, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		config:      deps.Config,
		verifier:    deps.Verifier,
		eligibility: deps.Eligibility,
		catalog:     deps.Catalog,
		certifier:   deps.Certifier,
		tickets:     deps.Tickets,
		builder:     deps.Builder,
		logger:      logger,
		tracer:      tracer.NewNoop(),
		ticketTTL:   DefaultTicketTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prepare verifies the caller's id alias, derives the claims for spec and
// commits the credential's signing input for certification. The returned
// context identifies the pending issuance in Get.
func (s *Service) Prepare(ctx context.Context, caller domain.Principal, spec credential.CredentialSpec, signed idalias.SignedIdAlias) (resp *models.PrepareResponse, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanIssuancePrepare,
		tracer.String(tracer.AttrCredentialType, spec.CredentialType),
	)
	defer func() { span.End(err) }()

	now := requestcontext.Now(ctx)
	alias, err := s.verifier.Verify(ctx, signed, caller, now, s.config.Current())
	if err != nil {
		return nil, err
	}

	record, err := s.eligibility.Eligibility(ctx, alias.Subject)
	if err != nil {
		return nil, err
	}
	claims, err := s.catalog.DeriveClaims(spec, alias.Subject, record)
	if err != nil {
		return nil, err
	}
	if err := s.catalog.ValidateClaimsMatchSpec(claims, spec); err != nil {
		return nil, err
	}

	signingInput, err := s.builder.SigningInput(s.builder.NewPayload(alias.Alias, claims, now))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build credential")
	}
	hash := s.certifier.Commit([]byte(signingInput))
	span.SetAttributes(tracer.String(tracer.AttrClaimsHash, hash))

	ticket := &models.PendingIssuance{
		ClaimsHash:     hash,
		CredentialType: claims.CredentialType,
		Spec:           spec,
		Subject:        alias.Subject,
		Alias:          alias.Alias,
		SigningInput:   signingInput,
		RequestedAt:    now,
		ExpiresAt:      now.Add(s.ticketTTL),
	}
	if err := s.tickets.Save(ctx, ticket); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save pending issuance")
	}
	span.AddEvent(tracer.EventTicketSaved)

	preparedContext, err := models.EncodeContext(hash)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode prepared context")
	}

	s.metrics.IncPrepared(claims.CredentialType)
	s.logger.InfoContext(ctx, "credential prepared",
		"credential_type", claims.CredentialType,
		"claims_hash", hash,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.auditor.Log(ctx, audit.EventCredentialPrepared, alias.Subject.String(),
		"credential_type", claims.CredentialType,
		"claims_hash", hash,
	)
	return &models.PrepareResponse{PreparedContext: preparedContext}, nil
}

// Get returns the credential for a previously prepared context once its
// signature is certified. It is idempotent: the pending issuance is kept
// until it expires.
func (s *Service) Get(ctx context.Context, caller domain.Principal, spec credential.CredentialSpec, signed idalias.SignedIdAlias, preparedContext []byte) (resp *models.GetResponse, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanIssuanceGet,
		tracer.String(tracer.AttrCredentialType, spec.CredentialType),
	)
	defer func() { span.End(err) }()

	now := requestcontext.Now(ctx)
	alias, err := s.verifier.Verify(ctx, signed, caller, now, s.config.Current())
	if err != nil {
		return nil, err
	}

	hash, err := models.DecodeContext(preparedContext)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid prepared context")
	}
	span.SetAttributes(tracer.String(tracer.AttrClaimsHash, hash))

	ticket, err := s.tickets.FindByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodePreparedContextExpired, contextExpiredMessage)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load pending issuance")
	}
	if ticket.IsExpired(now) {
		return nil, dErrors.New(dErrors.CodePreparedContextExpired, contextExpiredMessage)
	}
	if models.HashSigningInput(ticket.SigningInput) != hash {
		return nil, dErrors.New(dErrors.CodeInternal, "pending issuance does not match its claims hash")
	}
	if ticket.Subject != alias.Subject || ticket.Alias != alias.Alias {
		return nil, dErrors.New(dErrors.CodeInvalidIdAlias, idalias.InvalidAliasMessage)
	}
	if !ticket.Spec.Equal(spec) {
		return nil, dErrors.New(dErrors.CodeUnsupportedCredentialSpec, specMismatchMessage)
	}

	vcJws, err := s.builder.Assemble(ticket.SigningInput, s.certifier.Signature)
	if err != nil {
		if errors.Is(err, certifier.ErrSignatureNotFound) {
			// Signatures do not survive a restart; queue the input again.
			s.certifier.Commit([]byte(ticket.SigningInput))
			s.metrics.IncSignatureNotReady()
			span.SetAttributes(tracer.Bool(tracer.AttrReady, false))
			return nil, dErrors.Wrap(err, dErrors.CodeSignatureNotFound, "signature not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to assemble credential")
	}
	span.SetAttributes(tracer.Bool(tracer.AttrReady, true))

	s.metrics.IncIssued(ticket.CredentialType)
	s.logger.InfoContext(ctx, "credential issued",
		"credential_type", ticket.CredentialType,
		"claims_hash", hash,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.auditor.Log(ctx, audit.EventCredentialIssued, alias.Subject.String(),
		"credential_type", ticket.CredentialType,
		"claims_hash", hash,
	)
	return &models.GetResponse{VcJws: vcJws}, nil
}
