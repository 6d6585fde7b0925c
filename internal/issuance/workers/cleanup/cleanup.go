package cleanup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"vcissuer/internal/issuance/metrics"
)

// TicketStore exposes cleanup for expired pending issuances.
type TicketStore interface {
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// SignaturePruner drops certified signatures older than a cutoff.
type SignaturePruner interface {
	Prune(cutoff time.Time) int
}

// CleanupResult summarizes the deletions performed by a cleanup run.
type CleanupResult struct {
	DeletedTickets   int
	PrunedSignatures int
}

// CleanupService periodically removes expired pending issuances and the
// signatures no live ticket can still reference.
type CleanupService struct {
	tickets   TicketStore
	pruner    SignaturePruner
	retention time.Duration
	interval  time.Duration
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// CleanupOption configures CleanupService.
type CleanupOption func(*CleanupService)

// WithCleanupInterval overrides the cleanup interval when greater than zero.
func WithCleanupInterval(interval time.Duration) CleanupOption {
	return func(s *CleanupService) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithCleanupLogger overrides the logger used for cleanup results and errors.
func WithCleanupLogger(logger *slog.Logger) CleanupOption {
	return func(s *CleanupService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithCleanupMetrics(m *metrics.Metrics) CleanupOption {
	return func(s *CleanupService) {
		s.metrics = m
	}
}

// WithSignaturePruner prunes signatures certified more than retention ago.
func WithSignaturePruner(p SignaturePruner, retention time.Duration) CleanupOption {
	return func(s *CleanupService) {
		s.pruner = p
		s.retention = retention
	}
}

func WithCleanupClock(now func() time.Time) CleanupOption {
	return func(s *CleanupService) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a CleanupService for tickets with options applied.
func New(tickets TicketStore, opts ...CleanupOption) (*CleanupService, error) {
	if tickets == nil {
		return nil, fmt.Errorf("ticket store is required")
	}
	svc := &CleanupService{
		tickets:  tickets,
		interval: 5 * time.Minute,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

// Start runs cleanup periodically until ctx is cancelled.
func (s *CleanupService) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.ErrorContext(ctx, "ticket cleanup failed", "error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RunOnce performs a single cleanup pass. Failures are aggregated; a failed
// ticket deletion does not stop signature pruning.
func (s *CleanupService) RunOnce(ctx context.Context) (CleanupResult, error) {
	now := s.now()
	var res CleanupResult
	var errs []error

	deleted, err := s.tickets.DeleteExpired(ctx, now)
	if err != nil {
		errs = append(errs, fmt.Errorf("delete expired tickets: %w", err))
	} else {
		res.DeletedTickets = deleted
		s.metrics.AddTicketsExpired(deleted)
	}

	if s.pruner != nil && s.retention > 0 {
		res.PrunedSignatures = s.pruner.Prune(now.Add(-s.retention))
	}

	if res.DeletedTickets > 0 || res.PrunedSignatures > 0 {
		s.logger.InfoContext(ctx, "ticket_cleanup_completed",
			"deleted_tickets", res.DeletedTickets,
			"pruned_signatures", res.PrunedSignatures,
		)
	}

	if len(errs) > 0 {
		return res, errors.Join(errs...)
	}
	return res, nil
}
