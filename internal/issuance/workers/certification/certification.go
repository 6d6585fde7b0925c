// Package certification runs certification rounds for committed credential
// signing inputs in the background.
package certification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vcissuer/internal/issuance/metrics"
	"vcissuer/pkg/platform/tracer"
)

// Certifier signs every pending signing input in one round.
type Certifier interface {
	CertifyRound(now time.Time) int
}

// Worker calls CertifyRound on a fixed interval.
type Worker struct {
	certifier Certifier
	interval  time.Duration
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    tracer.Tracer
	now       func() time.Time
}

type Option func(*Worker)

// WithInterval overrides the round interval when greater than zero.
func WithInterval(interval time.Duration) Option {
	return func(w *Worker) {
		if interval > 0 {
			w.interval = interval
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Worker) {
		w.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(w *Worker) {
		if t != nil {
			w.tracer = t
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(w *Worker) {
		if now != nil {
			w.now = now
		}
	}
}

func New(certifier Certifier, opts ...Option) (*Worker, error) {
	if certifier == nil {
		return nil, fmt.Errorf("certifier is required")
	}
	w := &Worker{
		certifier: certifier,
		interval:  time.Second,
		logger:    slog.Default(),
		tracer:    tracer.NewNoop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w, nil
}

// Start runs rounds until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.RunOnce(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RunOnce performs a single round and returns the number of certified inputs.
func (w *Worker) RunOnce(ctx context.Context) int {
	ctx, span := w.tracer.Start(ctx, tracer.SpanCertifyRound)
	n := w.certifier.CertifyRound(w.now())
	span.SetAttributes(tracer.Int64(tracer.AttrCertified, int64(n)))
	span.End(nil)

	if n > 0 {
		w.metrics.AddSignaturesCertified(n)
		w.logger.DebugContext(ctx, "certification_round_completed", "certified", n)
	}
	return n
}
