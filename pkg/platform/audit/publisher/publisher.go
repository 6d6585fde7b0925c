// Package publisher hands audit events to a store, optionally through a
// bounded background queue.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	dErrors "vcissuer/pkg/domain-errors"
	audit "vcissuer/pkg/platform/audit"
	"vcissuer/pkg/platform/audit/metrics"
)

// ErrClosed is returned by Emit after Close.
var ErrClosed = errors.New("audit publisher closed")

const defaultPersistTimeout = 5 * time.Second

type Publisher struct {
	store          audit.Store
	logger         *slog.Logger
	metrics        *metrics.Metrics
	persistTimeout time.Duration
	now            func() time.Time

	queue  chan audit.Event
	done   sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

type PublisherOption func(*Publisher)

// WithAsyncBuffer queues up to size events and persists them on a
// background goroutine. Emit never blocks on the store in this mode.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.queue = make(chan audit.Event, size)
		}
	}
}

func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) { p.logger = logger }
}

func WithMetrics(m *metrics.Metrics) PublisherOption {
	return func(p *Publisher) { p.metrics = m }
}

// WithPersistTimeout bounds each background Append. Default 5s.
func WithPersistTimeout(d time.Duration) PublisherOption {
	return func(p *Publisher) {
		if d > 0 {
			p.persistTimeout = d
		}
	}
}

func NewPublisher(store audit.Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		store:          store,
		logger:         slog.Default(),
		persistTimeout: defaultPersistTimeout,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.queue != nil {
		p.done.Add(1)
		go p.drain()
	}
	return p
}

// Emit stamps event with an ID and timestamp when missing and records it.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.metrics.Observe(metrics.Rejected)
		return ErrClosed
	}
	if p.queue == nil {
		return p.persist(ctx, event)
	}

	select {
	case p.queue <- event:
		p.metrics.Queued(1)
		p.metrics.Observe(metrics.Enqueued)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.metrics.Observe(metrics.Dropped)
		p.logger.Warn("audit queue full, dropping event",
			"action", event.Action,
			"subject", event.Subject,
		)
		return dErrors.New(dErrors.CodeInternal, "audit queue full")
	}
}

func (p *Publisher) drain() {
	defer p.done.Done()
	for event := range p.queue {
		p.metrics.Queued(-1)
		ctx, cancel := context.WithTimeout(context.Background(), p.persistTimeout)
		if err := p.persist(ctx, event); err != nil {
			p.logger.Error("audit event not persisted",
				"error", err,
				"event_id", event.ID,
				"action", event.Action,
				"subject", event.Subject,
			)
		}
		cancel()
	}
}

func (p *Publisher) persist(ctx context.Context, event audit.Event) error {
	start := p.now()
	err := p.store.Append(ctx, event)
	p.metrics.ObservePersist(p.now().Sub(start).Seconds())
	if err != nil {
		p.metrics.Observe(metrics.Failed)
		return err
	}
	p.metrics.Observe(metrics.Persisted)
	return nil
}

// Close rejects further events and, in async mode, waits for the queue to
// drain. Calling it twice is a no-op.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	if p.queue != nil {
		close(p.queue)
	}
	p.mu.Unlock()
	p.done.Wait()
}
