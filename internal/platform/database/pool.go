// Package database opens the Postgres pool backing the durable stores and
// applies the embedded schema migrations.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	defaultConnectAttempts = 5
	defaultRetryDelay      = time.Second
	pingTimeout            = 5 * time.Second
)

// ErrNotConfigured is returned by Health on a pool that was never opened.
var ErrNotConfigured = errors.New("database not configured")

type Config struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// ConnectAttempts bounds the initial pings; the database may still be
	// starting when the issuer boots.
	ConnectAttempts int
	RetryDelay      time.Duration
}

// Pool is the shared *sql.DB plus health checks.
type Pool struct {
	db *sql.DB
}

type Option func(*options)

type options struct {
	registerer prometheus.Registerer
}

// WithStatsRegisterer exports sql.DBStats as vcissuer_db_* metrics.
func WithStatsRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// New opens the pool and waits for the database to answer a ping.
// An empty URL returns a nil pool and no error: callers fall back to
// in-memory stores.
func New(ctx context.Context, cfg Config, opts ...Option) (*Pool, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := waitForPing(ctx, db, cfg); err != nil {
		_ = db.Close()
		return nil, err
	}

	if o.registerer != nil {
		if err := o.registerer.Register(collectors.NewDBStatsCollector(db, "vcissuer")); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("register db stats: %w", err)
		}
	}
	return &Pool{db: db}, nil
}

func waitForPing(ctx context.Context, db *sql.DB, cfg Config) error {
	attempts := cfg.ConnectAttempts
	if attempts <= 0 {
		attempts = defaultConnectAttempts
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}

	var err error
	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil || attempt >= attempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("ping database: %w", ctx.Err())
		case <-time.After(delay):
		}
	}
	if err != nil {
		return fmt.Errorf("ping database after %d attempts: %w", attempts, err)
	}
	return nil
}

func (p *Pool) DB() *sql.DB {
	return p.db
}

// Health is registered as the "postgres" readiness check.
func (p *Pool) Health(ctx context.Context) error {
	if p == nil || p.db == nil {
		return ErrNotConfigured
	}
	return p.db.PingContext(ctx)
}

func (p *Pool) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}
