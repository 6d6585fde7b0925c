package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"vcissuer/internal/events/models"
	"vcissuer/internal/sentinel"
)

// PostgresStore persists events in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, event *models.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (name, registration_code, created_at)
		VALUES ($1, $2, $3)
	`, event.Name, event.RegistrationCode, event.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("event name must be unique: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByName(ctx context.Context, name string) (*models.Event, error) {
	event, err := scanEvent(s.db.QueryRowContext(ctx, `
		SELECT name, registration_code, created_at
		FROM events
		WHERE name = $1
	`, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find event by name: %w", err)
	}
	return event, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, registration_code, created_at
		FROM events
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return out, nil
}

type eventRow interface {
	Scan(dest ...any) error
}

func scanEvent(row eventRow) (*models.Event, error) {
	var event models.Event
	if err := row.Scan(&event.Name, &event.RegistrationCode, &event.CreatedAt); err != nil {
		return nil, err
	}
	return &event, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
