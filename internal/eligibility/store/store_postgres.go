package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vcissuer/internal/eligibility/models"
	"vcissuer/internal/sentinel"
	"vcissuer/pkg/domain"
)

// PostgresStore persists eligibility records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// dbExecutor is satisfied by both *sql.DB and *sql.Tx.
type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) FindBySubject(ctx context.Context, subject domain.Principal) (*models.Record, error) {
	return findRecord(ctx, s.db, subject)
}

// Upsert runs record creation, event append and readback in one transaction.
func (s *PostgresStore) Upsert(ctx context.Context, subject domain.Principal, eventName string, now time.Time) (*models.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin upsert: %w", err)
	}
	record, err := upsertRecord(ctx, tx, subject, eventName, now)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit upsert: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM eligibility_records`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count eligibility records: %w", err)
	}
	return count, nil
}

func upsertRecord(ctx context.Context, exec dbExecutor, subject domain.Principal, eventName string, now time.Time) (*models.Record, error) {
	_, err := exec.ExecContext(ctx, `
		INSERT INTO eligibility_records (subject, joined_at)
		VALUES ($1, $2)
		ON CONFLICT (subject) DO NOTHING
	`, subject.String(), now)
	if err != nil {
		return nil, fmt.Errorf("insert eligibility record: %w", err)
	}
	if eventName != "" {
		_, err = exec.ExecContext(ctx, `
			INSERT INTO eligibility_events (subject, event_name, joined_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (subject, event_name) DO NOTHING
		`, subject.String(), eventName, now)
		if err != nil {
			return nil, fmt.Errorf("insert event attendance: %w", err)
		}
	}
	return findRecord(ctx, exec, subject)
}

func findRecord(ctx context.Context, exec dbExecutor, subject domain.Principal) (*models.Record, error) {
	record := &models.Record{Subject: subject}
	err := exec.QueryRowContext(ctx, `
		SELECT joined_at FROM eligibility_records WHERE subject = $1
	`, subject.String()).Scan(&record.JoinedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find eligibility record: %w", err)
	}

	rows, err := exec.QueryContext(ctx, `
		SELECT event_name, joined_at
		FROM eligibility_events
		WHERE subject = $1
		ORDER BY joined_at, event_name
	`, subject.String())
	if err != nil {
		return nil, fmt.Errorf("list event attendance: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e models.EventAttendance
		if err := rows.Scan(&e.EventName, &e.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan event attendance: %w", err)
		}
		record.Events = append(record.Events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list event attendance: %w", err)
	}
	return record, nil
}
