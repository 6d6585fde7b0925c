package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	audit "vcissuer/pkg/platform/audit"
)

// Store implements audit.Store using PostgreSQL.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts an audit event. Re-appending an event with the same ID is a no-op.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	attrs, err := json.Marshal(event.Attributes)
	if err != nil {
		return fmt.Errorf("marshal audit attributes: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, timestamp, action, subject, actor, attributes, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`, event.ID, event.Timestamp, event.Action, event.Subject, event.Actor, attrs, event.RequestID)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListBySubject returns events for subject, newest first.
func (s *Store) ListBySubject(ctx context.Context, subject string) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, action, subject, actor, attributes, request_id
		FROM audit_events
		WHERE subject = $1
		ORDER BY timestamp DESC
	`, subject)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			event audit.Event
			attrs []byte
		)
		if err := rows.Scan(&event.ID, &event.Timestamp, &event.Action, &event.Subject,
			&event.Actor, &attrs, &event.RequestID); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &event.Attributes); err != nil {
				return nil, fmt.Errorf("unmarshal audit attributes: %w", err)
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
