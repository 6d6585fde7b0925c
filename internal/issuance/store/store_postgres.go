package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vcissuer/internal/issuance/models"
	"vcissuer/internal/sentinel"
	"vcissuer/pkg/domain"
)

// PostgresStore persists pending issuances in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, ticket *models.PendingIssuance) error {
	spec, err := json.Marshal(ticket.Spec)
	if err != nil {
		return fmt.Errorf("encode credential spec: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO pending_issuance (claims_hash, credential_type, spec, subject, alias, signing_input, requested_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (claims_hash) DO NOTHING
	`,
		ticket.ClaimsHash,
		ticket.CredentialType,
		spec,
		ticket.Subject.String(),
		ticket.Alias.String(),
		ticket.SigningInput,
		ticket.RequestedAt,
		ticket.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("save ticket: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByHash(ctx context.Context, hash string) (*models.PendingIssuance, error) {
	var (
		ticket         models.PendingIssuance
		spec           []byte
		subject, alias string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT claims_hash, credential_type, spec, subject, alias, signing_input, requested_at, expires_at
		FROM pending_issuance
		WHERE claims_hash = $1
	`, hash).Scan(
		&ticket.ClaimsHash,
		&ticket.CredentialType,
		&spec,
		&subject,
		&alias,
		&ticket.SigningInput,
		&ticket.RequestedAt,
		&ticket.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	if err := json.Unmarshal(spec, &ticket.Spec); err != nil {
		return nil, fmt.Errorf("decode credential spec: %w", err)
	}
	ticket.Subject = domain.Principal(subject)
	ticket.Alias = domain.Principal(alias)
	return &ticket, nil
}

func (s *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pending_issuance WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired tickets: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired tickets rows: %w", err)
	}
	return int(rows), nil
}
