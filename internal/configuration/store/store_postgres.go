package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"vcissuer/internal/configuration/models"
	"vcissuer/internal/sentinel"
)

// PostgresStore persists the issuer configuration as a single JSONB row.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(ctx context.Context) (*models.IssuerConfiguration, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, `SELECT document FROM issuer_configuration WHERE id = 1`).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("load issuer configuration: %w", err)
	}
	var cfg models.IssuerConfiguration
	if err := json.Unmarshal(doc, &cfg); err != nil {
		return nil, fmt.Errorf("decode issuer configuration: %w", err)
	}
	return &cfg, nil
}

func (s *PostgresStore) Save(ctx context.Context, cfg *models.IssuerConfiguration) error {
	doc, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode issuer configuration: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO issuer_configuration (id, version, document, updated_at)
		VALUES (1, $1, $2, NOW())
		ON CONFLICT (id) DO UPDATE
		SET version = EXCLUDED.version, document = EXCLUDED.document, updated_at = EXCLUDED.updated_at
	`, int64(cfg.Version), doc) //nolint:gosec // versions stay far below MaxInt64
	if err != nil {
		return fmt.Errorf("save issuer configuration: %w", err)
	}
	return nil
}
