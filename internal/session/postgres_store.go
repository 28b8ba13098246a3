package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresStore keeps the token as one row of session_tokens keyed by the
// configured session key. Expects a *sql.DB opened with the "postgres"
// driver from lib/pq.
type PostgresStore struct {
	db  *sql.DB
	key string
}

func NewPostgresStore(ctx context.Context, db *sql.DB, key string) (*PostgresStore, error) {
	if key == "" {
		return nil, errors.New("session key is empty")
	}

	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS session_tokens (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("migrate session_tokens: %w", err)
	}

	return &PostgresStore{db: db, key: key}, nil
}

func (s *PostgresStore) Load(ctx context.Context) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM session_tokens WHERE key = $1
	`, s.key).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *PostgresStore) Save(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_tokens (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, s.key, token)
	return err
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM session_tokens WHERE key = $1
	`, s.key)
	return err
}
