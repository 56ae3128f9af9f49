package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/maplehr/maplehr/internal/model"
	"github.com/maplehr/maplehr/internal/store"
)

// PutSession adds a session to the active set.
func (s *Store) PutSession(ctx context.Context, session *model.Session) error {
	query := `
		INSERT INTO sessions (id, token, user_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query,
		session.ID,
		session.Token,
		session.UserID,
		session.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to put session: %w", err)
	}

	return nil
}

// GetSession resolves a token to its session.
func (s *Store) GetSession(ctx context.Context, token string) (*model.Session, error) {
	query := `
		SELECT id, token, user_id, created_at
		FROM sessions
		WHERE token = $1
	`

	var session model.Session
	err := s.pool.QueryRow(ctx, query, token).Scan(
		&session.ID,
		&session.Token,
		&session.UserID,
		&session.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &session, nil
}

// DeleteSession removes a token from the active set. Idempotent.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	query := `DELETE FROM sessions WHERE token = $1`

	if _, err := s.pool.Exec(ctx, query, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
