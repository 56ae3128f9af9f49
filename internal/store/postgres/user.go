package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/maplehr/maplehr/internal/model"
	"github.com/maplehr/maplehr/internal/store"
)

// CreateUserWithCredential inserts a new user and their credential in a
// single transaction. A user row never exists without a matching
// credential row.
func (s *Store) CreateUserWithCredential(ctx context.Context, user *model.User, cred *model.Credential) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	userQuery := `
		INSERT INTO users (id, email, name, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err = tx.Exec(ctx, userQuery,
		user.ID,
		user.Email,
		user.Name,
		user.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	credQuery := `
		INSERT INTO credentials (email, password_hash)
		VALUES ($1, $2)
	`

	if _, err := tx.Exec(ctx, credQuery, cred.Email, cred.PasswordHash); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by their ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `
		SELECT id, email, name, created_at
		FROM users
		WHERE id = $1
	`

	var user model.User
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &user, nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, email, name, created_at
		FROM users
		WHERE email = $1
	`

	var user model.User
	err := s.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// SetCredential upserts the password hash for an email.
func (s *Store) SetCredential(ctx context.Context, cred *model.Credential) error {
	query := `
		INSERT INTO credentials (email, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash
	`

	_, err := s.pool.Exec(ctx, query, cred.Email, cred.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to set credential: %w", err)
	}

	return nil
}

// GetCredential retrieves the password hash stored for an email.
func (s *Store) GetCredential(ctx context.Context, email string) (*model.Credential, error) {
	query := `
		SELECT email, password_hash
		FROM credentials
		WHERE email = $1
	`

	var cred model.Credential
	err := s.pool.QueryRow(ctx, query, email).Scan(
		&cred.Email,
		&cred.PasswordHash,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	return &cred, nil
}
