package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/maplehr/maplehr/internal/auth"
	"github.com/maplehr/maplehr/internal/model"
	"github.com/maplehr/maplehr/internal/store"
)

// AuthService issues, verifies, and revokes session tokens, and owns the
// registration and login flows.
type AuthService struct {
	users       store.UserStore
	credentials store.CredentialStore
	sessions    store.SessionStore
}

// NewAuthService creates a new AuthService.
func NewAuthService(users store.UserStore, credentials store.CredentialStore, sessions store.SessionStore) *AuthService {
	return &AuthService{
		users:       users,
		credentials: credentials,
		sessions:    sessions,
	}
}

// AuthResult is returned by Login and Register: the resolved user plus a
// freshly issued token.
type AuthResult struct {
	User  *model.User
	Token string
}

// Login authenticates an email/password pair and issues a new session
// token. Every successful call issues a fresh token; previously issued
// tokens for the same user stay valid.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Same error as a wrong password, so callers cannot probe
			// which emails are registered.
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	cred, err := s.credentials.GetCredential(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup credential: %w", err)
	}

	match, err := auth.VerifyPassword(password, cred.PasswordHash)
	if err != nil || !match {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Register creates a new user with their hashed credential and issues a
// session token. The user and credential are written in one atomic step:
// a failed registration leaves no account behind, so the email can be
// registered again.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	if email == "" || password == "" || name == "" {
		return nil, ErrMissingFields
	}

	user := &model.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	cred := &model.Credential{Email: email, PasswordHash: hash}
	if err := s.users.CreateUserWithCredential(ctx, user, cred); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// VerifyToken resolves a bearer token to its bound user.
// Returns ErrUnauthorized for tokens not in the active set.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*model.User, error) {
	if !auth.ValidTokenFormat(token) {
		// Tokens this server never issued skip the store lookup.
		return nil, ErrUnauthorized
	}

	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}

	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		// An active token must resolve to an existing user; treat a
		// dangling session as revoked.
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("lookup session user: %w", err)
	}

	return user, nil
}

// Logout removes the token from the active set.
// Idempotent: unknown and already-removed tokens succeed.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// issueSession allocates a new token bound to the user.
func (s *AuthService) issueSession(ctx context.Context, userID string) (string, error) {
	token, err := auth.GenerateToken()
	if err != nil {
		return "", err
	}

	session := &model.Session{
		ID:        ulid.Make().String(),
		Token:     token,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.sessions.PutSession(ctx, session); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return token, nil
}
