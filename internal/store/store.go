// Package store defines the storage contracts for the application.
// Implementations live in subpackages (memory, postgres); session storage
// can additionally be backed by Redis via internal/cache.
package store

import (
	"context"
	"errors"

	"github.com/maplehr/maplehr/internal/model"
)

// Common errors returned by store implementations.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already exists")
	ErrSessionNotFound = errors.New("session not found")
	ErrTaskNotFound    = errors.New("task not found")
)

// UserStore persists user accounts.
type UserStore interface {
	// CreateUserWithCredential inserts a new user and their credential as
	// one atomic step. Returns ErrEmailExists when the email is already
	// registered; a failed insert leaves neither row behind.
	CreateUserWithCredential(ctx context.Context, user *model.User, cred *model.Credential) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// CredentialStore persists password hashes keyed by email.
type CredentialStore interface {
	SetCredential(ctx context.Context, cred *model.Credential) error
	// GetCredential returns ErrUserNotFound when no credential is stored
	// for the email.
	GetCredential(ctx context.Context, email string) (*model.Credential, error)
}

// SessionStore persists active session tokens.
// Sessions never expire; they are removed only by DeleteSession.
type SessionStore interface {
	PutSession(ctx context.Context, session *model.Session) error
	// GetSession returns ErrSessionNotFound for tokens not in the active set.
	GetSession(ctx context.Context, token string) (*model.Session, error)
	// DeleteSession is idempotent: deleting an unknown token is not an error.
	DeleteSession(ctx context.Context, token string) error
}

// TaskStore persists tasks. All lookups are scoped by owner: a task that
// exists but belongs to another user behaves as if it did not exist.
type TaskStore interface {
	CreateTask(ctx context.Context, task *model.Task) error
	GetTask(ctx context.Context, id, ownerID string) (*model.Task, error)
	// ListTasks returns the owner's tasks ordered by creation time,
	// most recent first.
	ListTasks(ctx context.Context, ownerID string) ([]*model.Task, error)
	UpdateTask(ctx context.Context, task *model.Task) error
	DeleteTask(ctx context.Context, id, ownerID string) error
}

// Store combines all storage contracts plus lifecycle methods.
type Store interface {
	UserStore
	CredentialStore
	SessionStore
	TaskStore

	// Ping checks backend connectivity for readiness probes.
	Ping(ctx context.Context) error
	Close()
}
