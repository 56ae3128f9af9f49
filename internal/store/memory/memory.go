// Package memory provides an in-process implementation of the store
// contracts. It is the default backend and mirrors the demo-grade
// deployment model: a single process owning all state.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/maplehr/maplehr/internal/model"
	"github.com/maplehr/maplehr/internal/store"
)

// Store is an in-memory implementation of store.Store.
// All methods are safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	users       map[string]*model.User       // by id
	emails      map[string]string            // email -> user id
	credentials map[string]*model.Credential // by email
	sessions    map[string]*model.Session    // by token
	tasks       map[string]*model.Task       // by id
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:       make(map[string]*model.User),
		emails:      make(map[string]string),
		credentials: make(map[string]*model.Credential),
		sessions:    make(map[string]*model.Session),
		tasks:       make(map[string]*model.Task),
	}
}

// CreateUserWithCredential inserts a new user and their credential under
// a single lock, so a duplicate email rejects both writes.
func (s *Store) CreateUserWithCredential(ctx context.Context, user *model.User, cred *model.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emails[user.Email]; exists {
		return store.ErrEmailExists
	}

	u := *user
	c := *cred
	s.users[u.ID] = &u
	s.emails[u.Email] = u.ID
	s.credentials[c.Email] = &c
	return nil
}

// GetUserByID retrieves a user by id.
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

// GetUserByEmail retrieves a user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	u := *s.users[id]
	return &u, nil
}

// SetCredential stores a password hash for an email.
func (s *Store) SetCredential(ctx context.Context, cred *model.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *cred
	s.credentials[c.Email] = &c
	return nil
}

// GetCredential retrieves the stored password hash for an email.
func (s *Store) GetCredential(ctx context.Context, email string) (*model.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.credentials[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	c := *cred
	return &c, nil
}

// PutSession adds a session to the active set.
func (s *Store) PutSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := *session
	s.sessions[sess.Token] = &sess
	return nil
}

// GetSession resolves a token to its session.
func (s *Store) GetSession(ctx context.Context, token string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[token]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	sess := *session
	return &sess, nil
}

// DeleteSession removes a token from the active set. Idempotent.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

// CreateTask inserts a new task.
func (s *Store) CreateTask(ctx context.Context, task *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := *task
	s.tasks[t.ID] = &t
	return nil
}

// GetTask retrieves a task by id, scoped to its owner.
func (s *Store) GetTask(ctx context.Context, id, ownerID string) (*model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok || task.UserID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	t := *task
	return &t, nil
}

// ListTasks returns the owner's tasks, most recently created first.
func (s *Store) ListTasks(ctx context.Context, ownerID string) ([]*model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*model.Task, 0)
	for _, task := range s.tasks {
		if task.UserID == ownerID {
			t := *task
			tasks = append(tasks, &t)
		}
	}

	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		// Tie-break on id so ordering is deterministic.
		return tasks[i].ID > tasks[j].ID
	})

	return tasks, nil
}

// UpdateTask replaces a stored task. The task must already exist and
// belong to task.UserID.
func (s *Store) UpdateTask(ctx context.Context, task *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return store.ErrTaskNotFound
	}

	t := *task
	s.tasks[t.ID] = &t
	return nil
}

// DeleteTask removes a task by id, scoped to its owner.
func (s *Store) DeleteTask(ctx context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok || task.UserID != ownerID {
		return store.ErrTaskNotFound
	}

	delete(s.tasks, id)
	return nil
}

// Ping always succeeds for the in-memory store.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() {}
