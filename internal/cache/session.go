package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/maplehr/maplehr/internal/model"
	"github.com/maplehr/maplehr/internal/store"
)

// sessionKeyPrefix is the Redis key prefix for active sessions.
const sessionKeyPrefix = "session:"

// cachedSession is the Redis representation of a session record.
type cachedSession struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionStore implements store.SessionStore on Redis, so that issued
// tokens survive process restarts. Records carry no TTL: a session stays
// valid until it is explicitly revoked.
type SessionStore struct {
	cache *Cache
}

// NewSessionStore creates a Redis-backed session store.
func NewSessionStore(cache *Cache) *SessionStore {
	return &SessionStore{cache: cache}
}

// PutSession adds a session to the active set.
func (s *SessionStore) PutSession(ctx context.Context, session *model.Session) error {
	cached := cachedSession{
		ID:        session.ID,
		UserID:    session.UserID,
		CreatedAt: session.CreatedAt,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	// TTL 0: valid until revoked.
	return s.cache.client.Set(ctx, sessionKeyPrefix+session.Token, data, 0).Err()
}

// GetSession resolves a token to its session.
func (s *SessionStore) GetSession(ctx context.Context, token string) (*model.Session, error) {
	data, err := s.cache.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var cached cachedSession
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted entry - treat the token as revoked.
		return nil, store.ErrSessionNotFound
	}

	return &model.Session{
		ID:        cached.ID,
		Token:     token,
		UserID:    cached.UserID,
		CreatedAt: cached.CreatedAt,
	}, nil
}

// DeleteSession removes a token from the active set. Idempotent.
func (s *SessionStore) DeleteSession(ctx context.Context, token string) error {
	return s.cache.client.Del(ctx, sessionKeyPrefix+token).Err()
}
