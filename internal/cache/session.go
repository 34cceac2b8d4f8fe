package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/muhammadafham46/Business-Nexus/internal/model"
	"github.com/muhammadafham46/Business-Nexus/internal/session"
)

// sessionPrefix is the Redis key prefix for sessions, followed by the token hash.
const sessionPrefix = "session:"

// SessionStore keeps sessions in Redis with a TTL matching their expiry.
type SessionStore struct {
	cache *Cache
}

var _ session.Store = (*SessionStore)(nil)

// NewSessionStore creates a Redis-backed session store.
func NewSessionStore(c *Cache) *SessionStore {
	return &SessionStore{cache: c}
}

// Save stores the session until its ExpiresAt.
func (s *SessionStore) Save(ctx context.Context, tokenHash string, sess *model.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.cache.client.Set(ctx, sessionPrefix+tokenHash, data, ttl).Err()
}

// Get returns session.ErrNotFound on a miss or a corrupt entry.
func (s *SessionStore) Get(ctx context.Context, tokenHash string) (*model.Session, error) {
	data, err := s.cache.client.Get(ctx, sessionPrefix+tokenHash).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, session.ErrNotFound
	}

	return &sess, nil
}

// Delete removes a session. Missing keys are not an error.
func (s *SessionStore) Delete(ctx context.Context, tokenHash string) error {
	return s.cache.client.Del(ctx, sessionPrefix+tokenHash).Err()
}
