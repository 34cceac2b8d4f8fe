// Package session issues and resolves login sessions.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/muhammadafham46/Business-Nexus/internal/auth"
	"github.com/muhammadafham46/Business-Nexus/internal/model"
)

// ErrNotFound is returned for unknown, malformed, or expired session tokens.
var ErrNotFound = errors.New("session not found")

// Store persists sessions keyed by the hash of their token.
type Store interface {
	Save(ctx context.Context, tokenHash string, sess *model.Session) error
	Get(ctx context.Context, tokenHash string) (*model.Session, error)
	Delete(ctx context.Context, tokenHash string) error
}

// Manager mints session tokens and maps them back to users.
type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// NewManager creates a Manager issuing sessions that live for ttl.
func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{
		store: store,
		ttl:   ttl,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// TTL returns the lifetime of new sessions.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Start creates a session for userID and returns the plaintext token.
func (m *Manager) Start(ctx context.Context, userID int64) (string, *model.Session, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := m.now()
	sess := &model.Session{
		ID:        token.ID,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	if err := m.store.Save(ctx, token.Hash, sess); err != nil {
		return "", nil, fmt.Errorf("failed to save session: %w", err)
	}

	return token.Plaintext, sess, nil
}

// Resolve looks up the session behind a plaintext token.
func (m *Manager) Resolve(ctx context.Context, token string) (*model.Session, error) {
	id, err := auth.ParseSessionToken(token)
	if err != nil {
		return nil, ErrNotFound
	}

	sess, err := m.store.Get(ctx, auth.QuickHash(token))
	if err != nil {
		return nil, err
	}
	// The stored session must be the one the token was minted for.
	if sess.ID != id {
		return nil, ErrNotFound
	}
	if sess.IsExpired(m.now()) {
		_ = m.store.Delete(ctx, auth.QuickHash(token))
		return nil, ErrNotFound
	}

	return sess, nil
}

// End deletes the session behind token. Unknown tokens are ignored.
func (m *Manager) End(ctx context.Context, token string) error {
	if _, err := auth.ParseSessionToken(token); err != nil {
		return nil
	}
	if err := m.store.Delete(ctx, auth.QuickHash(token)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
