package session

import (
	"context"
	"sync"
	"time"

	"github.com/muhammadafham46/Business-Nexus/internal/model"
)

// MemoryStore keeps sessions in process memory. Sessions are lost on restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]model.Session
	now      func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]model.Session),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Save(ctx context.Context, tokenHash string, sess *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()
	s.sessions[tokenHash] = *sess
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, tokenHash string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[tokenHash]
	if !ok {
		return nil, ErrNotFound
	}
	if sess.IsExpired(s.now()) {
		delete(s.sessions, tokenHash)
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (s *MemoryStore) Delete(ctx context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, tokenHash)
	return nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()
	return len(s.sessions)
}

// sweep drops expired sessions. Callers hold mu.
func (s *MemoryStore) sweep() {
	now := s.now()
	for k, sess := range s.sessions {
		if sess.IsExpired(now) {
			delete(s.sessions, k)
		}
	}
}
