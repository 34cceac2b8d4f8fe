// Package memory provides an in-process repository.Store for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/muhammadafham46/Business-Nexus/internal/model"
	"github.com/muhammadafham46/Business-Nexus/internal/repository"
)

type directedPair struct {
	from, to int64
}

// Store keeps all records in maps guarded by a single RWMutex. Uniqueness
// checks and inserts run under the same write lock, so they are atomic.
type Store struct {
	mu sync.RWMutex

	users    map[int64]*model.User
	emails   map[string]int64
	requests map[int64]*model.CollaborationRequest
	pending  map[directedPair]int64
	messages map[int64]*model.Message
	conns    map[int64]*model.Connection
	pairs    map[model.PairKey]int64

	nextUserID, nextRequestID, nextMessageID, nextConnID int64

	now func() time.Time
}

var _ repository.Store = (*Store)(nil)

// New creates an empty Store.
func New() *Store {
	return &Store{
		users:         make(map[int64]*model.User),
		emails:        make(map[string]int64),
		requests:      make(map[int64]*model.CollaborationRequest),
		pending:       make(map[directedPair]int64),
		messages:      make(map[int64]*model.Message),
		conns:         make(map[int64]*model.Connection),
		pairs:         make(map[model.PairKey]int64),
		nextUserID:    1,
		nextRequestID: 1,
		nextMessageID: 1,
		nextConnID:    1,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

func (s *Store) stamp(t *time.Time) {
	if t.IsZero() {
		*t = s.now()
	}
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emails[user.Email]; taken {
		return repository.ErrEmailExists
	}

	user.ID = s.nextUserID
	s.nextUserID++
	s.stamp(&user.CreatedAt)
	user.Industries = repository.NormalizeIndustries(user.Industries)
	normalizeOptional(user)

	s.users[user.ID] = user.Clone()
	s.emails[user.Email] = user.ID
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user.Clone(), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return s.users[id].Clone(), nil
}

func (s *Store) UpdateUser(ctx context.Context, id int64, upd model.UserUpdate) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	upd.Apply(user)
	user.Industries = repository.NormalizeIndustries(user.Industries)
	return user.Clone(), nil
}

func (s *Store) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.filterUsers(func(*model.User) bool { return true }), nil
}

func (s *Store) ListUsersByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	return s.filterUsers(func(u *model.User) bool { return u.Role == role }), nil
}

func (s *Store) ListUsersByIDs(ctx context.Context, ids []int64) ([]*model.User, error) {
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	return s.filterUsers(func(u *model.User) bool {
		_, ok := want[u.ID]
		return ok
	}), nil
}

func (s *Store) filterUsers(keep func(*model.User) bool) []*model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []*model.User{}
	for _, u := range s.users {
		if keep(u) {
			result = append(result, u.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func normalizeOptional(u *model.User) {
	u.Avatar = model.NullIfEmpty(u.Avatar)
	u.Bio = model.NullIfEmpty(u.Bio)
	u.Company = model.NullIfEmpty(u.Company)
	u.Title = model.NullIfEmpty(u.Title)
	u.Location = model.NullIfEmpty(u.Location)
	u.Website = model.NullIfEmpty(u.Website)
	u.LinkedIn = model.NullIfEmpty(u.LinkedIn)
	u.InvestmentRange = model.NullIfEmpty(u.InvestmentRange)
	u.FundingNeed = model.NullIfEmpty(u.FundingNeed)
}

// ---------------------------------------------------------------------------
// Collaboration requests
// ---------------------------------------------------------------------------

func (s *Store) CreateCollaborationRequest(ctx context.Context, req *model.CollaborationRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Status == "" {
		req.Status = model.RequestPending
	}
	key := directedPair{req.FromUserID, req.ToUserID}
	if req.Status == model.RequestPending {
		if _, open := s.pending[key]; open {
			return repository.ErrRequestExists
		}
	}

	req.ID = s.nextRequestID
	s.nextRequestID++
	s.stamp(&req.CreatedAt)

	s.requests[req.ID] = req.Clone()
	if req.Status == model.RequestPending {
		s.pending[key] = req.ID
	}
	return nil
}

func (s *Store) GetCollaborationRequest(ctx context.Context, id int64) (*model.CollaborationRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, repository.ErrRequestNotFound
	}
	return req.Clone(), nil
}

func (s *Store) ListCollaborationRequests(ctx context.Context, filter model.CollaborationRequestFilter) ([]*model.CollaborationRequest, error) {
	return s.filterRequests(func(r *model.CollaborationRequest) bool {
		if filter.Status != "" && r.Status != filter.Status {
			return false
		}
		return filter.Direction.Matches(r, filter.UserID)
	}), nil
}

func (s *Store) ListCollaborationRequestsBetween(ctx context.Context, userA, userB int64) ([]*model.CollaborationRequest, error) {
	return s.filterRequests(func(r *model.CollaborationRequest) bool {
		return (r.FromUserID == userA && r.ToUserID == userB) ||
			(r.FromUserID == userB && r.ToUserID == userA)
	}), nil
}

func (s *Store) UpdateCollaborationRequestStatus(ctx context.Context, id int64, status model.RequestStatus) (*model.CollaborationRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, repository.ErrRequestNotFound
	}

	key := directedPair{req.FromUserID, req.ToUserID}
	if status == model.RequestPending && req.Status != model.RequestPending {
		if _, open := s.pending[key]; open {
			return nil, repository.ErrRequestExists
		}
		s.pending[key] = req.ID
	}
	if status != model.RequestPending && req.Status == model.RequestPending {
		delete(s.pending, key)
	}

	req.Status = status
	return req.Clone(), nil
}

// filterRequests returns matches newest first, ties broken by higher id.
func (s *Store) filterRequests(keep func(*model.CollaborationRequest) bool) []*model.CollaborationRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []*model.CollaborationRequest{}
	for _, r := range s.requests {
		if keep(r) {
			result = append(result, r.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result
}

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

func (s *Store) CreateMessage(ctx context.Context, msg *model.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msg.ID = s.nextMessageID
	s.nextMessageID++
	s.stamp(&msg.CreatedAt)

	stored := *msg
	s.messages[msg.ID] = &stored
	return nil
}

func (s *Store) GetMessage(ctx context.Context, id int64) (*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[id]
	if !ok {
		return nil, repository.ErrMessageNotFound
	}
	c := *msg
	return &c, nil
}

func (s *Store) ListMessagesBetween(ctx context.Context, userA, userB int64) ([]*model.Message, error) {
	key := model.NewPairKey(userA, userB)

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []*model.Message{}
	for _, m := range s.messages {
		if model.NewPairKey(m.FromUserID, m.ToUserID) == key {
			c := *m
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// ---------------------------------------------------------------------------
// Connections
// ---------------------------------------------------------------------------

func (s *Store) CreateConnection(ctx context.Context, conn *model.Connection) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := model.NewPairKey(conn.UserID1, conn.UserID2)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pairs[key]; exists {
		return repository.ErrConnectionExists
	}

	conn.ID = s.nextConnID
	s.nextConnID++
	s.stamp(&conn.CreatedAt)

	stored := *conn
	s.conns[conn.ID] = &stored
	s.pairs[key] = conn.ID
	return nil
}

func (s *Store) GetConnection(ctx context.Context, id int64) (*model.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conn, ok := s.conns[id]
	if !ok {
		return nil, repository.ErrConnectionNotFound
	}
	c := *conn
	return &c, nil
}

func (s *Store) ListConnectionsForUser(ctx context.Context, userID int64) ([]*model.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []*model.Connection{}
	for _, c := range s.conns {
		if c.Involves(userID) {
			cp := *c
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) AreConnected(ctx context.Context, userA, userB int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.pairs[model.NewPairKey(userA, userB)]
	return ok, nil
}
