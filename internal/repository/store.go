package repository

import (
	"context"
	"errors"

	"github.com/muhammadafham46/Business-Nexus/internal/model"
)

// Common errors for store operations. Every Store implementation returns
// these so callers can branch with errors.Is regardless of the backend.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrRequestNotFound    = errors.New("collaboration request not found")
	ErrRequestExists      = errors.New("pending collaboration request already exists")
	ErrMessageNotFound    = errors.New("message not found")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrConnectionExists   = errors.New("connection already exists")
)

// UserStore persists users.
type UserStore interface {
	// CreateUser assigns user.ID and stamps CreatedAt when zero.
	// Returns ErrEmailExists if the email is taken.
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// UpdateUser merges upd onto the stored user and returns the result.
	UpdateUser(ctx context.Context, id int64, upd model.UserUpdate) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	ListUsersByRole(ctx context.Context, role model.Role) ([]*model.User, error)
	// ListUsersByIDs returns the users that exist among ids, ordered by id.
	ListUsersByIDs(ctx context.Context, ids []int64) ([]*model.User, error)
}

// CollaborationStore persists collaboration requests.
type CollaborationStore interface {
	// CreateCollaborationRequest defaults Status to pending. Returns
	// ErrRequestExists if the sender already has a pending request to the recipient.
	CreateCollaborationRequest(ctx context.Context, req *model.CollaborationRequest) error
	GetCollaborationRequest(ctx context.Context, id int64) (*model.CollaborationRequest, error)
	// ListCollaborationRequests returns matching requests, newest first.
	ListCollaborationRequests(ctx context.Context, filter model.CollaborationRequestFilter) ([]*model.CollaborationRequest, error)
	// ListCollaborationRequestsBetween returns requests in either direction, newest first.
	ListCollaborationRequestsBetween(ctx context.Context, userA, userB int64) ([]*model.CollaborationRequest, error)
	UpdateCollaborationRequestStatus(ctx context.Context, id int64, status model.RequestStatus) (*model.CollaborationRequest, error)
}

// MessageStore persists direct messages.
type MessageStore interface {
	CreateMessage(ctx context.Context, msg *model.Message) error
	GetMessage(ctx context.Context, id int64) (*model.Message, error)
	// ListMessagesBetween is symmetric in its arguments and returns the
	// conversation ordered by CreatedAt, then ID, ascending.
	ListMessagesBetween(ctx context.Context, userA, userB int64) ([]*model.Message, error)
}

// ConnectionStore persists undirected connections.
type ConnectionStore interface {
	// CreateConnection returns ErrConnectionExists if the pair is already
	// connected in either order.
	CreateConnection(ctx context.Context, conn *model.Connection) error
	GetConnection(ctx context.Context, id int64) (*model.Connection, error)
	ListConnectionsForUser(ctx context.Context, userID int64) ([]*model.Connection, error)
	AreConnected(ctx context.Context, userA, userB int64) (bool, error)
}

// Store is the full persistence contract shared by the Postgres, SQLite
// and in-memory implementations.
type Store interface {
	UserStore
	CollaborationStore
	MessageStore
	ConnectionStore

	Ping(ctx context.Context) error
	Close() error
}

// NormalizeIndustries returns a non-nil slice so lists always encode as [].
func NormalizeIndustries(industries []string) []string {
	if industries == nil {
		return []string{}
	}
	return industries
}
