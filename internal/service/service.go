// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/muhammadafham46/Business-Nexus/internal/activity"
	"github.com/muhammadafham46/Business-Nexus/internal/auth"
	"github.com/muhammadafham46/Business-Nexus/internal/events"
	"github.com/muhammadafham46/Business-Nexus/internal/metrics"
	"github.com/muhammadafham46/Business-Nexus/internal/model"
	"github.com/muhammadafham46/Business-Nexus/internal/repository"
	"github.com/muhammadafham46/Business-Nexus/internal/session"
)

// Service errors. Store sentinels are re-exported so handlers only
// depend on this package.
var (
	ErrUserNotFound     = repository.ErrUserNotFound
	ErrRequestNotFound  = repository.ErrRequestNotFound
	ErrEmailExists      = repository.ErrEmailExists
	ErrConnectionExists = repository.ErrConnectionExists
	ErrRequestExists    = repository.ErrRequestExists

	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrPasswordMismatch        = errors.New("passwords do not match")
	ErrInvalidRole             = errors.New("role must be investor or entrepreneur")
	ErrInvalidTarget           = errors.New("cannot target yourself")
	ErrForbidden               = errors.New("not allowed to modify this resource")
	ErrNotRecipient            = errors.New("only the recipient can respond to this request")
	ErrInvalidStatus           = errors.New("status must be accepted or rejected")
	ErrInvalidStatusTransition = errors.New("request has already been answered")
	ErrInvalidDirection        = errors.New("direction must be incoming, outgoing or all")
)

// UserCache is the optional read-through profile cache. *cache.Cache
// satisfies it.
type UserCache interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
	SetUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id int64) error
	IsUserNegativelyCached(ctx context.Context, id int64) (bool, error)
	SetUserNegativeCache(ctx context.Context, id int64) error
}

// Deps bundles what every service needs. Nil fields get no-op defaults.
type Deps struct {
	Store   repository.Store
	Hasher  *auth.Hasher
	Cache   UserCache
	Events  events.Publisher
	Feed    activity.Feed
	Metrics metrics.Recorder
	Logger  *slog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Hasher == nil {
		d.Hasher = auth.NewHasher(auth.DefaultParams)
	}
	if d.Events == nil {
		d.Events = events.NoopPublisher{}
	}
	if d.Metrics == nil {
		d.Metrics = metrics.NewNoop()
	}
	if d.Logger == nil {
		d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d
}

// Services is the full set used by the HTTP layer.
type Services struct {
	Auth          *AuthService
	Users         *UserService
	Collaboration *CollaborationService
	Messages      *MessageService
	Connections   *ConnectionService
	Activity      *ActivityService
}

// New wires every service over one set of dependencies.
func New(deps Deps, sessions *session.Manager) *Services {
	users := NewUserService(deps)
	return &Services{
		Auth:          NewAuthService(deps, sessions),
		Users:         users,
		Collaboration: NewCollaborationService(deps, users),
		Messages:      NewMessageService(deps, users),
		Connections:   NewConnectionService(deps, users),
		Activity:      NewActivityService(deps),
	}
}
