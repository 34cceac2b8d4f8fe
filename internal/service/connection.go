package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/muhammadafham46/Business-Nexus/internal/events"
	"github.com/muhammadafham46/Business-Nexus/internal/metrics"
	"github.com/muhammadafham46/Business-Nexus/internal/model"
	"github.com/muhammadafham46/Business-Nexus/internal/repository"
)

// ConnectionService handles the connection graph.
type ConnectionService struct {
	store   repository.ConnectionStore
	users   *UserService
	events  events.Publisher
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewConnectionService creates a new ConnectionService.
func NewConnectionService(deps Deps, users *UserService) *ConnectionService {
	deps = deps.withDefaults()
	return &ConnectionService{
		store:   deps.Store,
		users:   users,
		events:  deps.Events,
		metrics: deps.Metrics,
		logger:  deps.Logger.With("component", "service.connection"),
	}
}

// Connect links userID and otherID.
func (s *ConnectionService) Connect(ctx context.Context, userID, otherID int64) (*model.Connection, error) {
	if userID == otherID {
		return nil, ErrInvalidTarget
	}
	if err := s.users.Exists(ctx, otherID); err != nil {
		return nil, err
	}

	conn := &model.Connection{UserID1: userID, UserID2: otherID}
	if err := s.store.CreateConnection(ctx, conn); err != nil {
		if errors.Is(err, repository.ErrConnectionExists) {
			return nil, ErrConnectionExists
		}
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}

	s.metrics.IncConnectionCreated()
	s.events.Emit(events.New(events.TypeConnectionCreated, userID, otherID, map[string]string{
		"connectionId": strconv.FormatInt(conn.ID, 10),
	}))

	return conn, nil
}

// List returns userID's connections.
func (s *ConnectionService) List(ctx context.Context, userID int64) ([]*model.Connection, error) {
	return s.store.ListConnectionsForUser(ctx, userID)
}

// Check reports whether the two users are connected.
func (s *ConnectionService) Check(ctx context.Context, userID, otherID int64) (bool, error) {
	return s.store.AreConnected(ctx, userID, otherID)
}
