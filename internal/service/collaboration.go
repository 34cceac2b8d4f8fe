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

// CollaborationService handles collaboration requests between users.
type CollaborationService struct {
	store   repository.Store
	users   *UserService
	events  events.Publisher
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewCollaborationService creates a new CollaborationService.
func NewCollaborationService(deps Deps, users *UserService) *CollaborationService {
	deps = deps.withDefaults()
	return &CollaborationService{
		store:   deps.Store,
		users:   users,
		events:  deps.Events,
		metrics: deps.Metrics,
		logger:  deps.Logger.With("component", "service.collaboration"),
	}
}

// Create sends a pending request from fromID to toID.
func (s *CollaborationService) Create(ctx context.Context, fromID, toID int64, note string) (*model.CollaborationRequest, error) {
	if fromID == toID {
		return nil, ErrInvalidTarget
	}
	note, err := normalizeContent("message", note, MaxRequestNoteLength, false)
	if err != nil {
		return nil, err
	}
	if err := s.users.Exists(ctx, toID); err != nil {
		return nil, err
	}

	req := &model.CollaborationRequest{
		FromUserID: fromID,
		ToUserID:   toID,
		Status:     model.RequestPending,
	}
	if note != "" {
		req.Message = &note
	}

	if err := s.store.CreateCollaborationRequest(ctx, req); err != nil {
		if errors.Is(err, repository.ErrRequestExists) {
			return nil, ErrRequestExists
		}
		return nil, fmt.Errorf("failed to create collaboration request: %w", err)
	}

	s.metrics.IncRequestCreated()
	s.events.Emit(events.New(events.TypeRequestCreated, fromID, toID, map[string]string{
		"requestId": strconv.FormatInt(req.ID, 10),
	}))

	return req, nil
}

// List returns the requests involving userID, newest first.
func (s *CollaborationService) List(ctx context.Context, userID int64, direction, status string) ([]*model.CollaborationRequest, error) {
	filter := model.CollaborationRequestFilter{
		UserID:    userID,
		Direction: model.DirectionAll,
	}
	if direction != "" {
		filter.Direction = model.RequestDirection(direction)
		if !filter.Direction.IsValid() {
			return nil, ErrInvalidDirection
		}
	}
	if status != "" {
		filter.Status = model.RequestStatus(status)
		if !filter.Status.IsValid() {
			return nil, invalid("status", "must be pending, accepted or rejected")
		}
	}

	return s.store.ListCollaborationRequests(ctx, filter)
}

// Between returns the requests in either direction between two users.
func (s *CollaborationService) Between(ctx context.Context, userID, otherID int64) ([]*model.CollaborationRequest, error) {
	return s.store.ListCollaborationRequestsBetween(ctx, userID, otherID)
}

// Respond accepts or rejects a request. Only the recipient may respond.
// Accepting also connects the two users.
func (s *CollaborationService) Respond(ctx context.Context, actorID, requestID int64, status string) (*model.CollaborationRequest, error) {
	next := model.RequestStatus(status)
	if next != model.RequestAccepted && next != model.RequestRejected {
		return nil, ErrInvalidStatus
	}

	req, err := s.store.GetCollaborationRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get collaboration request: %w", err)
	}

	if req.ToUserID != actorID {
		return nil, ErrNotRecipient
	}
	if !req.Status.CanTransitionTo(next) {
		return nil, ErrInvalidStatusTransition
	}
	if req.Status == next {
		// Re-accepting repairs a connection whose creation failed earlier.
		if next == model.RequestAccepted {
			if err := s.connect(ctx, req.FromUserID, req.ToUserID); err != nil {
				return nil, err
			}
		}
		return req, nil
	}

	updated, err := s.store.UpdateCollaborationRequestStatus(ctx, requestID, next)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to update collaboration request: %w", err)
	}

	s.metrics.IncRequestResponded(string(next))
	s.events.Emit(events.New(events.TypeRequestUpdated, actorID, req.FromUserID, map[string]string{
		"requestId": strconv.FormatInt(req.ID, 10),
		"status":    string(next),
	}))

	if next == model.RequestAccepted {
		if err := s.connect(ctx, req.FromUserID, req.ToUserID); err != nil {
			return nil, err
		}
	}

	return updated, nil
}

// connect creates the connection for an accepted request if missing.
func (s *CollaborationService) connect(ctx context.Context, a, b int64) error {
	conn := &model.Connection{UserID1: a, UserID2: b}
	if err := s.store.CreateConnection(ctx, conn); err != nil {
		if errors.Is(err, repository.ErrConnectionExists) {
			return nil
		}
		return fmt.Errorf("failed to create connection: %w", err)
	}

	s.metrics.IncConnectionCreated()
	s.events.Emit(events.New(events.TypeConnectionCreated, b, a, map[string]string{
		"connectionId": strconv.FormatInt(conn.ID, 10),
	}))
	s.logger.Info("connection created from accepted request", "connection_id", conn.ID)
	return nil
}
