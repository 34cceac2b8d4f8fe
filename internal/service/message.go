package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/muhammadafham46/Business-Nexus/internal/events"
	"github.com/muhammadafham46/Business-Nexus/internal/metrics"
	"github.com/muhammadafham46/Business-Nexus/internal/model"
	"github.com/muhammadafham46/Business-Nexus/internal/repository"
)

// MessageService handles direct messages.
type MessageService struct {
	store   repository.MessageStore
	users   *UserService
	events  events.Publisher
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewMessageService creates a new MessageService.
func NewMessageService(deps Deps, users *UserService) *MessageService {
	deps = deps.withDefaults()
	return &MessageService{
		store:   deps.Store,
		users:   users,
		events:  deps.Events,
		metrics: deps.Metrics,
		logger:  deps.Logger.With("component", "service.message"),
	}
}

// Send delivers a message from fromID to toID.
func (s *MessageService) Send(ctx context.Context, fromID, toID int64, content string) (*model.Message, error) {
	if fromID == toID {
		return nil, ErrInvalidTarget
	}
	content, err := normalizeContent("content", content, MaxMessageLength, true)
	if err != nil {
		return nil, err
	}
	if err := s.users.Exists(ctx, toID); err != nil {
		return nil, err
	}

	msg := &model.Message{
		FromUserID: fromID,
		ToUserID:   toID,
		Content:    content,
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	s.metrics.IncMessageSent()
	s.events.Emit(events.New(events.TypeMessageSent, fromID, toID, map[string]string{
		"messageId": strconv.FormatInt(msg.ID, 10),
	}))

	return msg, nil
}

// Conversation returns the messages between two users, oldest first.
func (s *MessageService) Conversation(ctx context.Context, userID, otherID int64) ([]*model.Message, error) {
	if err := s.users.Exists(ctx, otherID); err != nil {
		return nil, err
	}
	return s.store.ListMessagesBetween(ctx, userID, otherID)
}
