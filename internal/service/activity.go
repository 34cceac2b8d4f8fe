package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/muhammadafham46/Business-Nexus/internal/activity"
	"github.com/muhammadafham46/Business-Nexus/internal/events"
)

// DefaultActivityLimit is the feed page size when the request names none.
const DefaultActivityLimit = 20

// ActivityService reads member activity feeds.
type ActivityService struct {
	feed   activity.Feed
	logger *slog.Logger
}

// NewActivityService creates a new ActivityService. A nil feed yields
// empty results.
func NewActivityService(deps Deps) *ActivityService {
	deps = deps.withDefaults()
	return &ActivityService{
		feed:   deps.Feed,
		logger: deps.Logger.With("component", "service.activity"),
	}
}

// Recent returns the newest limit entries in userID's feed.
func (s *ActivityService) Recent(ctx context.Context, userID int64, limit int) ([]events.Event, error) {
	if limit < 1 || limit > activity.MaxFeedLen {
		return nil, invalid("limit", "must be between 1 and %d", activity.MaxFeedLen)
	}
	if s.feed == nil {
		return []events.Event{}, nil
	}

	entries, err := s.feed.List(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read activity feed: %w", err)
	}
	return entries, nil
}
