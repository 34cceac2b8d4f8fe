// Package activity projects the activity stream into per-member feeds.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/muhammadafham46/Business-Nexus/internal/events"
)

const (
	// MaxFeedLen is the number of entries kept per member.
	MaxFeedLen = 100

	// FeedTTL expires feeds of members with no recent activity.
	FeedTTL = 30 * 24 * time.Hour
)

// Feed stores recent activity per member, newest first.
type Feed interface {
	// Append adds evt to the feed of every recipient. Appending the same
	// event twice leaves a single copy.
	Append(ctx context.Context, evt events.Event) error
	List(ctx context.Context, userID int64, limit int) ([]events.Event, error)
}

// Recipients returns the members whose feed shows evt: the actor and, when
// set and different, the subject.
func Recipients(evt events.Event) []int64 {
	ids := []int64{evt.ActorID}
	if evt.SubjectID > 0 && evt.SubjectID != evt.ActorID {
		ids = append(ids, evt.SubjectID)
	}
	return ids
}

// FeedKey returns the Redis list holding a member's feed.
func FeedKey(userID int64) string {
	return fmt.Sprintf("feed:user:%d", userID)
}

// RedisFeed keeps each feed in a capped Redis list.
type RedisFeed struct {
	redis *redis.Client
}

// NewRedisFeed creates a feed backed by Redis lists.
func NewRedisFeed(client *redis.Client) *RedisFeed {
	return &RedisFeed{redis: client}
}

// Append pushes evt onto each recipient's list. A redelivered event is
// removed before it is pushed again, so retries never duplicate entries.
func (f *RedisFeed) Append(ctx context.Context, evt events.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	_, err = f.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range Recipients(evt) {
			key := FeedKey(id)
			pipe.LRem(ctx, key, 0, data)
			pipe.LPush(ctx, key, data)
			pipe.LTrim(ctx, key, 0, MaxFeedLen-1)
			pipe.Expire(ctx, key, FeedTTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append feed: %w", err)
	}
	return nil
}

// List returns up to limit entries for userID, newest first.
func (f *RedisFeed) List(ctx context.Context, userID int64, limit int) ([]events.Event, error) {
	if limit <= 0 || limit > MaxFeedLen {
		limit = MaxFeedLen
	}

	raw, err := f.redis.LRange(ctx, FeedKey(userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}

	out := make([]events.Event, 0, len(raw))
	for _, item := range raw {
		var evt events.Event
		if err := json.Unmarshal([]byte(item), &evt); err != nil {
			continue
		}
		out = append(out, evt)
	}
	return out, nil
}

// MemoryFeed keeps feeds in process. It also implements events.Publisher
// so deployments without Redis project activity synchronously.
type MemoryFeed struct {
	mu     sync.Mutex
	feeds  map[int64][]events.Event
	logger *slog.Logger
}

var (
	_ Feed             = (*MemoryFeed)(nil)
	_ Feed             = (*RedisFeed)(nil)
	_ events.Publisher = (*MemoryFeed)(nil)
)

// NewMemoryFeed creates an empty in-process feed.
func NewMemoryFeed(logger *slog.Logger) *MemoryFeed {
	return &MemoryFeed{
		feeds:  make(map[int64][]events.Event),
		logger: logger.With("component", "activity.feed"),
	}
}

// Emit projects evt immediately.
func (f *MemoryFeed) Emit(evt events.Event) {
	if err := ValidateEvent(evt); err != nil {
		f.logger.Warn("dropping invalid activity event", "type", evt.Type, "error", err)
		return
	}
	_ = f.Append(context.Background(), evt)
}

func (f *MemoryFeed) Append(ctx context.Context, evt events.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, id := range Recipients(evt) {
		feed := f.feeds[id]
		kept := make([]events.Event, 0, len(feed)+1)
		kept = append(kept, evt)
		for _, e := range feed {
			if e.ID != evt.ID {
				kept = append(kept, e)
			}
		}
		if len(kept) > MaxFeedLen {
			kept = kept[:MaxFeedLen]
		}
		f.feeds[id] = kept
	}
	return nil
}

func (f *MemoryFeed) List(ctx context.Context, userID int64, limit int) ([]events.Event, error) {
	if limit <= 0 || limit > MaxFeedLen {
		limit = MaxFeedLen
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	feed := f.feeds[userID]
	if len(feed) > limit {
		feed = feed[:limit]
	}
	out := make([]events.Event, len(feed))
	copy(out, feed)
	return out, nil
}
