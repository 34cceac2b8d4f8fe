// Package events publishes domain activity to a Redis stream.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
)

const (
	// StreamKey is the Redis stream for activity events.
	StreamKey = "stream:nexus_activity"

	// MaxStreamLen is the approximate max length of the stream.
	MaxStreamLen = 100000

	// PublishTimeout is the max time to wait for Redis publish.
	PublishTimeout = 100 * time.Millisecond
)

// Event types.
const (
	TypeUserRegistered    = "user.registered"
	TypeRequestCreated    = "collaboration_request.created"
	TypeRequestUpdated    = "collaboration_request.updated"
	TypeMessageSent       = "message.sent"
	TypeConnectionCreated = "connection.created"
)

// Event is one entry on the activity stream.
type Event struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	ActorID    int64             `json:"actorId"`
	SubjectID  int64             `json:"subjectId,omitempty"`
	Attrs      map[string]string `json:"attrs,omitempty"`
	OccurredAt int64             `json:"t"` // Unix milliseconds
}

// New builds an event with a fresh ULID and the current time.
func New(eventType string, actorID, subjectID int64, attrs map[string]string) Event {
	now := time.Now().UTC()
	return Event{
		ID:         ulid.Make().String(),
		Type:       eventType,
		ActorID:    actorID,
		SubjectID:  subjectID,
		Attrs:      attrs,
		OccurredAt: now.UnixMilli(),
	}
}

// Publisher emits events without blocking the caller.
type Publisher interface {
	Emit(evt Event)
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Emit(Event) {}

// RecordingPublisher keeps events in memory for tests.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *RecordingPublisher) Emit(evt Event) {
	p.mu.Lock()
	p.events = append(p.events, evt)
	p.mu.Unlock()
}

// Events returns a copy of everything emitted so far.
func (p *RecordingPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

// Types returns the emitted event types in order.
func (p *RecordingPublisher) Types() []string {
	evts := p.Events()
	types := make([]string, len(evts))
	for i, e := range evts {
		types[i] = e.Type
	}
	return types
}

// RedisPublisher appends events to StreamKey.
type RedisPublisher struct {
	redis  *redis.Client
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewRedisPublisher creates a publisher backed by a Redis stream.
func NewRedisPublisher(client *redis.Client, logger *slog.Logger) *RedisPublisher {
	return &RedisPublisher{
		redis:  client,
		logger: logger.With("component", "events.publisher"),
	}
}

// Publish adds an event to the stream synchronously.
func (p *RedisPublisher) Publish(ctx context.Context, evt Event) (string, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}

	result, err := p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey,
		MaxLen: MaxStreamLen,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{
			"type":    evt.Type,
			"payload": string(data),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("xadd: %w", err)
	}

	return result, nil
}

// Emit publishes without blocking the caller.
// Errors are logged but not returned.
func (p *RedisPublisher) Emit(evt Event) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), PublishTimeout)
		defer cancel()

		streamID, err := p.Publish(ctx, evt)
		if err != nil {
			p.logger.Warn("failed to publish event",
				"type", evt.Type,
				"event_id", evt.ID,
				"error", err,
			)
			return
		}

		p.logger.Debug("event published",
			"type", evt.Type,
			"stream_id", streamID,
		)
	}()
}

// Wait blocks until in-flight Emit calls finish.
func (p *RedisPublisher) Wait() {
	p.wg.Wait()
}

// Recent returns up to count events, newest first.
func (p *RedisPublisher) Recent(ctx context.Context, count int64) ([]Event, error) {
	msgs, err := p.redis.XRevRangeN(ctx, StreamKey, "+", "-", count).Result()
	if err != nil {
		return nil, fmt.Errorf("xrevrange: %w", err)
	}

	out := make([]Event, 0, len(msgs))
	for _, msg := range msgs {
		raw, ok := msg.Values["payload"].(string)
		if !ok {
			continue
		}
		var evt Event
		if err := json.Unmarshal([]byte(raw), &evt); err != nil {
			p.logger.Warn("skipping malformed event", "stream_id", msg.ID, "error", err)
			continue
		}
		out = append(out, evt)
	}
	return out, nil
}
