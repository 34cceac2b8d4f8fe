package activity

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/muhammadafham46/Business-Nexus/internal/events"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestValidateEvent(t *testing.T) {
	t.Parallel()

	valid := events.New(events.TypeMessageSent, 1, 2, map[string]string{"messageId": "9"})
	if err := ValidateEvent(valid); err != nil {
		t.Fatalf("expected valid event, got %v", err)
	}

	mutate := func(f func(*events.Event)) events.Event {
		e := events.New(events.TypeMessageSent, 1, 2, nil)
		f(&e)
		return e
	}

	tests := []struct {
		name string
		evt  events.Event
	}{
		{"missing_id", mutate(func(e *events.Event) { e.ID = "" })},
		{"non_ulid_id", mutate(func(e *events.Event) { e.ID = "not-a-ulid" })},
		{"missing_type", mutate(func(e *events.Event) { e.Type = "" })},
		{"unknown_type", mutate(func(e *events.Event) { e.Type = "link.clicked" })},
		{"zero_actor", mutate(func(e *events.Event) { e.ActorID = 0 })},
		{"negative_subject", mutate(func(e *events.Event) { e.SubjectID = -1 })},
		{"missing_time", mutate(func(e *events.Event) { e.OccurredAt = 0 })},
		{"long_attr", mutate(func(e *events.Event) { e.Attrs = map[string]string{"k": strings.Repeat("x", 501)} })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := ValidateEvent(tt.evt); err == nil {
				t.Errorf("ValidateEvent() expected error")
			}
		})
	}
}

func TestRecipients(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		actor int64
		subj  int64
		want  []int64
	}{
		{"actor_only", 3, 0, []int64{3}},
		{"actor_and_subject", 3, 7, []int64{3, 7}},
		{"self_subject", 3, 3, []int64{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Recipients(events.Event{ActorID: tt.actor, SubjectID: tt.subj})
			if len(got) != len(tt.want) {
				t.Fatalf("Recipients() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Recipients()[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMemoryFeed_AppendAndList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	feed := NewMemoryFeed(discardLogger())

	first := events.New(events.TypeRequestCreated, 1, 2, nil)
	second := events.New(events.TypeMessageSent, 2, 1, nil)
	other := events.New(events.TypeUserRegistered, 5, 0, nil)

	for _, e := range []events.Event{first, second, other, first} {
		if err := feed.Append(ctx, e); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	got, err := feed.List(ctx, 1, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List() returned %d entries, want 2 (redelivery must not duplicate)", len(got))
	}
	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Errorf("List() order = [%s %s], want redelivered entry first", got[0].Type, got[1].Type)
	}

	forSubject, _ := feed.List(ctx, 2, 10)
	if len(forSubject) != 2 {
		t.Errorf("subject feed has %d entries, want 2", len(forSubject))
	}

	limited, _ := feed.List(ctx, 1, 1)
	if len(limited) != 1 {
		t.Errorf("List(limit=1) returned %d entries", len(limited))
	}

	empty, _ := feed.List(ctx, 42, 10)
	if len(empty) != 0 {
		t.Errorf("unknown member feed has %d entries", len(empty))
	}
}

func TestMemoryFeed_Capped(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	feed := NewMemoryFeed(discardLogger())

	var last events.Event
	for i := 0; i < MaxFeedLen+15; i++ {
		last = events.New(events.TypeMessageSent, 1, 2, nil)
		if err := feed.Append(ctx, last); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	got, _ := feed.List(ctx, 1, 0)
	if len(got) != MaxFeedLen {
		t.Fatalf("feed length = %d, want %d", len(got), MaxFeedLen)
	}
	if got[0].ID != last.ID {
		t.Error("newest entry should be first")
	}
}

func TestMemoryFeed_EmitDropsInvalid(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	feed := NewMemoryFeed(discardLogger())

	feed.Emit(events.Event{ID: "bogus", Type: events.TypeMessageSent, ActorID: 1})
	feed.Emit(events.New(events.TypeConnectionCreated, 1, 2, nil))

	got, _ := feed.List(ctx, 1, 10)
	if len(got) != 1 || got[0].Type != events.TypeConnectionCreated {
		t.Errorf("List() = %+v, want only the valid event", got)
	}
}

func TestDecodeMessage(t *testing.T) {
	t.Parallel()

	good := `{"id":"01J9Z3X8M4T6YB2QWJ9N5K7C1D","type":"message.sent","actorId":1,"subjectId":2,"t":1700000000000}`

	tests := []struct {
		name       string
		values     map[string]interface{}
		wantReason string
	}{
		{"valid", map[string]interface{}{"type": "message.sent", "payload": good}, ""},
		{"missing_payload", map[string]interface{}{"type": "message.sent"}, "invalid_format"},
		{"bad_json", map[string]interface{}{"payload": "{"}, "unmarshal_error"},
		{"invalid_event", map[string]interface{}{"payload": `{"id":"x","type":"message.sent","actorId":1,"t":1}`}, "validation_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			evt, reason, _ := decodeMessage(redis.XMessage{ID: "1-0", Values: tt.values})
			if reason != tt.wantReason {
				t.Fatalf("reason = %q, want %q", reason, tt.wantReason)
			}
			if tt.wantReason == "" && (evt.ActorID != 1 || evt.SubjectID != 2) {
				t.Errorf("decoded event = %+v", evt)
			}
		})
	}
}

func TestNewConsumerID(t *testing.T) {
	t.Parallel()

	a, b := NewConsumerID(), NewConsumerID()
	if a == "" || a == b {
		t.Errorf("NewConsumerID() = %q, %q; want distinct non-empty IDs", a, b)
	}
}

func TestFeedKey(t *testing.T) {
	t.Parallel()

	if got := FeedKey(42); got != "feed:user:42" {
		t.Errorf("FeedKey(42) = %q", got)
	}
}
