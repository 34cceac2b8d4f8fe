package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/muhammadafham46/Business-Nexus/internal/model"
)

func TestMessageService_SendAndConversation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	a := f.register(t, "a@x.com", model.RoleInvestor)
	b := f.register(t, "b@x.com", model.RoleEntrepreneur)

	if _, err := f.svc.Messages.Send(ctx, a.ID, b.ID, " hi "); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if _, err := f.svc.Messages.Send(ctx, b.ID, a.ID, "hey"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	for _, pair := range [][2]int64{{a.ID, b.ID}, {b.ID, a.ID}} {
		msgs, err := f.svc.Messages.Conversation(ctx, pair[0], pair[1])
		if err != nil {
			t.Fatalf("Conversation() error = %v", err)
		}
		if len(msgs) != 2 || msgs[0].Content != "hi" || msgs[1].Content != "hey" {
			t.Errorf("Conversation(%d, %d) = %v, want [hi hey]", pair[0], pair[1], msgs)
		}
	}

	if f.metrics.Snapshot().MessagesSent != 2 {
		t.Errorf("MessagesSent = %d, want 2", f.metrics.Snapshot().MessagesSent)
	}
}

func TestMessageService_SendErrors(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	a := f.register(t, "a@x.com", model.RoleInvestor)
	b := f.register(t, "b@x.com", model.RoleEntrepreneur)

	tests := []struct {
		name      string
		to        int64
		content   string
		wantErr   error
		wantField string
	}{
		{"self", a.ID, "hello", ErrInvalidTarget, ""},
		{"unknown recipient", 999, "hello", ErrUserNotFound, ""},
		{"blank", b.ID, "   ", nil, "content"},
		{"too long", b.ID, strings.Repeat("x", MaxMessageLength+1), nil, "content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := f.svc.Messages.Send(ctx, a.ID, tt.to, tt.content)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Send() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) || vErr.Field != tt.wantField {
				t.Errorf("Send() error = %v, want validation error on %s", err, tt.wantField)
			}
		})
	}

	if _, err := f.svc.Messages.Send(ctx, a.ID, b.ID, strings.Repeat("x", MaxMessageLength)); err != nil {
		t.Errorf("Send() at the limit error = %v", err)
	}
	if _, err := f.svc.Messages.Conversation(ctx, a.ID, 999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Conversation(999) error = %v, want ErrUserNotFound", err)
	}
}
