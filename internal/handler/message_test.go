package handler

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/muhammadafham46/Business-Nexus/internal/handler/dto"
)

func TestMessages_SendAndConversation(t *testing.T) {
	api := newTestAPI(t)
	a := api.register("a@x.com", "investor")
	b := api.register("b@x.com", "entrepreneur")

	send := func(from member, to int64, content string) *dto.MessageDTO {
		t.Helper()
		rec := api.do(http.MethodPost, "/api/messages", map[string]any{"toUserId": to, "content": content}, from.Token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("send: expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var msg dto.MessageDTO
		decode(t, rec, &msg)
		return &msg
	}

	first := send(a, b.ID, "hi")
	if first.FromUserID != a.ID || first.ToUserID != b.ID || first.Content != "hi" {
		t.Errorf("unexpected message %+v", first)
	}
	send(b, a.ID, "  hey  ")

	for _, viewer := range []member{a, b} {
		other := b.ID
		if viewer.ID == b.ID {
			other = a.ID
		}
		rec := api.do(http.MethodGet, fmt.Sprintf("/api/messages/%d", other), nil, viewer.Token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var msgs []dto.MessageDTO
		decode(t, rec, &msgs)
		if len(msgs) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(msgs))
		}
		if msgs[0].Content != "hi" || msgs[1].Content != "hey" {
			t.Errorf("expected [hi hey], got [%s %s]", msgs[0].Content, msgs[1].Content)
		}
		if msgs[0].FromUser == nil || msgs[0].FromUser.ID != a.ID {
			t.Errorf("expected embedded sender %d, got %+v", a.ID, msgs[0].FromUser)
		}
	}

	if got := api.recorder.Snapshot().MessagesSent; got != 2 {
		t.Errorf("expected 2 messages recorded, got %d", got)
	}
}

func TestMessages_Errors(t *testing.T) {
	api := newTestAPI(t)
	a := api.register("a@x.com", "investor")
	b := api.register("b@x.com", "entrepreneur")

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{"empty content", map[string]any{"toUserId": b.ID, "content": "   "}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"too long", map[string]any{"toUserId": b.ID, "content": strings.Repeat("x", 5001)}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"self", map[string]any{"toUserId": a.ID, "content": "note to self"}, http.StatusBadRequest, "INVALID_TARGET"},
		{"unknown recipient", map[string]any{"toUserId": 999, "content": "hello"}, http.StatusNotFound, "NOT_FOUND"},
		{"malformed", `[]`, http.StatusBadRequest, "INVALID_JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertError(t, api.do(http.MethodPost, "/api/messages", tt.body, a.Token), tt.wantStatus, tt.wantCode)
		})
	}

	assertError(t, api.do(http.MethodGet, "/api/messages/999", nil, a.Token), http.StatusNotFound, "NOT_FOUND")
	assertError(t, api.do(http.MethodGet, "/api/messages/zero", nil, a.Token), http.StatusBadRequest, "VALIDATION_ERROR")
}
