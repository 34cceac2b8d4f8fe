package handler

import (
	"net/http"
	"testing"

	"github.com/muhammadafham46/Business-Nexus/internal/events"
	"github.com/muhammadafham46/Business-Nexus/internal/handler/dto"
)

func TestActivity_Feed(t *testing.T) {
	api := newTestAPI(t)
	a := api.register("a@x.com", "investor")
	b := api.register("b@x.com", "entrepreneur")

	rec := api.do(http.MethodPost, "/api/collaboration-requests", map[string]any{"toUserId": a.ID, "message": "hi"}, b.Token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = api.do(http.MethodGet, "/api/activity", nil, a.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var feed []dto.ActivityResponse
	decode(t, rec, &feed)
	if len(feed) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(feed))
	}

	latest := feed[0]
	if latest.Type != events.TypeRequestCreated {
		t.Errorf("expected newest entry %s, got %s", events.TypeRequestCreated, latest.Type)
	}
	if latest.ActorID != b.ID || latest.Actor == nil || latest.Actor.ID != b.ID {
		t.Errorf("expected actor %d embedded, got %+v", b.ID, latest)
	}
	if latest.SubjectID == nil || *latest.SubjectID != a.ID {
		t.Errorf("expected subject %d, got %v", a.ID, latest.SubjectID)
	}
	if latest.OccurredAt.IsZero() {
		t.Error("expected occurredAt to be set")
	}

	registered := feed[1]
	if registered.Type != events.TypeUserRegistered || registered.SubjectID != nil {
		t.Errorf("expected own registration without subject, got %+v", registered)
	}

	rec = api.do(http.MethodGet, "/api/activity?limit=1", nil, a.Token)
	decode(t, rec, &feed)
	if len(feed) != 1 {
		t.Errorf("expected 1 entry with limit=1, got %d", len(feed))
	}
}

func TestActivity_InvalidLimit(t *testing.T) {
	api := newTestAPI(t)
	a := api.register("a@x.com", "investor")

	for _, q := range []string{"abc", "0", "-1", "101"} {
		assertError(t, api.do(http.MethodGet, "/api/activity?limit="+q, nil, a.Token),
			http.StatusBadRequest, "VALIDATION_ERROR")
	}
}
