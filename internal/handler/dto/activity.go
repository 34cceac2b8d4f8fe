package dto

import (
	"time"

	"github.com/muhammadafham46/Business-Nexus/internal/events"
	"github.com/muhammadafham46/Business-Nexus/internal/model"
)

// ActivityResponse is one entry of a member's activity feed.
type ActivityResponse struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	ActorID    int64             `json:"actorId"`
	SubjectID  *int64            `json:"subjectId"`
	Attrs      map[string]string `json:"attrs"`
	OccurredAt time.Time         `json:"occurredAt"`
	Actor      *UserSummary      `json:"actor"`
}

// ToActivityResponses converts feed entries, embedding the actor summary
// when users holds it.
func ToActivityResponses(entries []events.Event, users map[int64]*model.User) []*ActivityResponse {
	out := make([]*ActivityResponse, len(entries))
	for i, e := range entries {
		attrs := e.Attrs
		if attrs == nil {
			attrs = map[string]string{}
		}
		var subject *int64
		if e.SubjectID > 0 {
			id := e.SubjectID
			subject = &id
		}
		out[i] = &ActivityResponse{
			ID:         e.ID,
			Type:       e.Type,
			ActorID:    e.ActorID,
			SubjectID:  subject,
			Attrs:      attrs,
			OccurredAt: time.UnixMilli(e.OccurredAt).UTC(),
			Actor:      ToUserSummary(users[e.ActorID]),
		}
	}
	return out
}
