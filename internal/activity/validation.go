package activity

import (
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/muhammadafham46/Business-Nexus/internal/events"
)

const (
	maxAttrs      = 16
	maxAttrLength = 500
	maxTypeLength = 64
)

var knownTypes = map[string]bool{
	events.TypeUserRegistered:    true,
	events.TypeRequestCreated:    true,
	events.TypeRequestUpdated:    true,
	events.TypeMessageSent:       true,
	events.TypeConnectionCreated: true,
}

// ValidateEvent checks a decoded stream entry before it is projected.
func ValidateEvent(evt events.Event) error {
	if evt.ID == "" {
		return fmt.Errorf("id is required")
	}
	if _, err := ulid.ParseStrict(evt.ID); err != nil {
		return fmt.Errorf("id must be a ULID")
	}
	if evt.Type == "" {
		return fmt.Errorf("type is required")
	}
	if len(evt.Type) > maxTypeLength || !knownTypes[evt.Type] {
		return fmt.Errorf("unknown type %q", evt.Type)
	}
	if evt.ActorID <= 0 {
		return fmt.Errorf("actorId must be positive")
	}
	if evt.SubjectID < 0 {
		return fmt.Errorf("subjectId must not be negative")
	}
	if evt.OccurredAt <= 0 {
		return fmt.Errorf("t must be set")
	}
	if len(evt.Attrs) > maxAttrs {
		return fmt.Errorf("too many attrs")
	}
	for k, v := range evt.Attrs {
		if len(k) > maxAttrLength || len(v) > maxAttrLength {
			return fmt.Errorf("attr %q too long", k)
		}
	}
	return nil
}
