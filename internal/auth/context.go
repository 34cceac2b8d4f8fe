package auth

import (
	"context"

	"github.com/muhammadafham46/Business-Nexus/internal/model"
)

type memberKey struct{}

// ContextWithAuth marks ctx as belonging to the signed-in member.
func ContextWithAuth(ctx context.Context, member *model.AuthContext) context.Context {
	return context.WithValue(ctx, memberKey{}, member)
}

// AuthFromContext returns the signed-in member, or nil for anonymous requests.
func AuthFromContext(ctx context.Context) *model.AuthContext {
	member, _ := ctx.Value(memberKey{}).(*model.AuthContext)
	return member
}

// UserIDFromContext returns the signed-in member's id. ok is false when the
// request is anonymous.
func UserIDFromContext(ctx context.Context) (id int64, ok bool) {
	if member := AuthFromContext(ctx); member != nil {
		return member.UserID, true
	}
	return 0, false
}

// SessionIDFromContext returns the session ULID for logging, or "".
func SessionIDFromContext(ctx context.Context) string {
	if member := AuthFromContext(ctx); member != nil {
		return member.SessionID
	}
	return ""
}
