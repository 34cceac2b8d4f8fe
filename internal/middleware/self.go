package middleware

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/muhammadafham46/Business-Nexus/internal/auth"
)

// RequireSelf returns middleware that only lets a user act on their own
// record, identified by the chi URL parameter param.
// Must be applied after Session.
func RequireSelf(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				writeAuthError(w)
				return
			}

			target, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
			if err != nil || target <= 0 {
				writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid "+param)
				return
			}

			if target != userID {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "You can only modify your own profile")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
