package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/muhammadafham46/Business-Nexus/internal/auth"
	"github.com/muhammadafham46/Business-Nexus/internal/model"
	"github.com/muhammadafham46/Business-Nexus/internal/session"
)

type fakeResolver struct {
	sessions map[string]*model.Session
	err      error
}

func (f fakeResolver) Authenticate(_ context.Context, token string) (*model.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.sessions[token]
	if !ok {
		return nil, session.ErrNotFound
	}
	return s, nil
}

func TestSession(t *testing.T) {
	t.Parallel()

	resolver := fakeResolver{sessions: map[string]*model.Session{
		"good": {ID: "sess-1", UserID: 9, ExpiresAt: time.Now().Add(time.Hour)},
	}}

	tests := []struct {
		name       string
		cookie     string
		bearer     string
		err        error
		wantStatus int
		wantUser   int64
	}{
		{"cookie", "good", "", nil, http.StatusOK, 9},
		{"bearer", "", "good", nil, http.StatusOK, 9},
		{"unknown token is anonymous", "stale", "", nil, http.StatusOK, 0},
		{"no token is anonymous", "", "", nil, http.StatusOK, 0},
		{"store failure", "good", "", errors.New("redis down"), http.StatusInternalServerError, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := resolver
			r.err = tt.err

			var gotUser int64
			h := Session(SessionConfig{Logger: discardLogger(), Resolver: r, CookieName: "nexus_session"})(
				http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					gotUser, _ = auth.UserIDFromContext(req.Context())
					w.WriteHeader(http.StatusOK)
				}))

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "nexus_session", Value: tt.cookie})
			}
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if gotUser != tt.wantUser {
				t.Errorf("user = %d, want %d", gotUser, tt.wantUser)
			}
		})
	}
}

func TestRequireSession(t *testing.T) {
	t.Parallel()

	h := RequireSession(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req = req.WithContext(auth.ContextWithAuth(req.Context(), &model.AuthContext{UserID: 1}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated status = %d, want 200", rec.Code)
	}
}

func TestTokenFromRequest(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "nexus_session", Value: "from-cookie"})
	req.Header.Set("Authorization", "Bearer from-header")
	if got := TokenFromRequest(req, "nexus_session"); got != "from-cookie" {
		t.Errorf("cookie should win, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc")
	if got := TokenFromRequest(req, "nexus_session"); got != "" {
		t.Errorf("non-bearer auth should be ignored, got %q", got)
	}
}
