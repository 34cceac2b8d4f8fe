package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/muhammadafham46/Business-Nexus/internal/activity"
	"github.com/muhammadafham46/Business-Nexus/internal/cache"
	"github.com/muhammadafham46/Business-Nexus/internal/config"
	"github.com/muhammadafham46/Business-Nexus/internal/handler/dto"
	"github.com/muhammadafham46/Business-Nexus/internal/metrics"
	"github.com/muhammadafham46/Business-Nexus/internal/middleware"
	"github.com/muhammadafham46/Business-Nexus/internal/repository/memory"
	"github.com/muhammadafham46/Business-Nexus/internal/service"
	"github.com/muhammadafham46/Business-Nexus/internal/session"
	"github.com/muhammadafham46/Business-Nexus/internal/testutil"
)

const testCookie = "nexus_session"

type testAPI struct {
	t        *testing.T
	router   http.Handler
	recorder *metrics.InMemoryRecorder
}

type apiOption func(*Deps)

func withLimiter(l middleware.RateLimiter) apiOption {
	return func(d *Deps) { d.Limiter = l }
}

func withMetricsHandler(h http.Handler) apiOption {
	return func(d *Deps) { d.MetricsHandler = h }
}

func newTestAPI(t *testing.T, opts ...apiOption) *testAPI {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	recorder := metrics.NewInMemory()
	sessions := session.NewManager(session.NewMemoryStore(), time.Hour)
	feed := activity.NewMemoryFeed(logger)

	svcs := service.New(service.Deps{
		Store:   store,
		Hasher:  testutil.FastHasher(),
		Events:  feed,
		Feed:    feed,
		Metrics: recorder,
		Logger:  logger,
	}, sessions)

	deps := Deps{
		Config: &config.Config{
			AppEnv:                 "test",
			SessionTTL:             time.Hour,
			SessionCookieName:      testCookie,
			MaxRequestBodySize:     1 << 20,
			AuthRateLimitPerMinute: 10,
			AuthRateLimitBurst:     5,
			APIRateLimitPerMinute:  600,
			APIRateLimitBurst:      60,
		},
		Logger:   logger,
		Services: svcs,
		Store:    store,
		Metrics:  recorder,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	return &testAPI{t: t, router: NewRouter(deps), recorder: recorder}
}

// do sends a JSON request. token, when set, is sent as the session cookie.
func (a *testAPI) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			a.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "192.0.2.10:4321"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

type member struct {
	ID    int64
	Token string
}

func (a *testAPI) register(email, role string) member {
	a.t.Helper()

	rec := a.do(http.MethodPost, "/api/auth/register", map[string]any{
		"email":           email,
		"password":        "password123",
		"confirmPassword": "password123",
		"firstName":       "Test",
		"lastName":        strings.Split(email, "@")[0],
		"role":            role,
	}, "")
	if rec.Code != http.StatusCreated {
		a.t.Fatalf("register %s: status %d body %s", email, rec.Code, rec.Body.String())
	}

	var env dto.UserEnvelope
	decode(a.t, rec, &env)
	return member{ID: env.User.ID, Token: sessionCookie(a.t, rec).Value}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", testCookie)
	return nil
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	var resp dto.ErrorResponse
	decode(t, rec, &resp)
	if resp.Code != code {
		t.Errorf("expected code %s, got %s (%s)", code, resp.Code, resp.Error)
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	api := newTestAPI(t)

	assertError(t, api.do(http.MethodGet, "/nope", nil, ""), http.StatusNotFound, "NOT_FOUND")
	assertError(t, api.do(http.MethodDelete, "/healthz", nil, ""), http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED")
}

func TestRouter_RequiresSession(t *testing.T) {
	api := newTestAPI(t)

	paths := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPost, "/api/auth/logout"},
		{http.MethodGet, "/api/users"},
		{http.MethodGet, "/api/users/1"},
		{http.MethodPut, "/api/users/1"},
		{http.MethodGet, "/api/collaboration-requests"},
		{http.MethodPost, "/api/collaboration-requests"},
		{http.MethodPut, "/api/collaboration-requests/1"},
		{http.MethodGet, "/api/messages/1"},
		{http.MethodPost, "/api/messages"},
		{http.MethodGet, "/api/connections"},
		{http.MethodPost, "/api/connections"},
		{http.MethodGet, "/api/connections/check/1"},
		{http.MethodGet, "/api/activity"},
	}

	for _, p := range paths {
		rec := api.do(p.method, p.path, nil, "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", p.method, p.path, rec.Code)
		}
	}

	// A well-formed but unknown token is treated as anonymous
	rec := api.do(http.MethodGet, "/api/auth/me", nil, "nx_01HZZZZZZZZZZZZZZZZZZZZZZZ_"+strings.Repeat("ab", 32))
	assertError(t, rec, http.StatusUnauthorized, "UNAUTHORIZED")
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	prom := metrics.NewPrometheus()
	api := newTestAPI(t, withMetricsHandler(prom.Handler()))

	api.do(http.MethodGet, "/healthz", nil, "")

	rec := api.do(http.MethodGet, "/metrics", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("expected go runtime collectors in exposition")
	}

	snap := api.recorder.Snapshot()
	if snap.HTTPRequests < 2 {
		t.Errorf("expected HTTP requests to be recorded, got %d", snap.HTTPRequests)
	}
	if snap.HTTPByStatus[http.StatusOK] < 1 {
		t.Errorf("expected a 200 observation, got %v", snap.HTTPByStatus)
	}
}

func TestRouter_MetricsEndpointDisabled(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/metrics", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 without a metrics handler, got %d", rec.Code)
	}
}

// denyLimiter rejects every check.
type denyLimiter struct{}

func (denyLimiter) CheckUserRateLimit(context.Context, int64, int, int) (*cache.RateLimitResult, error) {
	return &cache.RateLimitResult{Allowed: false, ResetAt: time.Now().Add(time.Minute), RetryAfter: 2 * time.Second}, nil
}

func (denyLimiter) CheckIPRateLimit(context.Context, string, string, int, int) (*cache.RateLimitResult, error) {
	return &cache.RateLimitResult{Allowed: false, ResetAt: time.Now().Add(time.Minute), RetryAfter: 2 * time.Second}, nil
}

func TestRouter_AuthRateLimited(t *testing.T) {
	api := newTestAPI(t, withLimiter(denyLimiter{}))

	rec := api.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "a@example.com",
		"password": "password123",
	}, "")
	assertError(t, rec, http.StatusTooManyRequests, "RATE_LIMITED")
	if rec.Header().Get("Retry-After") != "2" {
		t.Errorf("expected Retry-After 2, got %q", rec.Header().Get("Retry-After"))
	}

	// Health checks are never limited
	if rec := api.do(http.MethodGet, "/healthz", nil, ""); rec.Code != http.StatusOK {
		t.Errorf("expected /healthz 200, got %d", rec.Code)
	}
}

func newBearerRequest(method, path, token string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = "192.0.2.10:4321"
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func serve(a *testAPI, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}
