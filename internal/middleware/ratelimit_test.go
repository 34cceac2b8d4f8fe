package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/muhammadafham46/Business-Nexus/internal/auth"
	"github.com/muhammadafham46/Business-Nexus/internal/cache"
	"github.com/muhammadafham46/Business-Nexus/internal/model"
)

// countingLimiter allows the first `allow` calls per key.
type countingLimiter struct {
	mu    sync.Mutex
	allow int
	seen  map[string]int
	err   error
}

func newCountingLimiter(allow int) *countingLimiter {
	return &countingLimiter{allow: allow, seen: map[string]int{}}
}

func (l *countingLimiter) check(key string, burst int) (*cache.RateLimitResult, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen[key]++
	n := l.seen[key]
	return &cache.RateLimitResult{
		Allowed:    n <= l.allow,
		Remaining:  int64(max(l.allow-n, 0)),
		ResetAt:    time.Now().Add(time.Minute),
		RetryAfter: 3 * time.Second,
	}, nil
}

func (l *countingLimiter) CheckUserRateLimit(_ context.Context, userID int64, _, burst int) (*cache.RateLimitResult, error) {
	return l.check("user:"+strconv.FormatInt(userID, 10), burst)
}

func (l *countingLimiter) CheckIPRateLimit(_ context.Context, scope, ip string, _, burst int) (*cache.RateLimitResult, error) {
	return l.check(scope+":"+ip, burst)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimitIP(t *testing.T) {
	t.Parallel()

	limiter := newCountingLimiter(2)
	h := RateLimitIP(RateLimitConfig{
		Logger: discardLogger(), Limiter: limiter, Scope: "auth", PerMinute: 10, Burst: 2,
	})(okHandler)

	codes := make([]int, 3)
	for i := range codes {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.1.1.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes[i] = rec.Code

		if i == 2 {
			if rec.Header().Get("Retry-After") != "3" {
				t.Errorf("Retry-After = %q, want 3", rec.Header().Get("Retry-After"))
			}
			var body errorBody
			_ = json.NewDecoder(rec.Body).Decode(&body)
			if body.Code != "RATE_LIMITED" {
				t.Errorf("code = %q, want RATE_LIMITED", body.Code)
			}
		}
	}

	want := []int{200, 200, 429}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("request %d status = %d, want %d", i+1, codes[i], want[i])
		}
	}

	// Another IP has its own bucket.
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "10.1.1.2:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("other IP status = %d, want 200", rec.Code)
	}
}

func TestRateLimitUser(t *testing.T) {
	t.Parallel()

	limiter := newCountingLimiter(1)
	h := RateLimitUser(RateLimitConfig{
		Logger: discardLogger(), Limiter: limiter, PerMinute: 60, Burst: 1,
	})(okHandler)

	authed := func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		ctx := auth.ContextWithAuth(req.Context(), &model.AuthContext{UserID: 5, SessionID: "s"})
		return req.WithContext(ctx)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authed())
	if rec.Code != http.StatusOK || rec.Header().Get("X-RateLimit-Limit") != "60" {
		t.Errorf("first request = %d, limit header %q", rec.Code, rec.Header().Get("X-RateLimit-Limit"))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, authed())
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request = %d, want 429", rec.Code)
	}

	// Anonymous requests are not counted.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("anonymous request = %d, want 200", rec.Code)
	}
}

func TestRateLimit_FailOpenAndDisabled(t *testing.T) {
	t.Parallel()

	broken := newCountingLimiter(0)
	broken.err = errors.New("redis down")

	tests := []struct {
		name    string
		limiter RateLimiter
	}{
		{"limiter error", broken},
		{"no limiter", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := RateLimitIP(RateLimitConfig{Logger: discardLogger(), Limiter: tt.limiter, Scope: "auth", PerMinute: 1, Burst: 1})(okHandler)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", rec.Code)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{"remote addr strips port", "", "", "203.0.113.9:41000", "203.0.113.9"},
		{"x-forwarded-for first hop", "198.51.100.1, 10.0.0.1", "", "10.0.0.2:80", "198.51.100.1"},
		{"x-real-ip", "", " 198.51.100.7 ", "10.0.0.2:80", "198.51.100.7"},
		{"ipv6 remote", "", "", "[::1]:8080", "::1"},
		{"no port", "", "", "192.0.2.1", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimitHeaders(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	setRateLimitHeaders(rec, 60, 45, time.Unix(1700000000, 0))

	if rec.Header().Get("X-RateLimit-Limit") != "60" {
		t.Errorf("X-RateLimit-Limit = %s, want 60", rec.Header().Get("X-RateLimit-Limit"))
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "45" {
		t.Errorf("X-RateLimit-Remaining = %s, want 45", rec.Header().Get("X-RateLimit-Remaining"))
	}
	if rec.Header().Get("X-RateLimit-Reset") != "1700000000" {
		t.Errorf("X-RateLimit-Reset = %s", rec.Header().Get("X-RateLimit-Reset"))
	}

	unlimited := httptest.NewRecorder()
	setRateLimitHeaders(unlimited, 0, 0, time.Now())
	if unlimited.Header().Get("X-RateLimit-Limit") != "" {
		t.Error("no headers expected for an unlimited bucket")
	}
}
