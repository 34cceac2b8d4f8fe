//go:build integration

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/muhammadafham46/Business-Nexus/internal/auth"
	"github.com/muhammadafham46/Business-Nexus/internal/cache"
	"github.com/muhammadafham46/Business-Nexus/internal/model"
	"github.com/muhammadafham46/Business-Nexus/internal/testutil"
)

func redisLimiter(t *testing.T) *cache.Cache {
	t.Helper()
	ctx := context.Background()

	c, err := cache.New(ctx, testutil.RequireEnv(t, "REDIS_URL"))
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}
	return c
}

// hammer sends n requests from workers goroutines and counts the 429s.
func hammer(h http.Handler, workers, n int, newReq func() *http.Request) (ok, limited int64) {
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < n; i++ {
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, newReq())
				if rec.Code == http.StatusTooManyRequests {
					atomic.AddInt64(&limited, 1)
				} else {
					atomic.AddInt64(&ok, 1)
				}
			}
		}()
	}
	wg.Wait()
	return ok, limited
}

func TestRateLimitUser_ConcurrentMember(t *testing.T) {
	c := redisLimiter(t)

	const perMinute, burst = 10, 5
	h := RateLimitUser(RateLimitConfig{
		Logger: discardLogger(), Limiter: c, PerMinute: perMinute, Burst: burst,
	})(okHandler)

	ok, limited := hammer(h, 20, 3, func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/users?role=investor", nil)
		return req.WithContext(auth.ContextWithAuth(req.Context(), &model.AuthContext{UserID: 77, SessionID: "s"}))
	})

	t.Logf("member 77: %d served, %d limited", ok, limited)
	if ok > perMinute+burst {
		t.Errorf("served %d requests, want at most %d", ok, perMinute+burst)
	}
	if limited == 0 {
		t.Error("no request was limited")
	}
}

func TestRateLimitIP_LoginBurst(t *testing.T) {
	c := redisLimiter(t)

	h := RateLimitIP(RateLimitConfig{
		Logger: discardLogger(), Limiter: c, Scope: "auth", PerMinute: 5, Burst: 3,
	})(okHandler)

	ok, limited := hammer(h, 30, 1, func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "198.51.100.23:40000"
		return req
	})

	t.Logf("login burst: %d served, %d limited", ok, limited)
	if limited == 0 {
		t.Error("no login attempt was limited")
	}

	// A different address has its own bucket.
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "198.51.100.24:40000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("other address status = %d, want 200", rec.Code)
	}
}
