//go:build integration

package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/muhammadafham46/Business-Nexus/internal/cache"
	"github.com/muhammadafham46/Business-Nexus/internal/model"
	"github.com/muhammadafham46/Business-Nexus/internal/session"
	"github.com/muhammadafham46/Business-Nexus/internal/testutil"
)

func newCache(t *testing.T) *cache.Cache {
	t.Helper()
	url := testutil.RequireEnv(t, "REDIS_URL")

	ctx := context.Background()
	c, err := cache.New(ctx, url)
	if err != nil {
		t.Fatalf("cache.New() error = %v", err)
	}
	if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
		t.Fatalf("FlushRedis() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSessionStore_RoundTrip(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	mgr := session.NewManager(cache.NewSessionStore(c), time.Hour)
	token, sess, err := mgr.Start(ctx, 7)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	got, err := mgr.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.ID != sess.ID || got.UserID != 7 {
		t.Errorf("Resolve() = %+v, want %+v", got, sess)
	}

	if err := mgr.End(ctx, token); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if _, err := mgr.Resolve(ctx, token); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Resolve() after End error = %v, want ErrNotFound", err)
	}
}

func TestUserCache(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	if _, err := c.GetUser(ctx, 1); !errors.Is(err, cache.ErrCacheMiss) {
		t.Fatalf("GetUser() error = %v, want ErrCacheMiss", err)
	}

	company := "Acme"
	user := &model.User{
		ID:           1,
		Email:        "a@example.com",
		PasswordHash: "secret-hash",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Role:         model.RoleEntrepreneur,
		Company:      &company,
		Industries:   []string{"AI"},
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}

	if err := c.SetUserNegativeCache(ctx, 1); err != nil {
		t.Fatalf("SetUserNegativeCache() error = %v", err)
	}
	if neg, _ := c.IsUserNegativelyCached(ctx, 1); !neg {
		t.Fatal("expected negative cache entry")
	}

	if err := c.SetUser(ctx, user); err != nil {
		t.Fatalf("SetUser() error = %v", err)
	}
	if neg, _ := c.IsUserNegativelyCached(ctx, 1); neg {
		t.Error("SetUser() should clear the negative entry")
	}

	got, err := c.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if got.PasswordHash != "" {
		t.Error("cached user must not carry the password hash")
	}
	if got.Company == nil || *got.Company != "Acme" || got.FullName() != "Ada Lovelace" {
		t.Errorf("GetUser() = %+v", got)
	}

	if err := c.DeleteUser(ctx, 1); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	if _, err := c.GetUser(ctx, 1); !errors.Is(err, cache.ErrCacheMiss) {
		t.Errorf("GetUser() after delete error = %v, want ErrCacheMiss", err)
	}
}

func TestRateLimit_Burst(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := c.CheckIPRateLimit(ctx, "auth", "10.0.0.1", 1, 3)
		if err != nil {
			t.Fatalf("CheckIPRateLimit() error = %v", err)
		}
		if !res.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	res, err := c.CheckIPRateLimit(ctx, "auth", "10.0.0.1", 1, 3)
	if err != nil {
		t.Fatalf("CheckIPRateLimit() error = %v", err)
	}
	if res.Allowed {
		t.Error("request beyond burst should be rejected")
	}
	if res.RetryAfter <= 0 {
		t.Errorf("RetryAfter = %v, want > 0", res.RetryAfter)
	}

	other, _ := c.CheckUserRateLimit(ctx, 1, 1, 3)
	if !other.Allowed {
		t.Error("user bucket is independent of the IP bucket")
	}
}
