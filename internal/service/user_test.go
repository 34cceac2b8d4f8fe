package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/muhammadafham46/Business-Nexus/internal/cache"
	"github.com/muhammadafham46/Business-Nexus/internal/model"
	"github.com/muhammadafham46/Business-Nexus/internal/repository/memory"
	"github.com/muhammadafham46/Business-Nexus/internal/session"
	"github.com/muhammadafham46/Business-Nexus/internal/testutil"
)

// mapCache is an in-process UserCache for read-through tests.
type mapCache struct {
	mu    sync.Mutex
	users map[int64]*model.User
	neg   map[int64]bool
	gets  int
}

func newMapCache() *mapCache {
	return &mapCache{users: map[int64]*model.User{}, neg: map[int64]bool{}}
}

func (c *mapCache) GetUser(_ context.Context, id int64) (*model.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	u, ok := c.users[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return u.Clone(), nil
}

func (c *mapCache) SetUser(_ context.Context, u *model.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[u.ID] = u.Clone()
	delete(c.neg, u.ID)
	return nil
}

func (c *mapCache) DeleteUser(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.users, id)
	delete(c.neg, id)
	return nil
}

func (c *mapCache) IsUserNegativelyCached(_ context.Context, id int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.neg[id], nil
}

func (c *mapCache) SetUserNegativeCache(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.neg[id] = true
	return nil
}

func TestUserService_List(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	a := f.register(t, "a@x.com", model.RoleInvestor)
	b := f.register(t, "b@x.com", model.RoleEntrepreneur)

	all, err := f.svc.Users.List(ctx, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("List() = %d users, %v", len(all), err)
	}

	investors, err := f.svc.Users.List(ctx, "investor")
	if err != nil {
		t.Fatalf("List(investor) error = %v", err)
	}
	if len(investors) != 1 || investors[0].ID != a.ID {
		t.Errorf("List(investor) = %v, want only %d", investors, a.ID)
	}

	entrepreneurs, _ := f.svc.Users.List(ctx, "entrepreneur")
	if len(entrepreneurs) != 1 || entrepreneurs[0].ID != b.ID {
		t.Errorf("List(entrepreneur) = %v, want only %d", entrepreneurs, b.ID)
	}

	if _, err := f.svc.Users.List(ctx, "admin"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("List(admin) error = %v, want ErrInvalidRole", err)
	}
}

func TestUserService_GetReadThrough(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := memory.New()
	mc := newMapCache()
	svc := New(Deps{Store: store, Hasher: testutil.FastHasher(), Cache: mc},
		session.NewManager(session.NewMemoryStore(), time.Hour))

	res, err := svc.Auth.Register(ctx, validRegistration())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	id := res.User.ID

	if _, err := svc.Users.Get(ctx, id); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, ok := mc.users[id]; !ok {
		t.Fatal("Get() should backfill the cache")
	}

	// Served from cache even if the store changes underneath.
	if _, err := store.UpdateUser(ctx, id, model.UserUpdate{FirstName: strPtr("Changed")}); err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}
	got, _ := svc.Users.Get(ctx, id)
	if got.FirstName != "Michael" {
		t.Errorf("FirstName = %q, want cached value", got.FirstName)
	}

	// UpdateProfile invalidates.
	if _, err := svc.Users.UpdateProfile(ctx, id, id, model.UserUpdate{Bio: strPtr("hello")}); err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	got, _ = svc.Users.Get(ctx, id)
	if got.FirstName != "Changed" || got.Bio == nil || *got.Bio != "hello" {
		t.Errorf("Get() after update = %+v", got)
	}

	// Missing ids are negatively cached.
	if _, err := svc.Users.Get(ctx, 999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Get(999) error = %v, want ErrUserNotFound", err)
	}
	if !mc.neg[999] {
		t.Error("Get(999) should set a negative entry")
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	u := f.register(t, "lisa@medtech.io", model.RoleEntrepreneur)
	other := f.register(t, "other@x.com", model.RoleInvestor)

	updated, err := f.svc.Users.UpdateProfile(ctx, u.ID, u.ID, model.UserUpdate{
		FirstName:  strPtr("  Lisa "),
		Company:    strPtr("MedTech Innovations"),
		Industries: &[]string{"Healthcare", "AI"},
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.FirstName != "Lisa" {
		t.Errorf("FirstName = %q, want trimmed", updated.FirstName)
	}
	if updated.Email != u.Email || updated.Role != u.Role {
		t.Error("email and role must not change")
	}

	cleared, err := f.svc.Users.UpdateProfile(ctx, u.ID, u.ID, model.UserUpdate{Company: strPtr("")})
	if err != nil {
		t.Fatalf("UpdateProfile(clear) error = %v", err)
	}
	if cleared.Company != nil {
		t.Errorf("Company = %q, want nil after clearing", *cleared.Company)
	}
	if len(cleared.Industries) != 2 {
		t.Errorf("Industries = %v, want untouched", cleared.Industries)
	}

	noop, err := f.svc.Users.UpdateProfile(ctx, u.ID, u.ID, model.UserUpdate{})
	if err != nil || noop.ID != u.ID {
		t.Errorf("empty UpdateProfile() = %v, %v", noop, err)
	}

	if _, err := f.svc.Users.UpdateProfile(ctx, other.ID, u.ID, model.UserUpdate{Bio: strPtr("x")}); !errors.Is(err, ErrForbidden) {
		t.Errorf("UpdateProfile(other) error = %v, want ErrForbidden", err)
	}

	if _, err := f.svc.Users.UpdateProfile(ctx, 999, 999, model.UserUpdate{Bio: strPtr("x")}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("UpdateProfile(999) error = %v, want ErrUserNotFound", err)
	}
}

func TestUserService_Summaries(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	a := f.register(t, "a@x.com", model.RoleInvestor)
	b := f.register(t, "b@x.com", model.RoleEntrepreneur)

	got, err := f.svc.Users.Summaries(context.Background(), []int64{a.ID, b.ID, a.ID, 404})
	if err != nil {
		t.Fatalf("Summaries() error = %v", err)
	}
	if len(got) != 2 || got[a.ID] == nil || got[b.ID] == nil {
		t.Errorf("Summaries() = %v", got)
	}
}
