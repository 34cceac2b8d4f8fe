package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/muhammadafham46/Business-Nexus/internal/cache"
	"github.com/muhammadafham46/Business-Nexus/internal/model"
	"github.com/muhammadafham46/Business-Nexus/internal/repository"
)

// UserService handles directory and profile logic.
type UserService struct {
	store  repository.UserStore
	cache  UserCache
	logger *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(deps Deps) *UserService {
	deps = deps.withDefaults()
	return &UserService{
		store:  deps.Store,
		cache:  deps.Cache,
		logger: deps.Logger.With("component", "service.user"),
	}
}

// List returns the directory, optionally filtered by role.
func (s *UserService) List(ctx context.Context, role string) ([]*model.User, error) {
	if role == "" {
		return s.store.ListUsers(ctx)
	}

	r, err := ValidateRole(role)
	if err != nil {
		return nil, err
	}
	return s.store.ListUsersByRole(ctx, r)
}

// Get retrieves a profile by id, reading through the cache when present.
func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	if s.cache == nil {
		return s.load(ctx, id)
	}

	// Step 1: Try cache
	cached, err := s.cache.GetUser(ctx, id)
	if err == nil {
		return cached, nil
	}

	// Step 2: Check negative cache
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("user cache read failed", "user_id", id, "error", err)
	} else if neg, _ := s.cache.IsUserNegativelyCached(ctx, id); neg {
		return nil, ErrUserNotFound
	}

	// Step 3: Store lookup
	user, err := s.load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			_ = s.cache.SetUserNegativeCache(ctx, id)
		}
		return nil, err
	}

	// Step 4: Backfill cache
	if err := s.cache.SetUser(ctx, user); err != nil {
		s.logger.Warn("user cache write failed", "user_id", id, "error", err)
	}

	return user, nil
}

func (s *UserService) load(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Exists reports whether id names a user. Used to validate targets.
func (s *UserService) Exists(ctx context.Context, id int64) error {
	_, err := s.Get(ctx, id)
	return err
}

// Summaries loads the users behind ids, keyed by id. Unknown ids are absent.
func (s *UserService) Summaries(ctx context.Context, ids []int64) (map[int64]*model.User, error) {
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			unique = append(unique, id)
		}
	}

	users, err := s.store.ListUsersByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	out := make(map[int64]*model.User, len(users))
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// UpdateProfile applies a partial edit to the actor's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, actorID, userID int64, upd model.UserUpdate) (*model.User, error) {
	if actorID != userID {
		return nil, ErrForbidden
	}
	if err := ValidateProfile(upd); err != nil {
		return nil, err
	}

	if upd.FirstName != nil {
		v := strings.TrimSpace(*upd.FirstName)
		upd.FirstName = &v
	}
	if upd.LastName != nil {
		v := strings.TrimSpace(*upd.LastName)
		upd.LastName = &v
	}

	if upd.IsEmpty() {
		return s.load(ctx, userID)
	}

	user, err := s.store.UpdateUser(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	// Invalidate cache
	if s.cache != nil {
		if err := s.cache.DeleteUser(ctx, userID); err != nil {
			s.logger.Warn("user cache invalidation failed", "user_id", userID, "error", err)
		}
	}

	s.logger.Info("profile updated", "user_id", userID)
	return user, nil
}
