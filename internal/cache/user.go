package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/muhammadafham46/Business-Nexus/internal/model"
)

const (
	// userCachePrefix is the Redis key prefix for cached profiles.
	userCachePrefix = "user:"
	// userNegCachePrefix marks ids known not to exist.
	userNegCachePrefix = "user:neg:"
	// userCacheTTL is the time-to-live for cached profiles.
	userCacheTTL = 10 * time.Minute
	// userNegCacheTTL is short so fresh registrations show up quickly.
	userNegCacheTTL = 30 * time.Second
)

// ErrCacheMiss indicates the key was not found in cache.
var ErrCacheMiss = errors.New("cache miss")

// cachedUser is the cached profile. Unlike model.User it keeps the
// password hash out of JSON entirely, so it is not stored either.
type cachedUser struct {
	ID              int64      `json:"id"`
	Email           string     `json:"email"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	Role            model.Role `json:"role"`
	Avatar          *string    `json:"avatar,omitempty"`
	Bio             *string    `json:"bio,omitempty"`
	Company         *string    `json:"company,omitempty"`
	Title           *string    `json:"title,omitempty"`
	Location        *string    `json:"location,omitempty"`
	Website         *string    `json:"website,omitempty"`
	LinkedIn        *string    `json:"linkedin,omitempty"`
	Industries      []string   `json:"industries"`
	InvestmentRange *string    `json:"investmentRange,omitempty"`
	PortfolioSize   *int       `json:"portfolioSize,omitempty"`
	FundingNeed     *string    `json:"fundingNeed,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func userKey(id int64) string {
	return userCachePrefix + strconv.FormatInt(id, 10)
}

func userNegKey(id int64) string {
	return userNegCachePrefix + strconv.FormatInt(id, 10)
}

// GetUser retrieves a cached profile. The returned user has no password hash.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetUser(ctx context.Context, id int64) (*model.User, error) {
	data, err := c.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	var cu cachedUser
	if err := json.Unmarshal(data, &cu); err != nil {
		// Corrupted entry, treat as miss
		return nil, ErrCacheMiss
	}

	return &model.User{
		ID:              cu.ID,
		Email:           cu.Email,
		FirstName:       cu.FirstName,
		LastName:        cu.LastName,
		Role:            cu.Role,
		Avatar:          cu.Avatar,
		Bio:             cu.Bio,
		Company:         cu.Company,
		Title:           cu.Title,
		Location:        cu.Location,
		Website:         cu.Website,
		LinkedIn:        cu.LinkedIn,
		Industries:      cu.Industries,
		InvestmentRange: cu.InvestmentRange,
		PortfolioSize:   cu.PortfolioSize,
		FundingNeed:     cu.FundingNeed,
		CreatedAt:       cu.CreatedAt,
	}, nil
}

// SetUser caches a profile and clears any negative entry for its id.
func (c *Cache) SetUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(cachedUser{
		ID:              user.ID,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Role:            user.Role,
		Avatar:          user.Avatar,
		Bio:             user.Bio,
		Company:         user.Company,
		Title:           user.Title,
		Location:        user.Location,
		Website:         user.Website,
		LinkedIn:        user.LinkedIn,
		Industries:      user.Industries,
		InvestmentRange: user.InvestmentRange,
		PortfolioSize:   user.PortfolioSize,
		FundingNeed:     user.FundingNeed,
		CreatedAt:       user.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, userKey(user.ID), data, userCacheTTL)
	pipe.Del(ctx, userNegKey(user.ID))
	_, err = pipe.Exec(ctx)
	return err
}

// DeleteUser removes a cached profile.
// Used after a profile update.
func (c *Cache) DeleteUser(ctx context.Context, id int64) error {
	return c.client.Del(ctx, userKey(id), userNegKey(id)).Err()
}

// IsUserNegativelyCached checks whether id is known not to exist.
func (c *Cache) IsUserNegativelyCached(ctx context.Context, id int64) (bool, error) {
	exists, err := c.client.Exists(ctx, userNegKey(id)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// SetUserNegativeCache records that id does not exist.
func (c *Cache) SetUserNegativeCache(ctx context.Context, id int64) error {
	return c.client.Set(ctx, userNegKey(id), "1", userNegCacheTTL).Err()
}
