// Package cache provides the Redis access layer: sessions, profile cache
// and rate limiting.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

// ConnectTimeout bounds how long New keeps retrying the first ping.
var ConnectTimeout = 15 * time.Second

// Cache wraps the Redis client shared by sessions, the profile cache, rate
// limiting and the activity stream.
type Cache struct {
	client *redis.Client
}

// New connects to redisURL. The first ping is retried with exponential
// backoff so the API can start while Redis is still coming up.
func New(ctx context.Context, redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// The activity worker holds one connection in a blocking XREADGROUP.
	opt.PoolSize = 12
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = ConnectTimeout
	ping := func() error {
		return client.Ping(ctx).Err()
	}
	if err := backoff.Retry(ping, backoff.WithContext(bo, ctx)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Ping reports whether Redis answers; readiness uses it.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}

// Client exposes the raw client to the event publisher, activity feed and
// worker, which speak streams and lists directly.
func (c *Cache) Client() *redis.Client {
	return c.client
}
