package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitStore is a Redis-backed alternative to the in-memory bucket map
// for deployments running more than one replica. It counts requests per key
// in fixed windows: the first hit creates the counter with the window TTL,
// so Redis evicts idle keys on its own.
// Key format: ratelimit:<client_key>
type RateLimitStore struct {
	client   *redis.Client
	capacity int64
	window   time.Duration
}

// NewRateLimitStore creates a RateLimitStore allowing capacity requests per
// window for each key.
func NewRateLimitStore(client *redis.Client, capacity int, window time.Duration) *RateLimitStore {
	if capacity <= 0 {
		capacity = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimitStore{client: client, capacity: int64(capacity), window: window}
}

// Allow increments the counter for key and reports whether it is still
// within capacity for the current window.
func (s *RateLimitStore) Allow(ctx context.Context, key string) (bool, error) {
	k := "ratelimit:" + key

	n, err := s.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("ratelimit incr: %w", err)
	}
	if n == 1 {
		if err := s.client.Expire(ctx, k, s.window).Err(); err != nil {
			return false, fmt.Errorf("ratelimit expire: %w", err)
		}
	}
	return n <= s.capacity, nil
}
