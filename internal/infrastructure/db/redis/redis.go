package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Config holds the connection settings for the shared rate-limit backend.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Connect opens a Redis client and verifies it answers a ping before
// handing it out. Callers that treat Redis as optional can downgrade the
// returned error to a warning.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connect %s: %w", cfg.Addr, err)
	}
	return client, nil
}
