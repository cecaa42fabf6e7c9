package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT       JWTConfig
	RateLimit RateLimitConfig
	Mongo     MongoConfig
	Redis     RedisConfig
}

// JWTConfig is consumed as-is by the token service; the secret has no
// default and must be provided by the environment.
type JWTConfig struct {
	Secret   string        `env:"JWT_SECRET"`
	TTL      time.Duration `env:"JWT_TTL,      default=1h"`
	Issuer   string        `env:"JWT_ISSUER,   default=vulnbank-api"`
	Audience string        `env:"JWT_AUDIENCE, default=vulnbank-clients"`
}

type RateLimitConfig struct {
	Capacity int           `env:"RATE_LIMIT_CAPACITY, default=10"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW,   default=1m"`
	// Store selects the bucket backend: "memory" (single instance) or
	// "redis" (shared across replicas).
	Store string `env:"RATE_LIMIT_STORE, default=memory"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=vulnbank"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}
	return &cfg, nil
}
