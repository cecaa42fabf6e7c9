package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/cydea/vulnbank/internal/api"
	"github.com/cydea/vulnbank/internal/core/ports"
	"github.com/cydea/vulnbank/internal/infrastructure/config"
	mongodb "github.com/cydea/vulnbank/internal/infrastructure/db/mongo"
	"github.com/cydea/vulnbank/internal/infrastructure/db/redis"
	"github.com/cydea/vulnbank/internal/infrastructure/queue"
	"github.com/cydea/vulnbank/internal/ratelimit"
	"github.com/cydea/vulnbank/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(shutdownCtx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}
	if err := mongodb.Seed(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}

	// --- Redis (required only for the distributed rate-limit store) ---
	var rdb *goredis.Client
	rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		if cfg.RateLimit.Store == "redis" {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		log.Warn().Err(err).Msg("redis unavailable, readiness will report it")
		rdb = nil
	}

	// --- Rate-limit store ---
	var rateStore ratelimit.Store
	if cfg.RateLimit.Store == "redis" {
		rateStore = redis.NewRateLimitStore(rdb, cfg.RateLimit.Capacity, cfg.RateLimit.Window)
	} else {
		limiter := ratelimit.NewLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Window)
		defer limiter.Close()
		rateStore = limiter
	}

	// --- Security audit trail ---
	var audit ports.AuditSink
	dispatcher := queue.NewDispatcher(0, mongodb.NewAuditRepository(db), logger.For("audit"))
	dispatcher.Start(ctx)
	audit = dispatcher

	e := api.NewRouter(api.Deps{
		Mongo:     db,
		Redis:     rdb,
		Config:    cfg,
		Logger:    log,
		RateStore: rateStore,
		Audit:     audit,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("vulnbank API listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
