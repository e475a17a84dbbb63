package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hongminglow/learnhub-be/internal/auth"
	"github.com/hongminglow/learnhub-be/internal/cache"
	"github.com/hongminglow/learnhub-be/internal/config"
	"github.com/hongminglow/learnhub-be/internal/logging"
	"github.com/hongminglow/learnhub-be/internal/seed"
	"github.com/hongminglow/learnhub-be/internal/server"
	"github.com/hongminglow/learnhub-be/internal/service"
	"github.com/hongminglow/learnhub-be/internal/storage"
	"github.com/hongminglow/learnhub-be/internal/storage/memory"
	"github.com/hongminglow/learnhub-be/internal/storage/postgres"
	"github.com/hongminglow/learnhub-be/internal/telemetry"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(os.Stdout, cfg.LogLevel, cfg.IsProduction())
	slog.SetDefault(log.Slog())
	ctx := context.Background()
	if envErr != nil {
		log.Debug(ctx, "no .env file found; relying on existing environment")
	}

	shutdownTelemetry := telemetry.Setup(ctx, "learnhub-backend", cfg.ServiceVersion, log)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "init storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	redis := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer redis.Close()
	if !redis.Enabled() {
		log.Warn(ctx, "REDIS_ADDR not set; logout will not revoke tokens")
	} else if err := redis.Ping(ctx); err != nil {
		log.Warn(ctx, "redis unreachable; revocation list fails open", "addr", cfg.RedisAddr, "error", err)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	srv := server.New(cfg, server.Deps{
		Store:     store,
		Cache:     redis,
		Auth:      service.NewAuthService(store, tokens, auth.NewRedisDenylist(redis), log),
		Content:   service.NewContentService(store, log),
		Log:       log,
		StartedAt: time.Now(),
	})

	go func() {
		log.Info(ctx, "learnhub backend listening", "addr", cfg.HTTPAddress(), "env", cfg.Env, "storage", cfg.StorageDriver)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Error(ctx, "graceful shutdown error", "error", err)
	}
}

// openStore picks the storage driver. The memory driver is seeded on start so
// a local server has content to show.
func openStore(ctx context.Context, cfg config.Config, log logging.Logger) (storage.Store, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		store := memory.NewStore()
		res, err := seed.Run(ctx, store)
		if err != nil {
			return nil, fmt.Errorf("seed memory store: %w", err)
		}
		log.Info(ctx, "memory store seeded", "courses", res.Courses, "tutorials", res.Tutorials, "discussions", res.Discussions)
		return store, nil
	default:
		store, err := postgres.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}
