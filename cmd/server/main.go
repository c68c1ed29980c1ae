// Package main is the entrypoint for the SlideGenius API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/slidegenius/slidegenius/internal/ai"
	"github.com/slidegenius/slidegenius/internal/api"
	"github.com/slidegenius/slidegenius/internal/api/handler"
	mw "github.com/slidegenius/slidegenius/internal/api/middleware"
	"github.com/slidegenius/slidegenius/internal/cache"
	"github.com/slidegenius/slidegenius/internal/config"
	"github.com/slidegenius/slidegenius/internal/dispatch"
	"github.com/slidegenius/slidegenius/internal/generation"
	"github.com/slidegenius/slidegenius/internal/pipeline"
	"github.com/slidegenius/slidegenius/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded",
		"ai_providers", strings.Join(cfg.AI.Providers, ","), "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Build the provider chain
	chain, err := ai.NewChainFromConfig(cfg.AI)
	if err != nil {
		return fmt.Errorf("create provider chain: %w", err)
	}
	slog.Info("provider chain initialized", "chain", chain.Name())

	// 6. Create store, pipeline runner and dispatcher
	pgStore := store.NewPostgresStore(pool)
	gen := generation.NewClient(chain, cfg.AI.GenerateTimeout)
	runner := pipeline.NewRunner(gen, pgStore, redisCache)
	dispatcher := dispatch.NewPool(runner, cfg.Dispatch.Workers, cfg.Dispatch.QueueSize)
	defer dispatcher.Close()

	// 7. Build router with dependencies
	auth := mw.NewAuth(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	rateLimit := mw.NewRateLimit(redisCache, 60)

	deps := api.Dependencies{
		Auth:      auth,
		RateLimit: rateLimit,

		HealthHandler: handler.NewHealthHandler(pgStore, redisCache),
		SignupHandler: handler.NewSignupHandler(pgStore, auth),
		LoginHandler:  handler.NewLoginHandler(pgStore, auth),

		GenerateHandler: handler.NewGenerateHandler(pgStore, redisCache, dispatcher),
		StatusHandler:   handler.NewStatusHandler(pgStore, redisCache),
		ListHandler:     handler.NewListHandler(pgStore),
		GetHandler:      handler.NewGetHandler(pgStore),
		UpdateHandler:   handler.NewUpdateHandler(pgStore),
		DeleteHandler:   handler.NewDeleteHandler(pgStore),
	}

	router := api.NewRouter(deps)

	// 8. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout; the deferred dispatcher Close drains
	// in-flight generation runs after the listener stops.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
