// Package main is the entrypoint for the agent-assist API server.
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
	"github.com/valarama/costco-agent-assist/internal/ai"
	"github.com/valarama/costco-agent-assist/internal/api"
	"github.com/valarama/costco-agent-assist/internal/api/handler"
	mw "github.com/valarama/costco-agent-assist/internal/api/middleware"
	"github.com/valarama/costco-agent-assist/internal/api/response"
	"github.com/valarama/costco-agent-assist/internal/cache"
	"github.com/valarama/costco-agent-assist/internal/config"
	"github.com/valarama/costco-agent-assist/internal/metrics"
	"github.com/valarama/costco-agent-assist/internal/objectstore"
	"github.com/valarama/costco-agent-assist/internal/store"
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
	// 1. Load config — fail fast on invalid config. A missing .env file is
	// fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "ai_provider", cfg.AI.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to the warehouse
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

	// 5. Open the transcript bucket
	bucket, err := objectstore.NewGCSStore(ctx, cfg.Storage.Bucket)
	if err != nil {
		return fmt.Errorf("open transcript bucket: %w", err)
	}
	defer bucket.Close()
	slog.Info("transcript bucket opened", "bucket", cfg.Storage.Bucket)

	// 6. Create AI provider and suggestion service
	aiProvider, err := ai.NewProvider(ctx, cfg.AI)
	if err != nil {
		return fmt.Errorf("create AI provider: %w", err)
	}
	slog.Info("AI provider initialized", "provider", aiProvider.Name())

	m := metrics.New()
	aiService := ai.NewService(aiProvider, m, cfg.AI.InferenceTimeout)

	// 7. Create store
	pgStore := store.NewPostgresStore(pool, m)

	// 8. Build router with dependencies
	prefix := cfg.Storage.TranscriptPrefix
	deps := api.Dependencies{
		RateLimit: mw.NewRateLimit(redisCache, cfg.RateLimit.RequestsPerMin),
		Metrics:   m,

		HealthHandler:        healthHandler(pgStore, redisCache),
		DashboardHandler:     handler.NewDashboardHandler(pgStore),
		TrendsHandler:        handler.NewTrendsHandler(pgStore),
		ListLeadsHandler:     handler.NewListLeadsHandler(pgStore),
		UpdateLeadHandler:    handler.NewUpdateLeadHandler(pgStore),
		ExportHandler:        handler.NewExportHandler(pgStore),
		ChatbotHandler:       handler.NewChatbotHandler(aiService),
		ConversationsHandler: handler.NewConversationsHandler(bucket, prefix),
		LatestSessionHandler: handler.NewLatestSessionHandler(bucket, prefix),
		TranscriptHandler:    handler.NewTranscriptHandler(bucket, prefix, aiService),
	}

	router := api.NewRouter(deps)

	// 9. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks warehouse and cache connectivity.
func healthHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		if checks["database"] != "ok" || checks["cache"] != "ok" {
			response.JSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":   "degraded",
				"services": checks,
			})
			return
		}

		response.JSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
