// Package main is the entrypoint for the field visit planner API server.
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

	"github.com/kiranshivaraju/fieldplanner/internal/ai"
	"github.com/kiranshivaraju/fieldplanner/internal/api"
	"github.com/kiranshivaraju/fieldplanner/internal/api/handler"
	mw "github.com/kiranshivaraju/fieldplanner/internal/api/middleware"
	"github.com/kiranshivaraju/fieldplanner/internal/api/response"
	"github.com/kiranshivaraju/fieldplanner/internal/cache"
	"github.com/kiranshivaraju/fieldplanner/internal/config"
	"github.com/kiranshivaraju/fieldplanner/internal/schedule"
	"github.com/kiranshivaraju/fieldplanner/internal/store"
	"github.com/kiranshivaraju/fieldplanner/internal/travel"
	"github.com/kiranshivaraju/fieldplanner/internal/worksheet"
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
	// 1. Load config, failing fast when invalid
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded",
		"ai_provider", cfg.AI.Provider,
		"store_driver", cfg.Store.Driver,
		"env", cfg.Server.Env,
	)

	sched := schedulerFromConfig(cfg.Schedule)
	if err := sched.Validate(); err != nil {
		return fmt.Errorf("invalid slot settings: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Open the worksheet repository
	repo, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close()
	slog.Info("repository ready", "driver", cfg.Store.Driver)

	// 3. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 4. Create AI provider
	aiProvider, err := ai.NewProvider(cfg.AI)
	if err != nil {
		return fmt.Errorf("create AI provider: %w", err)
	}
	slog.Info("AI provider initialized", "provider", aiProvider.Name())

	// 5. Build services
	extractor := ai.NewExtractionService(aiProvider, sched, cfg.AI.InferenceTimeout(), cfg.AI.MaxImageDimension)
	travelClient := travel.NewHTTPClient(cfg.Travel)
	estimator := travel.NewEstimator(travelClient, travelClient, redisCache, cfg.Redis.EstimateTTL, cfg.Travel.MapsBaseURL)
	sheets := worksheet.NewService(repo)

	// 6. Build router with dependencies
	auth := mw.NewAuth(cfg.Auth.TokenHash)
	if !auth.Enabled() {
		slog.Warn("API_TOKEN_HASH not set, requests are not authenticated")
	}
	rateLimit := mw.NewRateLimit(redisCache, cfg.Auth.RequestsPerMin)

	deps := api.Dependencies{
		Auth:      auth,
		RateLimit: rateLimit,

		HealthHandler: healthHandler(repo, redisCache),

		ExtractHandler: handler.NewExtractHandler(extractor),
		ParseHandler:   handler.NewParseHandler(sched),

		SlotChoicesHandler:  handler.NewSlotChoicesHandler(sched),
		InitialSlotsHandler: handler.NewInitialSlotsHandler(sched),
		ReviseSlotHandler:   handler.NewReviseSlotHandler(sched),

		EstimateHandler:        handler.NewEstimateHandler(estimator),
		ReverseGeocodeHandler:  handler.NewReverseGeocodeHandler(estimator),
		WorksheetTravelHandler: handler.NewWorksheetTravelHandler(sheets, estimator),

		SaveWorksheetHandler:   handler.NewSaveWorksheetHandler(sheets),
		ListWorksheetsHandler:  handler.NewListWorksheetsHandler(sheets),
		GetWorksheetHandler:    handler.NewGetWorksheetHandler(sheets),
		DeleteWorksheetHandler: handler.NewDeleteWorksheetHandler(sheets),
		UpdateJobHandler:       handler.NewUpdateJobHandler(sheets),
		UpdateCommentHandler:   handler.NewUpdateCommentHandler(sheets),
		ExportWorksheetHandler: handler.NewExportWorksheetHandler(sheets),
		ListMessagesHandler:    handler.NewListMessagesHandler(sheets),
		GetMessagesHandler:     handler.NewGetMessagesHandler(sheets),
	}

	router := api.NewRouter(deps)

	// 7. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AI.InferenceTimeout() + 30*time.Second,
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

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// openRepository connects the configured backend. Postgres migrations are
// applied before the store is returned.
func openRepository(ctx context.Context, cfg *config.Config) (store.Repository, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		repo, err := store.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return repo, nil
	default:
		pool, err := store.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := store.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		slog.Info("database migrations applied")
		return store.NewPostgresStore(pool), nil
	}
}

func schedulerFromConfig(c config.ScheduleConfig) schedule.Scheduler {
	s := schedule.Default()
	s.FirstStart = c.FirstStart
	s.FirstEnd = c.FirstEnd
	s.SequenceStart = c.SequenceStart
	s.Duration = c.Duration
	return s
}

// healthHandler checks repository and cache connectivity.
func healthHandler(repo store.Repository, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := repo.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		degraded := checks["database"] != "ok" || checks["cache"] != "ok"
		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
