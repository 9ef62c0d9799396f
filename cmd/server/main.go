// Package main is the entrypoint for the jobpilot gateway.
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

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/dallenport/jobpilot/internal/api"
	"github.com/dallenport/jobpilot/internal/api/handler"
	mw "github.com/dallenport/jobpilot/internal/api/middleware"
	"github.com/dallenport/jobpilot/internal/api/response"
	"github.com/dallenport/jobpilot/internal/cache"
	"github.com/dallenport/jobpilot/internal/config"
	"github.com/dallenport/jobpilot/internal/orchestrator"
	"github.com/dallenport/jobpilot/internal/portal"
	"github.com/dallenport/jobpilot/internal/session"
	"github.com/dallenport/jobpilot/internal/store"
)

const (
	shutdownTimeout = 30 * time.Second
	sweepInterval   = 5 * time.Minute
)

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
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "env", cfg.Server.Env, "history_enabled", cfg.HistoryEnabled())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect the optional application-history ledger
	var ledger store.Store
	var history orchestrator.HistoryRecorder
	if cfg.HistoryEnabled() {
		pool, err := store.Connect(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()

		if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		slog.Info("database connected, migrations applied")

		pg := store.NewPostgresStore(pool)
		ledger = pg
		history = pg
	}

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

	// 4. Portal client
	portalClient := portal.NewHTTPClient(cfg.Portal.BaseURL, cfg.Portal.Timeout)

	// 5. Session manager
	sessions := session.NewManager(func(id uuid.UUID) *orchestrator.Orchestrator {
		return orchestrator.New(id, portalClient, history, cfg.Session.DefaultJobCount)
	}, cfg.Session.MaxIdle)

	go sweepSessions(ctx, sessions)

	// 6. Build router with dependencies
	deps := api.Dependencies{
		Auth:      mw.NewAuth(sessions),
		RateLimit: mw.NewRateLimit(redisCache, cfg.Redis.RequestsPerMinute),

		HealthHandler: healthHandler(redisCache, ledger, portalClient),
		LoginHandler:  handler.NewLoginHandler(portalClient, sessions),

		UploadDocuments: handler.NewUploadDocumentsHandler(),
		ListJobs:        handler.NewListJobsHandler(),
		RefreshJobs:     handler.NewRefreshJobsHandler(),
		SetJobCount:     handler.NewJobCountHandler(),
		ToggleSelection: handler.NewToggleSelectionHandler(),
		ApplySelected:   handler.NewApplySelectedHandler(),
		ApplyAll:        handler.NewApplyAllHandler(),
		ApplyOne:        handler.NewApplyOneHandler(),
		RejectJob:       handler.NewRejectJobHandler(),

		ListApplications: handler.NewListApplicationsHandler(),
		History:          handler.NewHistoryHandler(ledger),
	}

	router := api.NewRouter(deps)

	// 7. Start HTTP server
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

// sweepSessions periodically drops idle sessions.
func sweepSessions(ctx context.Context, sessions *session.Manager) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.SweepIdle(); n > 0 {
				slog.Info("idle sessions swept", "removed", n, "remaining", sessions.Len())
			}
		}
	}
}

// healthHandler checks redis, portal, and (when configured) database
// connectivity. The ledger being absent is not a degradation.
func healthHandler(c cache.Cache, ledger store.Store, p portal.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"cache":  "ok",
			"portal": "ok",
		}

		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}
		if err := p.Ready(r.Context()); err != nil {
			checks["portal"] = "degraded"
		}
		if ledger != nil {
			checks["database"] = "ok"
			if err := ledger.Ping(r.Context()); err != nil {
				checks["database"] = "degraded"
			}
		}

		degraded := false
		for _, status := range checks {
			if status != "ok" {
				degraded = true
			}
		}
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
