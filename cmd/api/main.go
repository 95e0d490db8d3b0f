// Package main is the entry point for the temple-trust console API.
//
// It loads configuration, opens the configured catalog source (built-in
// seed, YAML file, or PostgreSQL), installs the first snapshot, optionally
// schedules background reloads, and serves the /v1 API until SIGINT or
// SIGTERM.
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

	"github.com/sony/gobreaker/v2"

	"templeadmin/internal/api/handlers"
	"templeadmin/internal/billing"
	"templeadmin/internal/catalog"
	"templeadmin/internal/config"
	"templeadmin/internal/core"
	"templeadmin/internal/db"
	"templeadmin/internal/scheduler"
)

// startupTimeout bounds migrations, pool creation and the first catalog load.
const startupTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit on error.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("templeadmin API starting",
		"environment", cfg.Environment,
		"version", cfg.Build.Version,
		"commit", cfg.Build.Commit,
		"port", cfg.Server.Port,
		"catalog_source", cfg.Catalog.Source,
	)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	srv, err := buildServer(ctx, cfg, logger)
	cancel()
	if err != nil {
		return err
	}

	return runHTTPServer(srv, cfg, logger)
}

// buildServer wires every dependency and mounts the routes. On failure any
// resource already opened is released.
func buildServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *core.Server, err error) {
	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("creating server: %w", err)
	}
	defer func() {
		if err != nil {
			_ = srv.Shutdown(context.Background())
		}
	}()

	if cfg.Database.RunMigrations {
		if err := db.Migrate(ctx, cfg.Database.URL.Unmask(), db.MigrateUp, logger); err != nil {
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	source, err := openCatalogSource(ctx, cfg, srv, logger)
	if err != nil {
		return nil, err
	}

	// Interfaces stay untyped nil when metrics are off.
	var (
		decisions billing.DecisionRecorder
		refreshes scheduler.RefreshRecorder
	)
	if cfg.Observability.EnableMetrics {
		metrics := core.NewPrometheusMetrics(cfg.Observability.MetricNamespace)
		srv.Metrics = metrics
		srv.MetricsHandler = metrics.Handler()
		decisions = metrics
		refreshes = metrics
	}

	store := catalog.NewStore(nil)
	refresher := scheduler.NewCatalogRefresher(store, source, logger, refreshes)
	if err := refresher.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	if schedule := cfg.Catalog.RefreshSchedule; schedule != "" {
		if err := refresher.Start(schedule); err != nil {
			return nil, fmt.Errorf("scheduling catalog refresh: %w", err)
		}
		srv.ShutdownHooks = append([]func(context.Context) error{refresher.Stop}, srv.ShutdownHooks...)
		logger.Info("catalog refresh scheduled", "schedule", schedule)
	}

	srv.HealthProbes = append(srv.HealthProbes, catalogHealth(store, refresher))

	plans := handlers.NewPlanHandler(store, logger)
	tenants := handlers.NewTenantHandler(store, nil, logger)
	usage := handlers.NewUsageHandler(store, srv.Validator, nil, logger)
	enforcement := handlers.NewEnforcementHandler(store, decisions, srv.Validator, logger)
	srv.V1RouteRegistrars = append(srv.V1RouteRegistrars,
		plans.RegisterRoutes,
		tenants.RegisterRoutes,
		usage.RegisterRoutes,
		enforcement.RegisterRoutes,
	)

	srv.MountRoutes()
	return srv, nil
}

// catalogHealth fails while no snapshot is installed or while the source's
// breaker is open; in the latter case requests are still answered from the
// last good snapshot, which may be stale.
func catalogHealth(store *catalog.Store, refresher *scheduler.CatalogRefresher) core.ProbeFunc {
	return core.ProbeFunc{
		ProbeName: "catalog",
		Fn: func(context.Context) error {
			c := store.Current()
			if c == nil {
				return errors.New("catalog not loaded")
			}
			if refresher.BreakerState() == gobreaker.StateOpen {
				return fmt.Errorf("catalog source unavailable, serving snapshot loaded at %s",
					c.LoadedAt().Format(time.RFC3339))
			}
			return nil
		},
	}
}

// openCatalogSource returns the configured source. For PostgreSQL it opens
// the pool, registers its health probe and closes it on shutdown.
func openCatalogSource(ctx context.Context, cfg *config.Config, srv *core.Server, logger *slog.Logger) (catalog.Source, error) {
	switch cfg.Catalog.Source {
	case config.CatalogSourceYAML:
		return catalog.YAMLSource{Path: cfg.Catalog.File}, nil
	case config.CatalogSourcePostgres:
		pool, err := db.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		srv.HealthProbes = append(srv.HealthProbes, db.PingProbe{DB: pool})
		srv.ShutdownHooks = append(srv.ShutdownHooks, func(context.Context) error {
			pool.Close()
			return nil
		})
		return db.NewCatalogRepo(pool, logger), nil
	default:
		return catalog.SeedSource{}, nil
	}
}

// runHTTPServer starts the server in standard HTTP mode with graceful shutdown.
func runHTTPServer(srv *core.Server, cfg *config.Config, logger *slog.Logger) error {
	addr := ":" + cfg.Server.Port

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)

	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			_ = srv.Shutdown(context.Background())
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server resource shutdown error", "error", err)
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped cleanly")
	return nil
}

// newLogger creates a structured slog.Logger configured for the given log level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
