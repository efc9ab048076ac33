package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/edusight/fieldcheck/internal/adapters/http/api"
	"github.com/edusight/fieldcheck/internal/adapters/identity"
	"github.com/edusight/fieldcheck/internal/adapters/seed"
	app "github.com/edusight/fieldcheck/internal/app"
	"github.com/edusight/fieldcheck/internal/config"
	"github.com/edusight/fieldcheck/internal/domain/review"
	"github.com/edusight/fieldcheck/pkg/logger"
	"github.com/edusight/fieldcheck/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Create and start the aggregator service
	opts := []app.Option{
		app.WithLogger(log),
		app.WithSubmitRequiresVerification(cfg.SubmitRequiresVerification),
	}
	if cfg.VerifiedNote != "" {
		opts = append(opts, app.WithEngine(review.NewEngine(review.WithVerifiedNote(cfg.VerifiedNote))))
	}
	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Seed the store with the mock assignment fixture
	if cfg.SeedPath != "" {
		assignments, err := seed.Load(ctx, cfg.SeedPath)
		if err != nil {
			log.Error(ctx, "failed to load seed fixture", logger.String("path", cfg.SeedPath), logger.Error(err))
			return
		}
		if err := svc.LoadAssignments(ctx, assignments); err != nil {
			log.Error(ctx, "failed to seed assignments", logger.Error(err))
			return
		}
	}

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Router and routes.
	r := chi.NewRouter()
	apiServer := api.NewServer(svc, svc, identity.NewStatic(cfg.InspectorID, cfg.InspectorName))
	apiServer.Register(ctx, r)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater starts a background goroutine that updates
// system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
