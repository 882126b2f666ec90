package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aoe4stats/ingestion/internal/config"
	"aoe4stats/ingestion/internal/lock"
	"aoe4stats/ingestion/internal/metrics"
	"aoe4stats/ingestion/internal/repository"
	"aoe4stats/ingestion/internal/scheduler"
	syncsvc "aoe4stats/ingestion/internal/sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var workerSyncOnStart bool

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run scheduled syncs until interrupted",
	Long: `Run the full sync nightly and the quick sync hourly (FULL_SYNC_CRON,
QUICK_SYNC_CRON). Runs are serialized by a Redis lock when REDIS_HOST is
set, so several workers may share one database.`,
	RunE: runWorker,
}

func init() {
	workerCmd.Flags().BoolVar(&workerSyncOnStart, "sync-on-start", false, "Run a quick sync immediately after startup")
	RootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	log.Info().Msg("Starting AoE4 stats ingestion worker")

	// Create context that listens for cancellation
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info().Msg("Database connection established")

	svc, err := newSyncService(cfg, db)
	if err != nil {
		return err
	}

	locker := newLocker(ctx, cfg)

	if cfg.EnableMetrics {
		srv := startMetricsServer(cfg.MetricsPort, db)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// Update system uptime metric
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
			case <-ctx.Done():
				return
			}
		}
	}()

	sched := scheduler.NewScheduler(cfg, svc, locker)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	if workerSyncOnStart {
		log.Info().Msg("Running initial quick sync...")
		sched.RunNow(ctx, syncsvc.ModeQuick)
	}

	// Keep running until context is cancelled
	<-ctx.Done()
	log.Info().Msg("Received shutdown signal, gracefully shutting down...")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	sched.Stop(stopCtx)

	log.Info().Msg("Worker shutdown complete")
	return nil
}

// newLocker connects to Redis when configured and falls back to an
// in-process lock otherwise
func newLocker(ctx context.Context, cfg *config.Config) lock.Locker {
	if !cfg.RedisEnabled() {
		log.Info().Msg("REDIS_HOST not set, using in-process sync lock")
		return lock.NewLocalLocker()
	}

	redisLock, err := lock.NewRedisLocker(ctx, lock.Config{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis - continuing with in-process lock")
		return lock.NewLocalLocker()
	}

	go func() {
		<-ctx.Done()
		_ = redisLock.Close()
	}()
	return redisLock
}

// startMetricsServer starts the Prometheus metrics HTTP server
func startMetricsServer(port int, db *repository.Database) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Health(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Int("port", port).Msg("Starting metrics server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Metrics server failed")
		}
	}()

	return srv
}
