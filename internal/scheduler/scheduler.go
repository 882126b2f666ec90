package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aoe4stats/ingestion/internal/config"
	"aoe4stats/ingestion/internal/lock"
	"aoe4stats/ingestion/internal/metrics"
	syncsvc "aoe4stats/ingestion/internal/sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LockKey is shared by every worker replica
const LockKey = "aoe4:sync:lock"

// Runner executes one sync run
type Runner interface {
	Run(ctx context.Context, mode, leaderboard string, count int) (*syncsvc.FullSyncResult, error)
}

// Scheduler runs the nightly full sync and the hourly quick sync.
// Overlapping runs are skipped, both within this process and across
// processes sharing the same Locker.
type Scheduler struct {
	cfg    *config.Config
	runner Runner
	locker lock.Locker
	cron   *cron.Cron
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg *config.Config, runner Runner, locker lock.Locker) *Scheduler {
	logger := cronLogger{log.Logger.With().Str("component", "scheduler").Logger()}
	return &Scheduler{
		cfg:    cfg,
		runner: runner,
		locker: locker,
		cron:   cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
	}
}

// Start registers the sync jobs and starts the cron scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	jobs := []struct {
		spec string
		mode string
	}{
		{s.cfg.FullSyncCron, syncsvc.ModeFull},
		{s.cfg.QuickSyncCron, syncsvc.ModeQuick},
	}

	for _, job := range jobs {
		mode := job.mode
		if _, err := s.cron.AddFunc(job.spec, func() { s.runJob(ctx, mode) }); err != nil {
			return fmt.Errorf("failed to schedule %s sync: %w", mode, err)
		}
		log.Info().
			Str("mode", mode).
			Str("schedule", job.spec).
			Msg("Sync scheduled")
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish or ctx to expire
func (s *Scheduler) Stop(ctx context.Context) {
	log.Info().Msg("Stopping scheduler...")

	select {
	case <-s.cron.Stop().Done():
		log.Info().Msg("Scheduler stopped")
	case <-ctx.Done():
		log.Warn().Msg("Scheduler stop timed out with a sync still running")
	}
}

// RunNow runs one sync immediately under the same lock as the scheduled jobs
func (s *Scheduler) RunNow(ctx context.Context, mode string) {
	s.runJob(ctx, mode)
}

// runJob runs one sync under the distributed lock
func (s *Scheduler) runJob(ctx context.Context, mode string) {
	handle, err := s.locker.Acquire(ctx, LockKey, s.cfg.SyncLockTTL)
	if errors.Is(err, lock.ErrNotAcquired) {
		metrics.RecordLockContention()
		log.Warn().Str("mode", mode).Msg("Another sync holds the lock, skipping")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("mode", mode).Msg("Failed to acquire sync lock")
		return
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := handle.Release(releaseCtx); err != nil {
			log.Error().Err(err).Msg("Failed to release sync lock")
		}
	}()

	start := time.Now()
	_, err = s.runner.Run(ctx, mode, "", 0)
	metrics.RecordSyncRun(mode, metrics.StatusLabel(err), time.Since(start).Seconds())
	if err != nil {
		log.Error().Err(err).Str("mode", mode).Msg("Scheduled sync failed")
	}
}

// cronLogger adapts zerolog to cron.Logger
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
