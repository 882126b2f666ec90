package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"aoe4stats/ingestion/internal/config"
	"aoe4stats/ingestion/internal/lock"
	"aoe4stats/ingestion/internal/metrics"
	syncsvc "aoe4stats/ingestion/internal/sync"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu    sync.Mutex
	modes []string
	err   error
}

func (r *fakeRunner) Run(_ context.Context, mode, _ string, _ int) (*syncsvc.FullSyncResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modes = append(r.modes, mode)
	if r.err != nil {
		return nil, r.err
	}
	return &syncsvc.FullSyncResult{Mode: mode}, nil
}

type failingLocker struct{}

func (failingLocker) Acquire(context.Context, string, time.Duration) (lock.Handle, error) {
	return nil, errors.New("redis down")
}

func testConfig() *config.Config {
	return &config.Config{
		FullSyncCron:  "0 3 * * *",
		QuickSyncCron: "0 * * * *",
		SyncLockTTL:   time.Minute,
	}
}

func TestRunJob_RunsAndReleasesLock(t *testing.T) {
	runner := &fakeRunner{}
	locker := lock.NewLocalLocker()
	s := NewScheduler(testConfig(), runner, locker)

	s.runJob(context.Background(), syncsvc.ModeQuick)
	s.runJob(context.Background(), syncsvc.ModeFull)

	assert.Equal(t, []string{syncsvc.ModeQuick, syncsvc.ModeFull}, runner.modes)

	h, err := locker.Acquire(context.Background(), LockKey, time.Minute)
	require.NoError(t, err, "Lock must be released after the run")
	require.NoError(t, h.Release(context.Background()))
}

func TestRunJob_SkipsWhenLockHeld(t *testing.T) {
	runner := &fakeRunner{}
	locker := lock.NewLocalLocker()
	s := NewScheduler(testConfig(), runner, locker)

	h, err := locker.Acquire(context.Background(), LockKey, time.Minute)
	require.NoError(t, err)
	defer h.Release(context.Background())

	s.runJob(context.Background(), syncsvc.ModeFull)

	assert.Empty(t, runner.modes)
}

func TestRunJob_LockErrorSkipsRun(t *testing.T) {
	runner := &fakeRunner{}
	s := NewScheduler(testConfig(), runner, failingLocker{})

	s.runJob(context.Background(), syncsvc.ModeQuick)

	assert.Empty(t, runner.modes)
}

func TestRunJob_RunErrorStillReleasesLock(t *testing.T) {
	runner := &fakeRunner{err: errors.New("api down")}
	locker := lock.NewLocalLocker()
	s := NewScheduler(testConfig(), runner, locker)

	s.runJob(context.Background(), syncsvc.ModeQuick)

	h, err := locker.Acquire(context.Background(), LockKey, time.Minute)
	require.NoError(t, err)
	require.NoError(t, h.Release(context.Background()))
}

func TestStart_RegistersBothJobs(t *testing.T) {
	s := NewScheduler(testConfig(), &fakeRunner{}, lock.NewLocalLocker())

	require.NoError(t, s.Start(context.Background()))
	assert.Len(t, s.cron.Entries(), 2)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

func TestStart_InvalidCronSpec(t *testing.T) {
	cfg := testConfig()
	cfg.QuickSyncCron = "every hour"
	s := NewScheduler(cfg, &fakeRunner{}, lock.NewLocalLocker())

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quick")
}

func TestRunNow_UsesLock(t *testing.T) {
	runner := &fakeRunner{}
	locker := lock.NewLocalLocker()
	s := NewScheduler(testConfig(), runner, locker)

	s.RunNow(context.Background(), syncsvc.ModeQuick)
	assert.Equal(t, []string{syncsvc.ModeQuick}, runner.modes)

	h, err := locker.Acquire(context.Background(), LockKey, time.Minute)
	require.NoError(t, err)
	defer h.Release(context.Background())

	s.RunNow(context.Background(), syncsvc.ModeQuick)
	assert.Len(t, runner.modes, 1, "Held lock skips the run")
}

func TestRunJob_RecordsRunMetricByMode(t *testing.T) {
	s := NewScheduler(testConfig(), &fakeRunner{}, lock.NewLocalLocker())
	runsBefore := testutil.ToFloat64(metrics.SyncRunsTotal.WithLabelValues(syncsvc.ModeQuick, metrics.StatusSuccess))
	opsBefore := testutil.ToFloat64(metrics.SyncOperationsTotal.WithLabelValues(syncsvc.ModeQuick, metrics.StatusSuccess))

	s.runJob(context.Background(), syncsvc.ModeQuick)

	assert.Equal(t, runsBefore+1, testutil.ToFloat64(metrics.SyncRunsTotal.WithLabelValues(syncsvc.ModeQuick, metrics.StatusSuccess)))
	assert.Equal(t, opsBefore, testutil.ToFloat64(metrics.SyncOperationsTotal.WithLabelValues(syncsvc.ModeQuick, metrics.StatusSuccess)),
		"Run modes are not mixed into the per-operation counter")
}
