package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the aoe4 stats ingestion

// Sync status labels
const (
	StatusSuccess = "success"
	StatusError   = "error"
	// StatusPartial means some inputs were skipped after fetch errors
	StatusPartial = "partial"
	// StatusSkipped means every input was skipped after fetch errors
	StatusSkipped = "skipped"
)

var (
	// API Call metrics
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aoe4_api_calls_total",
			Help: "Total number of AoE4 World API calls",
		},
		[]string{"endpoint", "status"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aoe4_api_call_duration_seconds",
			Help:    "Duration of API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	RateLimitWaitSeconds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aoe4_api_rate_limit_wait_seconds_total",
			Help: "Total time spent sleeping in the API rate limiter",
		},
	)

	// Database metrics
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aoe4_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "table", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aoe4_db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBRowsUpserted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aoe4_db_rows_upserted_total",
			Help: "Total number of rows written by upsert batches",
		},
		[]string{"table"},
	)

	// Sync metrics
	SyncOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aoe4_sync_operations_total",
			Help: "Total number of sync operations",
		},
		[]string{"type", "status"},
	)

	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aoe4_sync_duration_seconds",
			Help:    "Duration of sync operations in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"type"},
	)

	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aoe4_sync_runs_total",
			Help: "Total number of scheduled sync runs by mode",
		},
		[]string{"mode", "status"},
	)

	SyncRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aoe4_sync_run_duration_seconds",
			Help:    "Duration of scheduled sync runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"mode"},
	)

	SyncSkippedPairs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aoe4_sync_skipped_pairs_total",
			Help: "Leaderboard/rank pairs skipped after a fetch error",
		},
		[]string{"leaderboard", "rank_level"},
	)

	SyncLockContention = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aoe4_sync_lock_contention_total",
			Help: "Syncs skipped because another run held the lock",
		},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aoe4_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)

	LastSuccessfulSync = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aoe4_last_successful_sync_timestamp",
			Help: "Timestamp of last successful sync operation",
		},
	)
)

// RecordAPICall records an API call metric
func RecordAPICall(endpoint, status string, duration float64) {
	APICallsTotal.WithLabelValues(endpoint, status).Inc()
	APICallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordRateLimitWait records time spent waiting before a request
func RecordRateLimitWait(seconds float64) {
	RateLimitWaitSeconds.Add(seconds)
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table, status string, duration float64) {
	DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration)
}

// RecordUpsertedRows adds to the upserted row counter for a table
func RecordUpsertedRows(table string, rows int) {
	DBRowsUpserted.WithLabelValues(table).Add(float64(rows))
}

// RecordSync records a sync operation. LastSuccessfulSync only advances when
// at least one input was fetched.
func RecordSync(syncType, status string, duration float64) {
	SyncOperationsTotal.WithLabelValues(syncType, status).Inc()
	SyncDuration.WithLabelValues(syncType).Observe(duration)

	if status == StatusSuccess || status == StatusPartial {
		LastSuccessfulSync.SetToCurrentTime()
	}
}

// RecordSyncRun records one scheduled run of a sync mode
func RecordSyncRun(mode, status string, duration float64) {
	SyncRunsTotal.WithLabelValues(mode, status).Inc()
	SyncRunDuration.WithLabelValues(mode).Observe(duration)
}

// RecordSkippedPair records a (leaderboard, rank) pair dropped from a sync
func RecordSkippedPair(leaderboard, rankLevel string) {
	SyncSkippedPairs.WithLabelValues(leaderboard, rankLevel).Inc()
}

// RecordLockContention records a sync skipped because the run lock was held
func RecordLockContention() {
	SyncLockContention.Inc()
}

// StatusLabel maps an error to the status label used across metrics
func StatusLabel(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
