package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aoe4stats/ingestion/internal/metrics"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// ErrMissingCredentials is returned when the database URL or password is not configured
var ErrMissingCredentials = errors.New("database URL and password are both required")

// Database holds the database connection pool and provides access to repositories
type Database struct {
	Pool *pgxpool.Pool

	// Repositories
	Civilizations *CivilizationRepository
	Units         *UnitRepository
	Buildings     *BuildingRepository
	Technologies  *TechnologyRepository
	MetaStats     *MetaStatsRepository
	Leaderboard   *LeaderboardRepository
	BuildOrders   *BuildOrderRepository
	Strategies    *StrategyRepository
}

// Config holds database configuration
type Config struct {
	URL      string
	Password string
	MaxConns int32
}

// NewDatabase creates a new database connection pool and initializes repositories.
// Both URL and Password must be set; nothing is dialed otherwise.
func NewDatabase(ctx context.Context, cfg Config) (*Database, error) {
	if cfg.URL == "" || cfg.Password == "" {
		return nil, ErrMissingCredentials
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	poolConfig.ConnConfig.Password = cfg.Password

	// Supabase pooler limits are tight, keep the pool small
	poolConfig.MaxConns = 4
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().
		Str("host", poolConfig.ConnConfig.Host).
		Uint16("port", poolConfig.ConnConfig.Port).
		Str("database", poolConfig.ConnConfig.Database).
		Msg("Successfully connected to database")

	return newDatabase(pool), nil
}

func newDatabase(pool *pgxpool.Pool) *Database {
	db := &Database{
		Pool: pool,
	}

	db.Civilizations = &CivilizationRepository{db: db}
	db.Units = &UnitRepository{db: db}
	db.Buildings = &BuildingRepository{db: db}
	db.Technologies = &TechnologyRepository{db: db}
	db.MetaStats = &MetaStatsRepository{db: db}
	db.Leaderboard = &LeaderboardRepository{db: db}
	db.BuildOrders = &BuildOrderRepository{db: db}
	db.Strategies = &StrategyRepository{db: db}

	return db
}

// Close closes the database connection pool
func (db *Database) Close() {
	if db.Pool != nil {
		db.Pool.Close()
		log.Info().Msg("Database connection pool closed")
	}
}

// Health checks if the database is healthy
func (db *Database) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	return nil
}

// PoolStats returns database pool statistics
func (db *Database) PoolStats() map[string]interface{} {
	stat := db.Pool.Stat()
	return map[string]interface{}{
		"total_conns":    stat.TotalConns(),
		"acquired_conns": stat.AcquiredConns(),
		"idle_conns":     stat.IdleConns(),
		"max_conns":      stat.MaxConns(),
	}
}

// observe records query metrics for a single repository call
func observe(operation, table string, start time.Time, err error) {
	metrics.RecordDBQuery(operation, table, metrics.StatusLabel(err), time.Since(start).Seconds())
}

// sendBatch runs every queued statement inside one transaction, so a batch
// lands completely or not at all
func (db *Database) sendBatch(ctx context.Context, table string, batch *pgx.Batch) (err error) {
	start := time.Now()
	defer func() { observe("upsert", table, start, err) }()

	err = pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return err
	}

	metrics.RecordUpsertedRows(table, batch.Len())
	return nil
}
