package repository

import (
	"context"
	"fmt"
	"time"

	"aoe4stats/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
)

// QueryRaw runs an arbitrary query and returns each row as a column name to value map
func (db *Database) QueryRaw(ctx context.Context, sql string, args ...any) (out []map[string]any, err error) {
	start := time.Now()
	defer func() { observe("raw_query", "raw", start, err) }()

	rows, err := db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute raw query: %w", err)
	}

	out, err = pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("failed to collect raw query rows: %w", err)
	}

	return out, nil
}

// ExecRaw runs an arbitrary statement and returns the affected row count.
// Without arguments the simple protocol is used, which allows multi-statement scripts.
func (db *Database) ExecRaw(ctx context.Context, sql string, args ...any) (_ int64, err error) {
	start := time.Now()
	defer func() { observe("raw_exec", "raw", start, err) }()

	if len(args) == 0 {
		args = []any{pgx.QueryExecModeSimpleProtocol}
	}

	tag, err := db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute raw statement: %w", err)
	}

	return tag.RowsAffected(), nil
}

// UpsertCivMetaStats writes a batch of meta stats
func (db *Database) UpsertCivMetaStats(ctx context.Context, stats []*models.CivMetaStat) error {
	return db.MetaStats.UpsertMany(ctx, stats)
}

// UpsertLeaderboardPlayers writes a batch of leaderboard players
func (db *Database) UpsertLeaderboardPlayers(ctx context.Context, players []*models.LeaderboardPlayer) error {
	return db.Leaderboard.UpsertMany(ctx, players)
}
