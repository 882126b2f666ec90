package repository

import (
	"context"
	"fmt"
	"time"

	"aoe4stats/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// MetaStatsRepository handles civilization meta statistic database operations
type MetaStatsRepository struct {
	db *Database
}

// UpsertMany inserts or overwrites meta stats keyed by (civ_id, leaderboard, rank_level).
// The whole slice is written in a single transaction.
func (r *MetaStatsRepository) UpsertMany(ctx context.Context, stats []*models.CivMetaStat) error {
	if len(stats) == 0 {
		return nil
	}

	query := `
		INSERT INTO civilization_meta_stats (
			civ_id, leaderboard, rank_level, win_rate, pick_rate,
			games_count, wins, losses, last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (civ_id, leaderboard, rank_level) DO UPDATE SET
			win_rate = EXCLUDED.win_rate,
			pick_rate = EXCLUDED.pick_rate,
			games_count = EXCLUDED.games_count,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			last_updated = EXCLUDED.last_updated
	`

	batch := &pgx.Batch{}
	for _, s := range stats {
		batch.Queue(query,
			s.CivID, s.Leaderboard, s.RankLevel, s.WinRate, s.PickRate,
			s.GamesCount, s.Wins, s.Losses, s.LastUpdated,
		)
	}

	if err := r.db.sendBatch(ctx, "civilization_meta_stats", batch); err != nil {
		return fmt.Errorf("failed to upsert civ meta stats: %w", err)
	}

	log.Debug().Int("count", len(stats)).Msg("Upserted civ meta stats")
	return nil
}

// List retrieves meta stats for a leaderboard and rank tier with civilization names,
// best win rate first
func (r *MetaStatsRepository) List(ctx context.Context, leaderboard, rankLevel string) ([]*models.CivMetaStatWithName, error) {
	return r.list(ctx, leaderboard, rankLevel, 0)
}

// TopByWinRate retrieves the limit civilizations with the highest win rate
func (r *MetaStatsRepository) TopByWinRate(ctx context.Context, leaderboard, rankLevel string, limit int) ([]*models.CivMetaStatWithName, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	return r.list(ctx, leaderboard, rankLevel, limit)
}

func (r *MetaStatsRepository) list(ctx context.Context, leaderboard, rankLevel string, limit int) (stats []*models.CivMetaStatWithName, err error) {
	start := time.Now()
	defer func() { observe("select", "civilization_meta_stats", start, err) }()

	query := `
		SELECT m.civ_id, m.leaderboard, m.rank_level, m.win_rate, m.pick_rate,
		       m.games_count, m.wins, m.losses, m.last_updated, c.name
		FROM civilization_meta_stats m
		LEFT JOIN civilizations c ON c.id = m.civ_id
		WHERE m.leaderboard = $1 AND m.rank_level = $2
		ORDER BY m.win_rate DESC, m.civ_id
	`
	args := []any{leaderboard, rankLevel}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get civ meta stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.CivMetaStatWithName
		err := rows.Scan(
			&s.CivID, &s.Leaderboard, &s.RankLevel, &s.WinRate, &s.PickRate,
			&s.GamesCount, &s.Wins, &s.Losses, &s.LastUpdated, &s.CivName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan civ meta stat: %w", err)
		}
		stats = append(stats, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating civ meta stats: %w", err)
	}

	return stats, nil
}
