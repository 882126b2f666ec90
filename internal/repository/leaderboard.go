package repository

import (
	"context"
	"fmt"
	"time"

	"aoe4stats/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// LeaderboardRepository handles leaderboard player database operations
type LeaderboardRepository struct {
	db *Database
}

// UpsertMany inserts or overwrites players keyed by (player_id, leaderboard) in one transaction
func (r *LeaderboardRepository) UpsertMany(ctx context.Context, players []*models.LeaderboardPlayer) error {
	if len(players) == 0 {
		return nil
	}

	query := `
		INSERT INTO leaderboard_players (
			player_id, leaderboard, player_name, rank, rating,
			games_count, wins, losses, win_rate, last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (player_id, leaderboard) DO UPDATE SET
			player_name = EXCLUDED.player_name,
			rank = EXCLUDED.rank,
			rating = EXCLUDED.rating,
			games_count = EXCLUDED.games_count,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			win_rate = EXCLUDED.win_rate,
			last_updated = EXCLUDED.last_updated
	`

	batch := &pgx.Batch{}
	for _, p := range players {
		batch.Queue(query,
			p.PlayerID, p.Leaderboard, p.PlayerName, p.Rank, p.Rating,
			p.GamesCount, p.Wins, p.Losses, p.WinRate, p.LastUpdated,
		)
	}

	if err := r.db.sendBatch(ctx, "leaderboard_players", batch); err != nil {
		return fmt.Errorf("failed to upsert leaderboard players: %w", err)
	}

	log.Debug().Int("count", len(players)).Msg("Upserted leaderboard players")
	return nil
}

// List retrieves the top limit players of a leaderboard ordered by rank
func (r *LeaderboardRepository) List(ctx context.Context, leaderboard string, limit int) (players []*models.LeaderboardPlayer, err error) {
	start := time.Now()
	defer func() { observe("select", "leaderboard_players", start, err) }()

	query := `
		SELECT player_id, leaderboard, player_name, rank, rating,
		       games_count, wins, losses, win_rate, last_updated
		FROM leaderboard_players
		WHERE leaderboard = $1
		ORDER BY rank
		LIMIT $2
	`

	rows, err := r.db.Pool.Query(ctx, query, leaderboard, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.LeaderboardPlayer
		err := rows.Scan(
			&p.PlayerID, &p.Leaderboard, &p.PlayerName, &p.Rank, &p.Rating,
			&p.GamesCount, &p.Wins, &p.Losses, &p.WinRate, &p.LastUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard player: %w", err)
		}
		players = append(players, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard players: %w", err)
	}

	return players, nil
}
