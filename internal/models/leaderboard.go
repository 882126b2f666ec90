package models

import "time"

// LeaderboardPlayer is a player's standing on one leaderboard, keyed by (PlayerID, Leaderboard)
type LeaderboardPlayer struct {
	PlayerID    int64     `db:"player_id"`
	Leaderboard string    `db:"leaderboard"`
	PlayerName  string    `db:"player_name"`
	Rank        int       `db:"rank"`
	Rating      int       `db:"rating"`
	GamesCount  int       `db:"games_count"`
	Wins        int       `db:"wins"`
	Losses      int       `db:"losses"`
	WinRate     float64   `db:"win_rate"`
	LastUpdated time.Time `db:"last_updated"`
}
