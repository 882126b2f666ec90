package models

import (
	"database/sql"
	"time"
)

// CivMetaStat is a civilization's performance in one leaderboard and rank tier.
// Keyed by (CivID, Leaderboard, RankLevel); every sync overwrites it wholesale.
type CivMetaStat struct {
	CivID       string    `db:"civ_id"`
	Leaderboard string    `db:"leaderboard"`
	RankLevel   string    `db:"rank_level"`
	WinRate     float64   `db:"win_rate"`
	PickRate    float64   `db:"pick_rate"`
	GamesCount  int       `db:"games_count"`
	Wins        int       `db:"wins"`
	Losses      int       `db:"losses"`
	LastUpdated time.Time `db:"last_updated"`
}

// CivMetaStatWithName adds the civilization display name from a join.
// CivName is NULL when the civilization row is missing.
type CivMetaStatWithName struct {
	CivMetaStat
	CivName sql.NullString `db:"civ_name"`
}
