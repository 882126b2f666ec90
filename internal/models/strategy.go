package models

import (
	"database/sql"
	"time"
)

// StrategyAnalysis is a written matchup analysis. OpponentCivID is NULL for general advice.
type StrategyAnalysis struct {
	ID            int64          `db:"id"`
	CivID         string         `db:"civ_id"`
	OpponentCivID sql.NullString `db:"opponent_civ_id"`
	Title         string         `db:"title"`
	Content       string         `db:"content"`
	CreatedAt     time.Time      `db:"created_at"`
}
