package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"aoe4stats/ingestion/internal/models"
)

// StrategyRepository handles strategy analysis database operations
type StrategyRepository struct {
	db *Database
}

// Create inserts a strategy analysis and fills in its generated id and created_at
func (r *StrategyRepository) Create(ctx context.Context, sa *models.StrategyAnalysis) (err error) {
	start := time.Now()
	defer func() { observe("insert", "strategy_analysis", start, err) }()

	query := `
		INSERT INTO strategy_analysis (civ_id, opponent_civ_id, title, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err = r.db.Pool.QueryRow(ctx, query, sa.CivID, sa.OpponentCivID, sa.Title, sa.Content).
		Scan(&sa.ID, &sa.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create strategy analysis: %w", err)
	}

	return nil
}

// List retrieves strategy analyses, newest first. Empty civID or opponentCivID
// leaves that filter off.
func (r *StrategyRepository) List(ctx context.Context, civID, opponentCivID string) ([]*models.StrategyAnalysis, error) {
	var (
		conds []string
		args  []any
	)
	if civID != "" {
		args = append(args, civID)
		conds = append(conds, "civ_id = $"+strconv.Itoa(len(args)))
	}
	if opponentCivID != "" {
		args = append(args, opponentCivID)
		conds = append(conds, "opponent_civ_id = $"+strconv.Itoa(len(args)))
	}

	query := `SELECT id, civ_id, opponent_civ_id, title, content, created_at FROM strategy_analysis`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`

	analyses, err := collect[models.StrategyAnalysis](ctx, r.db, "strategy_analysis", query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get strategy analyses: %w", err)
	}

	return analyses, nil
}
