package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aoe4stats/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
)

// BuildOrderRepository handles build order database operations
type BuildOrderRepository struct {
	db *Database
}

// Create inserts a build order and fills in its generated id and created_at
func (r *BuildOrderRepository) Create(ctx context.Context, bo *models.BuildOrder) (err error) {
	start := time.Now()
	defer func() { observe("insert", "build_orders", start, err) }()

	steps := bo.Steps
	if len(steps) == 0 {
		steps = []byte("[]")
	}

	query := `
		INSERT INTO build_orders (civ_id, name, description, steps)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err = r.db.Pool.QueryRow(ctx, query, bo.CivID, bo.Name, bo.Description, steps).
		Scan(&bo.ID, &bo.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create build order: %w", err)
	}

	bo.Steps = steps
	return nil
}

// ListForCiv retrieves a civilization's build orders, newest first
func (r *BuildOrderRepository) ListForCiv(ctx context.Context, civID string) ([]*models.BuildOrder, error) {
	query := `
		SELECT id, civ_id, name, description, steps, created_at
		FROM build_orders
		WHERE civ_id = $1
		ORDER BY created_at DESC, id DESC
	`

	orders, err := collect[models.BuildOrder](ctx, r.db, "build_orders", query, civID)
	if err != nil {
		return nil, fmt.Errorf("failed to get build orders for civ %s: %w", civID, err)
	}

	return orders, nil
}

// GetByID retrieves a build order. Returns nil, nil when absent.
func (r *BuildOrderRepository) GetByID(ctx context.Context, id int64) (_ *models.BuildOrder, err error) {
	start := time.Now()
	defer func() { observe("select", "build_orders", start, err) }()

	query := `
		SELECT id, civ_id, name, description, steps, created_at
		FROM build_orders
		WHERE id = $1
	`

	var bo models.BuildOrder
	err = r.db.Pool.QueryRow(ctx, query, id).Scan(
		&bo.ID, &bo.CivID, &bo.Name, &bo.Description, &bo.Steps, &bo.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get build order %d: %w", id, err)
	}

	return &bo, nil
}
