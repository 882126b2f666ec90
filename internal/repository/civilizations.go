package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aoe4stats/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// CivilizationRepository handles civilization database operations
type CivilizationRepository struct {
	db *Database
}

const civilizationColumns = `id, name, description, overview, created_at`

// List retrieves all civilizations ordered by name
func (r *CivilizationRepository) List(ctx context.Context) (civs []*models.Civilization, err error) {
	start := time.Now()
	defer func() { observe("select", "civilizations", start, err) }()

	query := `SELECT ` + civilizationColumns + ` FROM civilizations ORDER BY name`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list civilizations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var civ models.Civilization
		if err := rows.Scan(&civ.ID, &civ.Name, &civ.Description, &civ.Overview, &civ.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan civilization: %w", err)
		}
		civs = append(civs, &civ)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating civilizations: %w", err)
	}

	return civs, nil
}

// GetByID retrieves a civilization by its canonical id. Returns nil, nil when absent.
func (r *CivilizationRepository) GetByID(ctx context.Context, id string) (_ *models.Civilization, err error) {
	start := time.Now()
	defer func() { observe("select", "civilizations", start, err) }()

	query := `SELECT ` + civilizationColumns + ` FROM civilizations WHERE id = $1`

	var civ models.Civilization
	err = r.db.Pool.QueryRow(ctx, query, id).Scan(
		&civ.ID, &civ.Name, &civ.Description, &civ.Overview, &civ.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get civilization %s: %w", id, err)
	}

	return &civ, nil
}

// Insert creates a civilization, failing if the id already exists
func (r *CivilizationRepository) Insert(ctx context.Context, civ *models.Civilization) error {
	start := time.Now()
	query := `
		INSERT INTO civilizations (id, name, description, overview)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.db.Pool.QueryRow(ctx, query, civ.ID, civ.Name, civ.Description, civ.Overview).Scan(&civ.CreatedAt)
	observe("insert", "civilizations", start, err)
	if err != nil {
		return fmt.Errorf("failed to insert civilization %s: %w", civ.ID, err)
	}

	return nil
}

// UpsertMany inserts or updates civilizations in one transaction
func (r *CivilizationRepository) UpsertMany(ctx context.Context, civs []*models.Civilization) error {
	if len(civs) == 0 {
		return nil
	}

	query := `
		INSERT INTO civilizations (id, name, description, overview)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			overview = EXCLUDED.overview
	`

	batch := &pgx.Batch{}
	for _, civ := range civs {
		batch.Queue(query, civ.ID, civ.Name, civ.Description, civ.Overview)
	}

	if err := r.db.sendBatch(ctx, "civilizations", batch); err != nil {
		return fmt.Errorf("failed to upsert civilizations: %w", err)
	}

	log.Debug().Int("count", len(civs)).Msg("Upserted civilizations")
	return nil
}
