package repository

import (
	"context"
	"fmt"
	"time"

	"aoe4stats/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
)

// collect runs a query and scans every row into T by column name
func collect[T any](ctx context.Context, db *Database, table, query string, args ...any) (out []*T, err error) {
	start := time.Now()
	defer func() { observe("select", table, start, err) }()

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[T])
}

// UnitRepository reads civilization units through v_civ_units_full
type UnitRepository struct {
	db *Database
}

const civUnitColumns = `
	id, civ_id, civ_name, unit_id, unit_name, description, icon_url, unique_to_civ, age,
	cost_food, cost_wood, cost_stone, cost_gold, build_time, hitpoints, movement_speed
`

// ListForCiv retrieves every unit available to a civilization
func (r *UnitRepository) ListForCiv(ctx context.Context, civID string) ([]*models.CivUnit, error) {
	query := `SELECT ` + civUnitColumns + ` FROM v_civ_units_full WHERE civ_id = $1 ORDER BY age, unit_name`

	units, err := collect[models.CivUnit](ctx, r.db, "v_civ_units_full", query, civID)
	if err != nil {
		return nil, fmt.Errorf("failed to get units for civ %s: %w", civID, err)
	}

	return units, nil
}

// ListUniqueForCiv retrieves units only the given civilization has
func (r *UnitRepository) ListUniqueForCiv(ctx context.Context, civID string) ([]*models.CivUnit, error) {
	query := `SELECT ` + civUnitColumns + ` FROM v_civ_units_full
		WHERE civ_id = $1 AND unique_to_civ = TRUE
		ORDER BY age, unit_name`

	units, err := collect[models.CivUnit](ctx, r.db, "v_civ_units_full", query, civID)
	if err != nil {
		return nil, fmt.Errorf("failed to get unique units for civ %s: %w", civID, err)
	}

	return units, nil
}

// Compare retrieves one unit's variant for every civilization that fields it
func (r *UnitRepository) Compare(ctx context.Context, unitID string) ([]*models.UnitComparison, error) {
	query := `
		SELECT cu.civ_id, c.name AS civ_name, cu.unit_id, bu.name AS unit_name,
		       cu.unique_to_civ, cu.age,
		       cu.cost_food, cu.cost_wood, cu.cost_stone, cu.cost_gold,
		       cu.build_time, cu.hitpoints, cu.movement_speed
		FROM civ_units cu
		JOIN civilizations c ON c.id = cu.civ_id
		JOIN base_units bu ON bu.id = cu.unit_id
		WHERE cu.unit_id = $1
		ORDER BY c.name
	`

	rows, err := collect[models.UnitComparison](ctx, r.db, "civ_units", query, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to compare unit %s: %w", unitID, err)
	}

	return rows, nil
}

// BuildingRepository reads civilization buildings through v_civ_buildings_full
type BuildingRepository struct {
	db *Database
}

const civBuildingColumns = `
	id, civ_id, civ_name, building_id, building_name, description, icon_url, unique_to_civ, age,
	cost_food, cost_wood, cost_stone, cost_gold, build_time, hitpoints
`

// ListForCiv retrieves every building available to a civilization
func (r *BuildingRepository) ListForCiv(ctx context.Context, civID string) ([]*models.CivBuilding, error) {
	query := `SELECT ` + civBuildingColumns + ` FROM v_civ_buildings_full WHERE civ_id = $1 ORDER BY age, building_name`

	buildings, err := collect[models.CivBuilding](ctx, r.db, "v_civ_buildings_full", query, civID)
	if err != nil {
		return nil, fmt.Errorf("failed to get buildings for civ %s: %w", civID, err)
	}

	return buildings, nil
}

// ListUniqueForCiv retrieves buildings only the given civilization has
func (r *BuildingRepository) ListUniqueForCiv(ctx context.Context, civID string) ([]*models.CivBuilding, error) {
	query := `SELECT ` + civBuildingColumns + ` FROM v_civ_buildings_full
		WHERE civ_id = $1 AND unique_to_civ = TRUE
		ORDER BY age, building_name`

	buildings, err := collect[models.CivBuilding](ctx, r.db, "v_civ_buildings_full", query, civID)
	if err != nil {
		return nil, fmt.Errorf("failed to get unique buildings for civ %s: %w", civID, err)
	}

	return buildings, nil
}

// TechnologyRepository reads civilization technologies through v_civ_technologies_full
type TechnologyRepository struct {
	db *Database
}

const civTechnologyColumns = `
	id, civ_id, civ_name, technology_id, technology_name, description, icon_url, unique_to_civ, age,
	cost_food, cost_wood, cost_stone, cost_gold, research_time
`

// ListForCiv retrieves every technology available to a civilization
func (r *TechnologyRepository) ListForCiv(ctx context.Context, civID string) ([]*models.CivTechnology, error) {
	query := `SELECT ` + civTechnologyColumns + ` FROM v_civ_technologies_full
		WHERE civ_id = $1
		ORDER BY age NULLS FIRST, technology_name`

	techs, err := collect[models.CivTechnology](ctx, r.db, "v_civ_technologies_full", query, civID)
	if err != nil {
		return nil, fmt.Errorf("failed to get technologies for civ %s: %w", civID, err)
	}

	return techs, nil
}

// ListUniqueForCiv retrieves technologies only the given civilization can research
func (r *TechnologyRepository) ListUniqueForCiv(ctx context.Context, civID string) ([]*models.CivTechnology, error) {
	query := `SELECT ` + civTechnologyColumns + ` FROM v_civ_technologies_full
		WHERE civ_id = $1 AND unique_to_civ = TRUE
		ORDER BY age NULLS FIRST, technology_name`

	techs, err := collect[models.CivTechnology](ctx, r.db, "v_civ_technologies_full", query, civID)
	if err != nil {
		return nil, fmt.Errorf("failed to get unique technologies for civ %s: %w", civID, err)
	}

	return techs, nil
}
