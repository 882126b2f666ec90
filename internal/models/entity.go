package models

import "database/sql"

// Entity type tags stored in base_* tables
const (
	EntityTypeUnit       = "unit"
	EntityTypeBuilding   = "building"
	EntityTypeTechnology = "technology"
)

// BaseEntity is a unit, building or technology independent of any civilization
type BaseEntity struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Type        string `db:"type"`
	IconURL     string `db:"icon_url"`
}

// CivUnit is a row of v_civ_units_full
type CivUnit struct {
	ID            int64   `db:"id"`
	CivID         string  `db:"civ_id"`
	CivName       string  `db:"civ_name"`
	UnitID        string  `db:"unit_id"`
	UnitName      string  `db:"unit_name"`
	Description   string  `db:"description"`
	IconURL       string  `db:"icon_url"`
	UniqueToCiv   bool    `db:"unique_to_civ"`
	Age           int     `db:"age"`
	CostFood      int     `db:"cost_food"`
	CostWood      int     `db:"cost_wood"`
	CostStone     int     `db:"cost_stone"`
	CostGold      int     `db:"cost_gold"`
	BuildTime     float64 `db:"build_time"`
	Hitpoints     int     `db:"hitpoints"`
	MovementSpeed float64 `db:"movement_speed"`
}

// CivBuilding is a row of v_civ_buildings_full
type CivBuilding struct {
	ID           int64   `db:"id"`
	CivID        string  `db:"civ_id"`
	CivName      string  `db:"civ_name"`
	BuildingID   string  `db:"building_id"`
	BuildingName string  `db:"building_name"`
	Description  string  `db:"description"`
	IconURL      string  `db:"icon_url"`
	UniqueToCiv  bool    `db:"unique_to_civ"`
	Age          int     `db:"age"`
	CostFood     int     `db:"cost_food"`
	CostWood     int     `db:"cost_wood"`
	CostStone    int     `db:"cost_stone"`
	CostGold     int     `db:"cost_gold"`
	BuildTime    float64 `db:"build_time"`
	Hitpoints    int     `db:"hitpoints"`
}

// CivTechnology is a row of v_civ_technologies_full. Age is NULL for techs
// available from any age.
type CivTechnology struct {
	ID             int64         `db:"id"`
	CivID          string        `db:"civ_id"`
	CivName        string        `db:"civ_name"`
	TechnologyID   string        `db:"technology_id"`
	TechnologyName string        `db:"technology_name"`
	Description    string        `db:"description"`
	IconURL        string        `db:"icon_url"`
	UniqueToCiv    bool          `db:"unique_to_civ"`
	Age            sql.NullInt32 `db:"age"`
	CostFood       int           `db:"cost_food"`
	CostWood       int           `db:"cost_wood"`
	CostStone      int           `db:"cost_stone"`
	CostGold       int           `db:"cost_gold"`
	ResearchTime   float64       `db:"research_time"`
}

// UnitComparison is one civilization's variant of a unit, for cross-civ comparison
type UnitComparison struct {
	CivID         string  `db:"civ_id"`
	CivName       string  `db:"civ_name"`
	UnitID        string  `db:"unit_id"`
	UnitName      string  `db:"unit_name"`
	UniqueToCiv   bool    `db:"unique_to_civ"`
	Age           int     `db:"age"`
	CostFood      int     `db:"cost_food"`
	CostWood      int     `db:"cost_wood"`
	CostStone     int     `db:"cost_stone"`
	CostGold      int     `db:"cost_gold"`
	BuildTime     float64 `db:"build_time"`
	Hitpoints     int     `db:"hitpoints"`
	MovementSpeed float64 `db:"movement_speed"`
}
