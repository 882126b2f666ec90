package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const entitySeed = `
INSERT INTO civilizations (id, name) VALUES ('english', 'English'), ('french', 'French');
INSERT INTO base_units (id, name, description, type, icon_url) VALUES
  ('spearman', 'Spearman', 'Anti-cavalry infantry', 'unit', 'https://aoe4world.com/img/units/spearman.png'),
  ('longbowman', 'Longbowman', 'Long range archer', 'unit', 'https://aoe4world.com/img/units/longbowman.png');
INSERT INTO base_buildings (id, name, description, type, icon_url) VALUES
  ('barracks', 'Barracks', '', 'building', 'https://aoe4world.com/img/buildings/barracks.png'),
  ('council-hall', 'Council Hall', '', 'building', 'https://aoe4world.com/img/buildings/council-hall.png');
INSERT INTO base_technologies (id, name, description, type, icon_url) VALUES
  ('wheelbarrow', 'Wheelbarrow', '', 'technology', 'https://aoe4world.com/img/technologies/wheelbarrow.png'),
  ('network-of-citadels', 'Network of Citadels', '', 'technology', 'https://aoe4world.com/img/technologies/network-of-citadels.png');
INSERT INTO civ_units (civ_id, unit_id, unique_to_civ, age, cost_food, cost_wood, cost_stone, cost_gold, build_time, hitpoints, movement_speed) VALUES
  ('english', 'spearman', false, 1, 60, 20, 0, 0, 15, 80, 1.25),
  ('english', 'longbowman', true, 2, 40, 50, 0, 0, 15, 70, 1.25),
  ('french', 'spearman', false, 1, 60, 20, 0, 0, 15, 80, 1.25);
INSERT INTO civ_buildings (civ_id, building_id, unique_to_civ, age, cost_food, cost_wood, cost_stone, cost_gold, build_time, hitpoints) VALUES
  ('english', 'barracks', false, 1, 0, 150, 0, 0, 50, 1500),
  ('english', 'council-hall', true, 2, 0, 300, 0, 0, 120, 3000);
INSERT INTO civ_technologies (civ_id, technology_id, unique_to_civ, age, cost_food, cost_wood, cost_stone, cost_gold, research_time) VALUES
  ('english', 'wheelbarrow', false, NULL, 50, 150, 0, 0, 30),
  ('english', 'network-of-citadels', true, 3, 0, 0, 0, 400, 60);
`

func TestEntityRepositories_Views(t *testing.T) {
	db, ctx := setupTestDB(t)
	_, err := db.ExecRaw(ctx, entitySeed)
	require.NoError(t, err, "Should seed entities")

	units, err := db.Units.ListForCiv(ctx, "english")
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "Spearman", units[0].UnitName, "Should be ordered by age")
	assert.Equal(t, "English", units[0].CivName)
	assert.Equal(t, 1.25, units[0].MovementSpeed)

	unique, err := db.Units.ListUniqueForCiv(ctx, "english")
	require.NoError(t, err)
	require.Len(t, unique, 1)
	assert.Equal(t, "longbowman", unique[0].UnitID)

	buildings, err := db.Buildings.ListForCiv(ctx, "english")
	require.NoError(t, err)
	assert.Len(t, buildings, 2)

	uniqueBuildings, err := db.Buildings.ListUniqueForCiv(ctx, "english")
	require.NoError(t, err)
	require.Len(t, uniqueBuildings, 1)
	assert.Equal(t, 3000, uniqueBuildings[0].Hitpoints)

	techs, err := db.Technologies.ListForCiv(ctx, "english")
	require.NoError(t, err)
	require.Len(t, techs, 2)
	assert.False(t, techs[0].Age.Valid, "Tech without an age should scan as NULL")
	assert.Equal(t, int32(3), techs[1].Age.Int32)

	uniqueTechs, err := db.Technologies.ListUniqueForCiv(ctx, "english")
	require.NoError(t, err)
	require.Len(t, uniqueTechs, 1)
	assert.Equal(t, 400, uniqueTechs[0].CostGold)

	none, err := db.Units.ListForCiv(ctx, "mongols")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUnitRepository_Compare(t *testing.T) {
	db, ctx := setupTestDB(t)
	_, err := db.ExecRaw(ctx, entitySeed)
	require.NoError(t, err)

	rows, err := db.Units.Compare(ctx, "spearman")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "English", rows[0].CivName)
	assert.Equal(t, "French", rows[1].CivName)
	assert.Equal(t, "Spearman", rows[1].UnitName)
	assert.Equal(t, 60, rows[1].CostFood)
}
