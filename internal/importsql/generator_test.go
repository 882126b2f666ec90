package importsql

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func seedDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, dir, "civilizations/english.json", `{"name": "English", "description": "Longbows and farms", "overview": "Defensive"}`)
	writeFile(t, dir, "civilizations/jeannedarc.json", `{"name": "Jeanne", "description": "A hero's journey", "overview": [{"title": "x"}]}`)
	writeFile(t, dir, "civilizations/new-civ.json", `{"name": "Newcomers"}`)

	writeFile(t, dir, "units/english-unified.json", `{"data": [
		{"id": "spearman", "name": "Spearman", "description": "English spear", "unique": false,
		 "variations": [{"age": 1, "costs": {"food": 60, "wood": 20, "time": 15}, "hitpoints": 80, "movement": {"speed": 1.25}}]},
		{"id": "longbowman", "name": "Longbowman", "unique": true,
		 "variations": [{"age": 2, "costs": {"food": 40, "wood": 50, "time": 15}, "hitpoints": 70, "movement": {"speed": 1.25}}]}
	]}`)
	writeFile(t, dir, "units/jeannedarc-unified.json", `{"data": [
		{"id": "spearman", "name": "Other Spearman", "description": "Duplicate", "unique": false,
		 "variations": [{"costs": {"food": 60, "wood": 20, "gold": 100, "oliveoil": 20, "vizier": 5, "time": 15}, "hitpoints": 80}]},
		{"id": "ghost", "name": "No Variations"},
		{"name": "No Id"}
	]}`)

	writeFile(t, dir, "buildings/english-unified.json", `{"data": [
		{"id": "council-hall", "name": "Council Hall", "unique": true,
		 "variations": [{"age": 2, "costs": {"wood": 300, "gold": 100, "oliveoil": 20, "vizier": 5, "time": 120}, "hitpoints": 3000}]}
	]}`)

	writeFile(t, dir, "technologies/english-unified.json", `{"data": [
		{"id": "wheelbarrow", "name": "Wheelbarrow", "unique": false, "costs": {"food": 50, "wood": 150, "time": 30}},
		{"id": "network-of-citadels", "name": "Network of Citadels", "unique": true, "age": 3, "costs": {"gold": 400, "time": 60}},
		{"id": "free-tech", "name": "Free Tech"}
	]}`)

	return dir
}

func generate(t *testing.T, dir string) (string, *Summary) {
	t.Helper()
	var out bytes.Buffer
	summary, err := (&Generator{DataDir: dir, Output: &out}).Generate()
	require.NoError(t, err)
	return out.String(), summary
}

func linesWithPrefix(script, prefix string) []string {
	var lines []string
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(line, prefix) {
			lines = append(lines, line)
		}
	}
	return lines
}

func TestGenerate_DeleteOrder(t *testing.T) {
	script, _ := generate(t, seedDataDir(t))

	deletes := linesWithPrefix(script, "DELETE FROM ")
	assert.Equal(t, []string{
		"DELETE FROM civ_technologies;",
		"DELETE FROM civ_buildings;",
		"DELETE FROM civ_units;",
		"DELETE FROM base_technologies;",
		"DELETE FROM base_buildings;",
		"DELETE FROM base_units;",
		"DELETE FROM civilizations;",
	}, deletes)

	firstInsert := strings.Index(script, "INSERT INTO")
	lastDelete := strings.LastIndex(script, "DELETE FROM")
	assert.Greater(t, firstInsert, lastDelete, "All deletes come before any insert")
}

func TestGenerate_Civilizations(t *testing.T) {
	script, summary := generate(t, seedDataDir(t))

	assert.Equal(t, 3, summary.Civilizations)
	civs := linesWithPrefix(script, "INSERT INTO civilizations")
	require.Len(t, civs, 3)
	assert.Equal(t, "INSERT INTO civilizations (id, name, description, overview) VALUES ('english', 'English', 'Longbows and farms', 'Defensive');", civs[0])
	assert.Equal(t, "INSERT INTO civilizations (id, name, description, overview) VALUES ('jeanne_darc', 'Jeanne d''Arc', 'A hero''s journey', '');", civs[1],
		"Display name comes from the name table, non-string overview becomes empty")
	assert.Equal(t, "INSERT INTO civilizations (id, name, description, overview) VALUES ('new_civ', 'Newcomers', '', '');", civs[2])
}

func TestGenerate_BaseEntitiesFirstOccurrenceWins(t *testing.T) {
	script, summary := generate(t, seedDataDir(t))

	assert.Equal(t, 3, summary.BaseUnits)
	units := linesWithPrefix(script, "INSERT INTO base_units")
	require.Len(t, units, 3)
	assert.Equal(t, "INSERT INTO base_units (id, name, description, type, icon_url) VALUES ('spearman', 'Spearman', 'English spear', 'unit', 'https://aoe4world.com/img/units/spearman.png');", units[0])
	assert.NotContains(t, script, "Other Spearman")
	assert.Contains(t, units[2], "'ghost', 'No Variations', '', 'unit'")

	assert.Equal(t, 1, summary.BaseBuildings)
	assert.Contains(t, script, "'https://aoe4world.com/img/buildings/council-hall.png'")

	assert.Equal(t, 3, summary.BaseTechnologies)
	assert.Contains(t, script, "'network-of-citadels', 'Network of Citadels', '', 'technology', 'https://aoe4world.com/img/technologies/network-of-citadels.png'")
}

func TestGenerate_CivUnitMappings(t *testing.T) {
	script, summary := generate(t, seedDataDir(t))

	assert.Equal(t, 3, summary.CivUnits, "Units without variations or id are skipped")
	mappings := linesWithPrefix(script, "INSERT INTO civ_units")
	require.Len(t, mappings, 3)
	assert.Equal(t,
		"INSERT INTO civ_units (civ_id, unit_id, unique_to_civ, age, cost_food, cost_wood, cost_stone, cost_gold, build_time, hitpoints, movement_speed) VALUES ('english', 'spearman', false, 1, 60, 20, 0, 0, 15, 80, 1.25);",
		mappings[0])
	assert.Contains(t, mappings[1], "('english', 'longbowman', true, 2,")
	assert.Equal(t,
		"INSERT INTO civ_units (civ_id, unit_id, unique_to_civ, age, cost_food, cost_wood, cost_stone, cost_gold, build_time, hitpoints, movement_speed) VALUES ('jeanne_darc', 'spearman', false, 1, 60, 20, 0, 125, 15, 80, 0);",
		mappings[2], "Missing age defaults to 1, minor currencies fold into gold, missing movement is 0")
}

func TestGenerate_CivBuildingMappings(t *testing.T) {
	script, _ := generate(t, seedDataDir(t))

	mappings := linesWithPrefix(script, "INSERT INTO civ_buildings")
	require.Len(t, mappings, 1)
	assert.Equal(t,
		"INSERT INTO civ_buildings (civ_id, building_id, unique_to_civ, age, cost_food, cost_wood, cost_stone, cost_gold, build_time, hitpoints) VALUES ('english', 'council-hall', true, 2, 0, 300, 0, 125, 120, 3000);",
		mappings[0])
}

func TestGenerate_CivTechnologyMappings(t *testing.T) {
	script, summary := generate(t, seedDataDir(t))

	assert.Equal(t, 3, summary.CivTechnologies)
	mappings := linesWithPrefix(script, "INSERT INTO civ_technologies")
	require.Len(t, mappings, 3)
	assert.Contains(t, mappings[0], "('english', 'wheelbarrow', false, NULL, 50, 150, 0, 0, 30);")
	assert.Contains(t, mappings[1], "('english', 'network-of-citadels', true, 3, 0, 0, 0, 400, 60);")
	assert.Contains(t, mappings[2], "('english', 'free-tech', false, NULL, 0, 0, 0, 0, 0);", "Missing costs default to zero")
}

func TestGenerate_EmptyDataDir(t *testing.T) {
	script, summary := generate(t, t.TempDir())

	assert.Equal(t, Summary{}, *summary)
	assert.Len(t, linesWithPrefix(script, "DELETE FROM "), 7)
	assert.NotContains(t, script, "INSERT INTO")
}

func TestGenerate_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "units/english-unified.json", `{"data": [`)

	var out bytes.Buffer
	_, err := (&Generator{DataDir: dir, Output: &out}).Generate()
	assert.ErrorContains(t, err, "failed to parse")
	assert.Zero(t, out.Len(), "Nothing is written when input is invalid")
}

func TestGenerate_RequiresOutput(t *testing.T) {
	_, err := (&Generator{DataDir: t.TempDir()}).Generate()
	assert.Error(t, err)
}

func TestGenerate_DataFileWithoutCivilizationKeepsBaseEntitiesOnly(t *testing.T) {
	dir := seedDataDir(t)
	writeFile(t, dir, "units/zhuxi-unified.json", `{"data": [
		{"id": "zhuge-nu", "name": "Zhuge Nu", "unique": true,
		 "variations": [{"age": 2, "costs": {"food": 40, "wood": 30, "time": 15}, "hitpoints": 90}]}
	]}`)
	writeFile(t, dir, "technologies/zhuxi-unified.json", `{"data": [
		{"id": "roller-shutter", "name": "Roller Shutter", "costs": {"wood": 100, "time": 45}}
	]}`)

	script, summary := generate(t, dir)

	assert.Equal(t, 3, summary.Civilizations)
	assert.Contains(t, script, "INSERT INTO base_units (id, name, description, type, icon_url) VALUES ('zhuge-nu'")
	assert.Contains(t, script, "INSERT INTO base_technologies (id, name, description, type, icon_url) VALUES ('roller-shutter'")
	assert.NotContains(t, script, "('zhuxi',", "No mapping rows for a civilization that is not imported")
	assert.Equal(t, 3, summary.CivUnits)
	assert.Equal(t, 3, summary.CivTechnologies)
}
