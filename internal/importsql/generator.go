package importsql

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Tables cleared before import, children first
var clearOrder = []string{
	"civ_technologies",
	"civ_buildings",
	"civ_units",
	"base_technologies",
	"base_buildings",
	"base_units",
	"civilizations",
}

const iconBaseURL = "https://aoe4world.com/img"

// Summary counts what a Generate call wrote
type Summary struct {
	Civilizations    int
	BaseUnits        int
	BaseBuildings    int
	BaseTechnologies int
	CivUnits         int
	CivBuildings     int
	CivTechnologies  int
}

// Generator flattens local per-civilization JSON game data into a SQL import script.
//
// DataDir must contain civilizations/*.json and units/, buildings/ and
// technologies/ directories of <civ>-unified.json files.
type Generator struct {
	DataDir string
	Output  io.Writer
}

type civFile struct {
	Name        any `json:"name"`
	Description any `json:"description"`
	Overview    any `json:"overview"`
}

type movement struct {
	Speed float64 `json:"speed"`
}

type variation struct {
	Age       *float64  `json:"age"`
	Costs     Costs     `json:"costs"`
	Hitpoints float64   `json:"hitpoints"`
	Movement  *movement `json:"movement"`
}

type entity struct {
	ID          string      `json:"id"`
	Name        any         `json:"name"`
	Description any         `json:"description"`
	Unique      bool        `json:"unique"`
	Age         *float64    `json:"age"`
	Costs       *Costs      `json:"costs"`
	Variations  []variation `json:"variations"`
}

type unifiedFile struct {
	Data []entity `json:"data"`
}

// civEntities is one civilization's entities of a single family
type civEntities struct {
	civID    string
	entities []entity
}

// Generate writes the complete import script to Output
func (g *Generator) Generate() (*Summary, error) {
	if g.Output == nil {
		return nil, fmt.Errorf("generator output is not set")
	}

	unitsFiles, err := g.loadFamily("units")
	if err != nil {
		return nil, err
	}
	buildingsFiles, err := g.loadFamily("buildings")
	if err != nil {
		return nil, err
	}
	technologiesFiles, err := g.loadFamily("technologies")
	if err != nil {
		return nil, err
	}

	w := bufio.NewWriter(g.Output)
	summary := &Summary{}

	fmt.Fprintln(w, "-- Complete AoE4 Data Import")
	fmt.Fprintln(w, "-- Generated SQL for Supabase")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "-- Clear existing data")
	for _, table := range clearOrder {
		fmt.Fprintf(w, "DELETE FROM %s;\n", table)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "-- Import Civilizations")
	civIDs, err := g.writeCivilizations(w)
	if err != nil {
		return nil, err
	}
	summary.Civilizations = len(civIDs)
	fmt.Fprintln(w)

	// Mapping rows reference civilizations(id), so data files of civilizations
	// without a civilizations/*.json entry contribute base entities only
	units := knownCivs("units", unitsFiles, civIDs)
	buildings := knownCivs("buildings", buildingsFiles, civIDs)
	technologies := knownCivs("technologies", technologiesFiles, civIDs)

	fmt.Fprintln(w, "-- Import Base Units")
	summary.BaseUnits = writeBaseEntities(w, "base_units", "unit", "units", units.all)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "-- Import Civ-Unit Mappings")
	for _, civ := range units.mapped {
		for _, u := range civ.entities {
			if u.ID == "" || len(u.Variations) == 0 {
				continue
			}
			v := u.Variations[0]
			speed := 0.0
			if v.Movement != nil {
				speed = v.Movement.Speed
			}
			fmt.Fprintf(w,
				"INSERT INTO civ_units (civ_id, unit_id, unique_to_civ, age, cost_food, cost_wood, cost_stone, cost_gold, build_time, hitpoints, movement_speed) VALUES ('%s', '%s', %t, %s, %s, %s, %s, %s, %s, %s, %s);\n",
				EscapeSQL(civ.civID), EscapeSQL(u.ID), u.Unique, ageOrDefault(v.Age),
				num(v.Costs.Food), num(v.Costs.Wood), num(v.Costs.Stone), num(GoldCost(v.Costs)),
				num(v.Costs.Time), num(v.Hitpoints), num(speed),
			)
			summary.CivUnits++
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "-- Import Base Buildings")
	summary.BaseBuildings = writeBaseEntities(w, "base_buildings", "building", "buildings", buildings.all)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "-- Import Civ-Building Mappings")
	for _, civ := range buildings.mapped {
		for _, b := range civ.entities {
			if b.ID == "" || len(b.Variations) == 0 {
				continue
			}
			v := b.Variations[0]
			fmt.Fprintf(w,
				"INSERT INTO civ_buildings (civ_id, building_id, unique_to_civ, age, cost_food, cost_wood, cost_stone, cost_gold, build_time, hitpoints) VALUES ('%s', '%s', %t, %s, %s, %s, %s, %s, %s, %s);\n",
				EscapeSQL(civ.civID), EscapeSQL(b.ID), b.Unique, ageOrDefault(v.Age),
				num(v.Costs.Food), num(v.Costs.Wood), num(v.Costs.Stone), num(GoldCost(v.Costs)),
				num(v.Costs.Time), num(v.Hitpoints),
			)
			summary.CivBuildings++
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "-- Import Base Technologies")
	summary.BaseTechnologies = writeBaseEntities(w, "base_technologies", "technology", "technologies", technologies.all)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "-- Import Civ-Technology Mappings")
	for _, civ := range technologies.mapped {
		for _, t := range civ.entities {
			if t.ID == "" {
				continue
			}
			var c Costs
			if t.Costs != nil {
				c = *t.Costs
			}
			age := "NULL"
			if t.Age != nil {
				age = num(*t.Age)
			}
			fmt.Fprintf(w,
				"INSERT INTO civ_technologies (civ_id, technology_id, unique_to_civ, age, cost_food, cost_wood, cost_stone, cost_gold, research_time) VALUES ('%s', '%s', %t, %s, %s, %s, %s, %s, %s);\n",
				EscapeSQL(civ.civID), EscapeSQL(t.ID), t.Unique, age,
				num(c.Food), num(c.Wood), num(c.Stone), num(GoldCost(c)), num(c.Time),
			)
			summary.CivTechnologies++
		}
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write import script: %w", err)
	}

	log.Info().
		Int("civilizations", summary.Civilizations).
		Int("base_units", summary.BaseUnits).
		Int("base_buildings", summary.BaseBuildings).
		Int("base_technologies", summary.BaseTechnologies).
		Msg("Generated import script")

	return summary, nil
}

// writeCivilizations writes one insert per civilization file and returns the ids written
func (g *Generator) writeCivilizations(w io.Writer) (map[string]bool, error) {
	files, err := g.glob("civilizations", "*.json")
	if err != nil {
		return nil, err
	}

	ids := make(map[string]bool, len(files))
	for _, path := range files {
		var civ civFile
		if err := readJSON(path, &civ); err != nil {
			return nil, err
		}

		slug := strings.TrimSuffix(filepath.Base(path), ".json")
		name, ok := civNames[slug]
		if !ok {
			name, _ = civ.Name.(string)
		}

		id := LocalCivID(slug)
		ids[id] = true
		fmt.Fprintf(w, "INSERT INTO civilizations (id, name, description, overview) VALUES ('%s', '%s', '%s', '%s');\n",
			EscapeSQL(id), EscapeSQL(name), escapeValue(civ.Description), escapeValue(civ.Overview))
	}

	return ids, nil
}

// family is one entity family split into every file and the files whose
// civilization is imported
type family struct {
	all    []civEntities
	mapped []civEntities
}

func knownCivs(name string, civs []civEntities, civIDs map[string]bool) family {
	f := family{all: civs}
	for _, civ := range civs {
		if !civIDs[civ.civID] {
			log.Warn().
				Str("family", name).
				Str("civ_id", civ.civID).
				Msg("No civilization file for data file, skipping civ mappings")
			continue
		}
		f.mapped = append(f.mapped, civ)
	}
	return f
}

// writeBaseEntities writes one insert per entity id, first occurrence wins
func writeBaseEntities(w io.Writer, table, entityType, iconDir string, civs []civEntities) int {
	seen := make(map[string]bool)
	for _, civ := range civs {
		for _, e := range civ.entities {
			if e.ID == "" || seen[e.ID] {
				continue
			}
			seen[e.ID] = true

			id := EscapeSQL(e.ID)
			fmt.Fprintf(w, "INSERT INTO %s (id, name, description, type, icon_url) VALUES ('%s', '%s', '%s', '%s', '%s/%s/%s.png');\n",
				table, id, escapeValue(e.Name), escapeValue(e.Description), entityType, iconBaseURL, iconDir, id)
		}
	}
	return len(seen)
}

// loadFamily reads every <civ>-unified.json file of a family directory in name order
func (g *Generator) loadFamily(dir string) ([]civEntities, error) {
	files, err := g.glob(dir, "*-unified.json")
	if err != nil {
		return nil, err
	}

	out := make([]civEntities, 0, len(files))
	for _, path := range files {
		var f unifiedFile
		if err := readJSON(path, &f); err != nil {
			return nil, err
		}
		slug := strings.TrimSuffix(filepath.Base(path), "-unified.json")
		out = append(out, civEntities{civID: LocalCivID(slug), entities: f.Data})
	}

	return out, nil
}

func (g *Generator) glob(dir, pattern string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(g.DataDir, dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s files: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func ageOrDefault(age *float64) string {
	if age == nil {
		return "1"
	}
	return num(*age)
}
