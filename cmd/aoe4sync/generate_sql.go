package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"aoe4stats/ingestion/internal/importsql"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	genDataDir string
	genOutput  string
	genApply   bool
)

var generateSQLCmd = &cobra.Command{
	Use:   "generate-sql",
	Short: "Generate a SQL import script from local game data",
	Long: `Read civilizations/*.json and the units, buildings and technologies
*-unified.json files under --data-dir and write a SQL script that replaces
the game data tables. With --apply the script is also executed against
the database.`,
	RunE: runGenerateSQL,
}

func init() {
	generateSQLCmd.Flags().StringVar(&genDataDir, "data-dir", "data", "Directory holding the local game data")
	generateSQLCmd.Flags().StringVarP(&genOutput, "output", "o", "import-data.sql", "Output file, - for stdout")
	generateSQLCmd.Flags().BoolVar(&genApply, "apply", false, "Execute the generated script against the database")
	RootCmd.AddCommand(generateSQLCmd)
}

func runGenerateSQL(cmd *cobra.Command, args []string) error {
	var script bytes.Buffer
	gen := &importsql.Generator{DataDir: genDataDir, Output: &script}

	summary, err := gen.Generate()
	if err != nil {
		return err
	}

	if err := writeScript(cmd.OutOrStdout(), genOutput, script.Bytes()); err != nil {
		return err
	}

	if genOutput != "-" {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Wrote %s\n", genOutput)
		fmt.Fprintf(out, "  civilizations: %d\n", summary.Civilizations)
		fmt.Fprintf(out, "  base units: %d, base buildings: %d, base technologies: %d\n",
			summary.BaseUnits, summary.BaseBuildings, summary.BaseTechnologies)
	}

	if !genApply {
		return nil
	}

	db, err := openDatabase(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecRaw(cmd.Context(), script.String()); err != nil {
		return fmt.Errorf("failed to apply import script: %w", err)
	}
	log.Info().Msg("Import script applied")
	return nil
}

func writeScript(stdout io.Writer, path string, script []byte) error {
	if path == "-" {
		_, err := stdout.Write(script)
		return err
	}
	if err := os.WriteFile(path, script, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
