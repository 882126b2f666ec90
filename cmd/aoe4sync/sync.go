package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	syncsvc "aoe4stats/ingestion/internal/sync"

	"github.com/spf13/cobra"
)

var (
	syncMode        string
	syncLeaderboard string
	syncCount       int
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one sync from the AoE4 World API",
	Long: `Run one sync and exit.

Modes:
  quick        civ stats for rm_solo/all plus the rm_solo top 50
  full         civ stats for every leaderboard and rank plus every leaderboard
  civ-stats    civ stats for every leaderboard and rank
  leaderboard  one leaderboard (--leaderboard, --count)`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncMode, "mode", syncsvc.ModeQuick, "Sync mode: quick, full, civ-stats or leaderboard")
	syncCmd.Flags().StringVar(&syncLeaderboard, "leaderboard", syncsvc.DefaultLeaderboard, "Leaderboard to sync in leaderboard mode")
	syncCmd.Flags().IntVar(&syncCount, "count", syncsvc.DefaultPlayerCount, "Number of players to sync in leaderboard mode")
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	svc, err := newSyncService(cfg, db)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Starting %s sync...\n", syncMode)

	result, err := svc.Run(ctx, syncMode, syncLeaderboard, syncCount)
	if err != nil {
		return err
	}

	printResult(out, result)
	return nil
}

func printResult(out io.Writer, result *syncsvc.FullSyncResult) {
	fmt.Fprintf(out, "Sync %s complete (run %s) in %s\n", result.Mode, result.RunID, result.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "  civ meta stats: %d\n", result.CivMetaStats)

	boards := make([]string, 0, len(result.Leaderboards))
	for lb := range result.Leaderboards {
		boards = append(boards, lb)
	}
	sort.Strings(boards)
	for _, lb := range boards {
		fmt.Fprintf(out, "  %s players: %d\n", lb, result.Leaderboards[lb])
	}
	if len(boards) > 1 {
		fmt.Fprintf(out, "  total players: %d\n", result.TotalPlayers)
	}
}
