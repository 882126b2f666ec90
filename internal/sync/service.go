package sync

import (
	"context"
	"fmt"
	"time"

	"aoe4stats/ingestion/internal/client"
	"aoe4stats/ingestion/internal/metrics"
	"aoe4stats/ingestion/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Sync modes accepted by Run
const (
	ModeQuick       = "quick"
	ModeFull        = "full"
	ModeCivStats    = "civ-stats"
	ModeLeaderboard = "leaderboard"
)

const (
	// DefaultLeaderboard is synced by quick mode
	DefaultLeaderboard = "rm_solo"

	// DefaultPlayerCount is the number of players synced per leaderboard
	DefaultPlayerCount = 50
)

// StatsSource is the subset of the AoE4 World client used by the service
type StatsSource interface {
	GetCivStats(ctx context.Context, leaderboard, rankLevel string) ([]client.CivStat, error)
	GetTopPlayers(ctx context.Context, leaderboard string, count int) ([]client.LeaderboardPlayer, error)
}

// Store receives the mapped rows. Each call must be all-or-nothing.
type Store interface {
	UpsertCivMetaStats(ctx context.Context, stats []*models.CivMetaStat) error
	UpsertLeaderboardPlayers(ctx context.Context, players []*models.LeaderboardPlayer) error
}

// FullSyncResult summarizes a sync run
type FullSyncResult struct {
	RunID        string
	Mode         string
	CivMetaStats int
	Leaderboards map[string]int
	TotalPlayers int
	Duration     time.Duration
}

// Service moves AoE4 World statistics into the row store
type Service struct {
	api             StatsSource
	store           Store
	logger          zerolog.Logger
	policy          Policy
	fullSyncPlayers int
	now             func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithPolicy sets the failure policy
func WithPolicy(p Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithFullSyncPlayers sets the per-leaderboard player count used by SyncAll
func WithFullSyncPlayers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.fullSyncPlayers = n
		}
	}
}

// WithClock overrides the timestamp source used when mapping rows
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a sync service. The logger is used as given; nothing
// is written to the global logger.
func NewService(api StatsSource, store Store, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		api:             api,
		store:           store,
		logger:          logger.With().Str("component", "sync").Logger(),
		policy:          DefaultPolicy(),
		fullSyncPlayers: DefaultPlayerCount,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SyncCivMetaStats fetches civ stats for every (leaderboard, rank level) pair and
// upserts them in one batch. A nil slice selects every known value; an empty
// slice selects none.
func (s *Service) SyncCivMetaStats(ctx context.Context, leaderboards, rankLevels []string) (count int, err error) {
	start := time.Now()
	var fetched, skipped int
	defer func() {
		metrics.RecordSync("civ_meta_stats", syncStatus(err, fetched, skipped), time.Since(start).Seconds())
	}()

	if leaderboards == nil {
		leaderboards = client.Leaderboards
	}
	if rankLevels == nil {
		rankLevels = client.RankLevels
	}

	s.log(ctx).Info().
		Int("leaderboards", len(leaderboards)).
		Int("rank_levels", len(rankLevels)).
		Msg("Syncing civ meta stats")

	var rows []*models.CivMetaStat
	for _, leaderboard := range leaderboards {
		for _, rankLevel := range rankLevels {
			if err := ctx.Err(); err != nil {
				return 0, err
			}

			stats, err := s.api.GetCivStats(ctx, leaderboard, rankLevel)
			if err != nil {
				if s.policy.MetaStats == AllOrNothing {
					return 0, fmt.Errorf("failed to sync civ meta stats %s/%s: %w", leaderboard, rankLevel, err)
				}
				skipped++
				metrics.RecordSkippedPair(leaderboard, rankLevel)
				s.log(ctx).Error().
					Err(err).
					Str("leaderboard", leaderboard).
					Str("rank_level", rankLevel).
					Msg("Failed to fetch civ stats, skipping pair")
				continue
			}

			fetched++
			for _, stat := range stats {
				rows = append(rows, s.mapCivStat(stat, leaderboard, rankLevel))
			}

			s.log(ctx).Debug().
				Str("leaderboard", leaderboard).
				Str("rank_level", rankLevel).
				Int("records", len(stats)).
				Msg("Fetched civ stats")
		}
	}

	if len(rows) == 0 {
		s.log(ctx).Info().Msg("No civ meta stats to upsert")
		return 0, nil
	}

	if err := s.store.UpsertCivMetaStats(ctx, rows); err != nil {
		return 0, fmt.Errorf("failed to upsert civ meta stats: %w", err)
	}

	s.log(ctx).Info().Int("count", len(rows)).Msg("Synced civ meta stats")
	return len(rows), nil
}

// SyncCivMetaStatsQuick syncs only the rm_solo leaderboard across all ranks
func (s *Service) SyncCivMetaStatsQuick(ctx context.Context) (int, error) {
	return s.SyncCivMetaStats(ctx, []string{DefaultLeaderboard}, []string{"all"})
}

// SyncLeaderboard fetches the top count players of a leaderboard and upserts them
func (s *Service) SyncLeaderboard(ctx context.Context, leaderboard string, count int) (n int, err error) {
	start := time.Now()
	fetched, skipped := 1, 0
	defer func() {
		metrics.RecordSync("leaderboard", syncStatus(err, fetched, skipped), time.Since(start).Seconds())
	}()

	log := s.log(ctx).With().Str("leaderboard", leaderboard).Logger()
	log.Info().Int("count", count).Msg("Syncing leaderboard")

	players, err := s.api.GetTopPlayers(ctx, leaderboard, count)
	if err != nil {
		if s.policy.Leaderboard == AllOrNothing || ctx.Err() != nil {
			return 0, fmt.Errorf("failed to sync leaderboard %s: %w", leaderboard, err)
		}
		fetched, skipped = 0, 1
		log.Error().Err(err).Msg("Failed to fetch leaderboard, skipping")
		return 0, nil
	}

	if len(players) == 0 {
		log.Info().Msg("Leaderboard returned no players")
		return 0, nil
	}

	rows := make([]*models.LeaderboardPlayer, 0, len(players))
	for _, p := range players {
		rows = append(rows, s.mapPlayer(p, leaderboard))
	}

	if err := s.store.UpsertLeaderboardPlayers(ctx, rows); err != nil {
		return 0, fmt.Errorf("failed to upsert leaderboard %s: %w", leaderboard, err)
	}

	log.Info().Int("players", len(rows)).Msg("Synced leaderboard")
	return len(rows), nil
}

// SyncAllLeaderboards syncs every known leaderboard in order.
// The returned map holds the counts of the leaderboards synced before any error.
func (s *Service) SyncAllLeaderboards(ctx context.Context, count int) (map[string]int, error) {
	results := make(map[string]int, len(client.Leaderboards))

	for _, leaderboard := range client.Leaderboards {
		n, err := s.SyncLeaderboard(ctx, leaderboard, count)
		if err != nil {
			return results, err
		}
		results[leaderboard] = n
	}

	return results, nil
}

// SyncAll runs the full civ meta stats sync followed by every leaderboard
func (s *Service) SyncAll(ctx context.Context) (*FullSyncResult, error) {
	start := time.Now()
	result := &FullSyncResult{Mode: ModeFull}

	s.log(ctx).Info().Msg("Full sync started")

	n, err := s.SyncCivMetaStats(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	result.CivMetaStats = n

	result.Leaderboards, err = s.SyncAllLeaderboards(ctx, s.fullSyncPlayers)
	if err != nil {
		return nil, err
	}
	for _, players := range result.Leaderboards {
		result.TotalPlayers += players
	}
	result.Duration = time.Since(start)

	s.log(ctx).Info().
		Int("civ_meta_stats", result.CivMetaStats).
		Int("total_players", result.TotalPlayers).
		Dur("duration", result.Duration).
		Msg("Full sync complete")

	return result, nil
}

// Run executes one sync in the given mode. leaderboard and count only apply
// to ModeLeaderboard.
func (s *Service) Run(ctx context.Context, mode, leaderboard string, count int) (*FullSyncResult, error) {
	runID := uuid.NewString()
	logger := s.logger.With().Str("run_id", runID).Str("mode", mode).Logger()
	ctx = context.WithValue(ctx, loggerKey{}, &logger)

	start := time.Now()
	var (
		result *FullSyncResult
		err    error
	)

	switch mode {
	case ModeQuick:
		result = &FullSyncResult{Mode: mode}
		if result.CivMetaStats, err = s.SyncCivMetaStatsQuick(ctx); err != nil {
			break
		}
		var n int
		if n, err = s.SyncLeaderboard(ctx, DefaultLeaderboard, DefaultPlayerCount); err == nil {
			result.Leaderboards = map[string]int{DefaultLeaderboard: n}
			result.TotalPlayers = n
		}
	case ModeFull:
		result, err = s.SyncAll(ctx)
	case ModeCivStats:
		result = &FullSyncResult{Mode: mode}
		result.CivMetaStats, err = s.SyncCivMetaStats(ctx, nil, nil)
	case ModeLeaderboard:
		if leaderboard == "" {
			leaderboard = DefaultLeaderboard
		}
		if count <= 0 {
			count = DefaultPlayerCount
		}
		result = &FullSyncResult{Mode: mode}
		var n int
		if n, err = s.SyncLeaderboard(ctx, leaderboard, count); err == nil {
			result.Leaderboards = map[string]int{leaderboard: n}
			result.TotalPlayers = n
		}
	default:
		return nil, fmt.Errorf("unknown sync mode %q", mode)
	}

	if err != nil {
		logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("Sync failed")
		return nil, err
	}

	result.RunID = runID
	result.Duration = time.Since(start)
	logger.Info().
		Int("civ_meta_stats", result.CivMetaStats).
		Int("total_players", result.TotalPlayers).
		Dur("duration", result.Duration).
		Msg("Sync complete")

	return result, nil
}

// syncStatus labels a sync by its error and how many inputs were fetched or
// skipped under the best-effort policy
func syncStatus(err error, fetched, skipped int) string {
	switch {
	case err != nil:
		return metrics.StatusError
	case skipped > 0 && fetched == 0:
		return metrics.StatusSkipped
	case skipped > 0:
		return metrics.StatusPartial
	default:
		return metrics.StatusSuccess
	}
}

type loggerKey struct{}

// log returns the run-scoped logger attached by Run, or the service logger
func (s *Service) log(ctx context.Context) *zerolog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*zerolog.Logger); ok {
		return l
	}
	return &s.logger
}

// mapCivStat builds a meta stat row. The timestamp is taken now, not at write time.
func (s *Service) mapCivStat(stat client.CivStat, leaderboard, rankLevel string) *models.CivMetaStat {
	return &models.CivMetaStat{
		CivID:       NormalizeCivID(stat.CivSlug),
		Leaderboard: leaderboard,
		RankLevel:   rankLevel,
		WinRate:     stat.WinRate,
		PickRate:    stat.PickRate,
		GamesCount:  stat.GamesCount,
		Wins:        stat.Wins,
		Losses:      stat.Losses,
		LastUpdated: s.now().UTC(),
	}
}

func (s *Service) mapPlayer(p client.LeaderboardPlayer, leaderboard string) *models.LeaderboardPlayer {
	return &models.LeaderboardPlayer{
		PlayerID:    p.ProfileID,
		Leaderboard: leaderboard,
		PlayerName:  p.Name,
		Rank:        p.Rank,
		Rating:      p.Rating,
		GamesCount:  p.GamesCount,
		Wins:        p.Wins,
		Losses:      p.Losses,
		WinRate:     p.WinRate,
		LastUpdated: s.now().UTC(),
	}
}
