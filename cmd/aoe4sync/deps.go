package main

import (
	"context"

	"aoe4stats/ingestion/internal/client"
	"aoe4stats/ingestion/internal/config"
	"aoe4stats/ingestion/internal/repository"
	syncsvc "aoe4stats/ingestion/internal/sync"

	"github.com/rs/zerolog/log"
)

// openDatabase connects to the configured Supabase Postgres database
func openDatabase(ctx context.Context, cfg *config.Config) (*repository.Database, error) {
	return repository.NewDatabase(ctx, repository.Config{
		URL:      cfg.SupabaseDBURL,
		Password: cfg.SupabaseDBPassword,
		MaxConns: cfg.DatabaseMaxConns,
	})
}

// newSyncService wires the API client and database into a sync service
func newSyncService(cfg *config.Config, db *repository.Database) (*syncsvc.Service, error) {
	policy, err := syncsvc.NewPolicy(cfg.MetaStatsPolicy, cfg.LeaderboardPolicy)
	if err != nil {
		return nil, err
	}

	api := client.NewClient(cfg.AoE4WorldBaseURL, cfg.AoE4WorldTimeout, cfg.AoE4WorldRateLimitDelay)

	return syncsvc.NewService(api, db, log.Logger,
		syncsvc.WithPolicy(policy),
		syncsvc.WithFullSyncPlayers(cfg.FullSyncPlayers),
	), nil
}
