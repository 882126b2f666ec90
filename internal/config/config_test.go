package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://aoe4world.com/api/v0", cfg.AoE4WorldBaseURL)
	assert.Equal(t, 500*time.Millisecond, cfg.AoE4WorldRateLimitDelay)
	assert.Equal(t, "best-effort", cfg.MetaStatsPolicy)
	assert.Equal(t, 50, cfg.FullSyncPlayers)
	assert.False(t, cfg.RedisEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AOE4WORLD_RATE_LIMIT_DELAY", "2s")
	t.Setenv("SYNC_LEADERBOARD_POLICY", "all-or-nothing")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.AoE4WorldRateLimitDelay)
	assert.Equal(t, "all-or-nothing", cfg.LeaderboardPolicy)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, "cache:6380", cfg.RedisAddr())
}

func TestValidate_RejectsUnknownPolicy(t *testing.T) {
	cfg := &Config{
		AoE4WorldBaseURL:  "http://localhost",
		MetaStatsPolicy:   "sometimes",
		LeaderboardPolicy: "best-effort",
		FullSyncPlayers:   50,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SYNC_META_STATS_POLICY")
}

func TestValidate_RejectsNonPositivePlayerCount(t *testing.T) {
	cfg := &Config{
		AoE4WorldBaseURL:  "http://localhost",
		MetaStatsPolicy:   "best-effort",
		LeaderboardPolicy: "best-effort",
	}

	assert.Error(t, cfg.Validate())
}
