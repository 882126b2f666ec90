package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// AoE4 World API
	AoE4WorldBaseURL        string        `envconfig:"AOE4WORLD_BASE_URL" default:"https://aoe4world.com/api/v0"`
	AoE4WorldTimeout        time.Duration `envconfig:"AOE4WORLD_TIMEOUT" default:"30s"`
	AoE4WorldRateLimitDelay time.Duration `envconfig:"AOE4WORLD_RATE_LIMIT_DELAY" default:"500ms"`

	// Supabase Postgres. Both are required by the row-store client; they are
	// checked there rather than here so that generate-sql can run without them.
	SupabaseDBURL      string `envconfig:"SUPABASE_DB_URL"`
	SupabaseDBPassword string `envconfig:"SUPABASE_DB_PASSWORD"`
	DatabaseMaxConns   int32  `envconfig:"DATABASE_MAX_CONNS" default:"4"`

	// Redis (optional, used for the sync run lock)
	RedisHost     string        `envconfig:"REDIS_HOST" default:""`
	RedisPort     int           `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	SyncLockTTL   time.Duration `envconfig:"SYNC_LOCK_TTL" default:"30m"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Sync failure policies: best-effort or all-or-nothing
	MetaStatsPolicy   string `envconfig:"SYNC_META_STATS_POLICY" default:"best-effort"`
	LeaderboardPolicy string `envconfig:"SYNC_LEADERBOARD_POLICY" default:"best-effort"`
	FullSyncPlayers   int    `envconfig:"SYNC_FULL_PLAYER_COUNT" default:"50"`

	// Scheduler
	FullSyncCron  string `envconfig:"FULL_SYNC_CRON" default:"0 3 * * *"`
	QuickSyncCron string `envconfig:"QUICK_SYNC_CRON" default:"0 * * * *"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.AoE4WorldBaseURL == "" {
		return fmt.Errorf("AOE4WORLD_BASE_URL is required")
	}

	if c.AoE4WorldRateLimitDelay < 0 {
		return fmt.Errorf("AOE4WORLD_RATE_LIMIT_DELAY must not be negative")
	}

	for name, policy := range map[string]string{
		"SYNC_META_STATS_POLICY":  c.MetaStatsPolicy,
		"SYNC_LEADERBOARD_POLICY": c.LeaderboardPolicy,
	} {
		if policy != "best-effort" && policy != "all-or-nothing" {
			return fmt.Errorf("%s must be best-effort or all-or-nothing, got %q", name, policy)
		}
	}

	if c.FullSyncPlayers <= 0 {
		return fmt.Errorf("SYNC_FULL_PLAYER_COUNT must be positive")
	}

	return nil
}

// RedisEnabled reports whether a Redis host was configured
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or exits on error
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
