package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := Defaults()
	cfg.Subgraph.URL = "https://api.goldsky.com/subgraphs/polymarket/gn"
	return cfg
}

func TestDefaultsValidateWithSubgraphURL(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnknownMode(t *testing.T) {
	cfg := validConfig()
	cfg.Mode = "batch"
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown mode "batch"`)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Mode = "batch"
	cfg.Redis.Addr = ""
	cfg.Leaderboard.TopN = 0
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown mode")
	require.Contains(t, err.Error(), "redis: addr must not be empty")
	require.Contains(t, err.Error(), "leaderboard: top_n must be >= 1")
}

func TestValidatePostgresSourceRequiresConnection(t *testing.T) {
	cfg := validConfig()
	cfg.Source = "postgres"
	cfg.Postgres.Host = ""
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "postgres: host must not be empty")

	cfg.Postgres.DSN = "postgres://user:pass@db:5432/positions"
	require.NoError(t, cfg.Validate())
}

func TestLoadParsesTOMLWithDurations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
source = "subgraph"
mode = "compute"
log_level = "debug"

[subgraph]
url = "https://example.com/subgraphs/positions"
page_size = 250

[leaderboard]
top_n = 25
refresh_interval = "90s"
cache_ttl = "1h"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "compute", cfg.Mode)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 250, cfg.Subgraph.PageSize)
	require.Equal(t, 25, cfg.Leaderboard.TopN)
	require.Equal(t, 90*time.Second, cfg.Leaderboard.RefreshInterval.Duration)
	require.Equal(t, time.Hour, cfg.Leaderboard.CacheTTL.Duration)

	// Unset fields keep their defaults.
	require.Equal(t, "localhost:6379", cfg.Redis.Addr)
	require.Equal(t, int64(10_000), cfg.Leaderboard.Scale)
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("POLYBOARD_SUBGRAPH_URL", "https://override.example.com/gn")
	t.Setenv("POLYBOARD_REDIS_ADDR", "redis.internal:6380")
	t.Setenv("POLYBOARD_LEADERBOARD_TOP_N", "3")
	t.Setenv("POLYBOARD_LEADERBOARD_REFRESH_INTERVAL", "30s")
	t.Setenv("POLYBOARD_SERVER_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "https://override.example.com/gn", cfg.Subgraph.URL)
	require.Equal(t, "redis.internal:6380", cfg.Redis.Addr)
	require.Equal(t, 3, cfg.Leaderboard.TopN)
	require.Equal(t, 30*time.Second, cfg.Leaderboard.RefreshInterval.Duration)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func TestRedactedConfigMasksSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.Subgraph.APIKey = "super-secret"
	cfg.Postgres.Password = "hunter2"
	cfg.Redis.Password = "redis-pass"

	red := RedactedConfig(&cfg)
	require.Equal(t, "***", red.Subgraph.APIKey)
	require.Equal(t, "***", red.Postgres.Password)
	require.Equal(t, "***", red.Redis.Password)

	// Original stays intact.
	require.Equal(t, "super-secret", cfg.Subgraph.APIKey)

	// Mutating the redacted slice must not leak into the original.
	red.Server.CORSOrigins[0] = "mutated"
	require.NotEqual(t, "mutated", cfg.Server.CORSOrigins[0])
}
