package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies POLYBOARD_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known POLYBOARD_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Subgraph ──
	setStr(&cfg.Subgraph.URL, "POLYBOARD_SUBGRAPH_URL")
	setStr(&cfg.Subgraph.APIKey, "POLYBOARD_SUBGRAPH_API_KEY")
	setInt(&cfg.Subgraph.PageSize, "POLYBOARD_SUBGRAPH_PAGE_SIZE")
	setInt(&cfg.Subgraph.MaxPositions, "POLYBOARD_SUBGRAPH_MAX_POSITIONS")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "POLYBOARD_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "POLYBOARD_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "POLYBOARD_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "POLYBOARD_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "POLYBOARD_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "POLYBOARD_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "POLYBOARD_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "POLYBOARD_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "POLYBOARD_POSTGRES_POOL_MIN_CONNS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "POLYBOARD_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "POLYBOARD_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "POLYBOARD_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "POLYBOARD_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "POLYBOARD_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "POLYBOARD_REDIS_TLS_ENABLED")

	// ── Leaderboard ──
	setInt(&cfg.Leaderboard.TopN, "POLYBOARD_LEADERBOARD_TOP_N")
	setInt64(&cfg.Leaderboard.Scale, "POLYBOARD_LEADERBOARD_SCALE")
	setInt(&cfg.Leaderboard.Parallelism, "POLYBOARD_LEADERBOARD_PARALLELISM")
	setDuration(&cfg.Leaderboard.RefreshInterval, "POLYBOARD_LEADERBOARD_REFRESH_INTERVAL")
	setDuration(&cfg.Leaderboard.CacheTTL, "POLYBOARD_LEADERBOARD_CACHE_TTL")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "POLYBOARD_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "POLYBOARD_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "POLYBOARD_SERVER_CORS_ORIGINS")

	// ── Top-level ──
	setStr(&cfg.Source, "POLYBOARD_SOURCE")
	setStr(&cfg.Mode, "POLYBOARD_MODE")
	setStr(&cfg.LogLevel, "POLYBOARD_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
