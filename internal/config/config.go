// Package config defines the top-level configuration for the leaderboard
// service and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by POLYBOARD_* environment variables.
type Config struct {
	Subgraph    SubgraphConfig    `toml:"subgraph"`
	Postgres    PostgresConfig    `toml:"postgres"`
	Redis       RedisConfig       `toml:"redis"`
	Leaderboard LeaderboardConfig `toml:"leaderboard"`
	Server      ServerConfig      `toml:"server"`
	Source      string            `toml:"source"`
	Mode        string            `toml:"mode"`
	LogLevel    string            `toml:"log_level"`
}

// SubgraphConfig holds the GraphQL endpoint for the positions subgraph.
type SubgraphConfig struct {
	URL          string `toml:"url"`
	APIKey       string `toml:"api_key"`
	PageSize     int    `toml:"page_size"`
	MaxPositions int    `toml:"max_positions"`
}

// PostgresConfig holds PostgreSQL connection parameters for the snapshot
// position source.
type PostgresConfig struct {
	DSN          string `toml:"dsn"`
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	Database     string `toml:"database"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	SSLMode      string `toml:"ssl_mode"`
	PoolMaxConns int    `toml:"pool_max_conns"`
	PoolMinConns int    `toml:"pool_min_conns"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// LeaderboardConfig holds pipeline parameters.
type LeaderboardConfig struct {
	TopN            int      `toml:"top_n"`
	Scale           int64    `toml:"scale"`
	Parallelism     int      `toml:"parallelism"`
	RefreshInterval duration `toml:"refresh_interval"`
	CacheTTL        duration `toml:"cache_ttl"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled     bool     `toml:"enabled"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Subgraph: SubgraphConfig{
			URL:          "",
			PageSize:     1000,
			MaxPositions: 0,
		},
		Postgres: PostgresConfig{
			DSN:          "",
			Host:         "localhost",
			Port:         5432,
			Database:     "postgres",
			User:         "postgres",
			SSLMode:      "disable",
			PoolMaxConns: 10,
			PoolMinConns: 2,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		Leaderboard: LeaderboardConfig{
			TopN:            10,
			Scale:           10_000,
			Parallelism:     4,
			RefreshInterval: duration{5 * time.Minute},
			CacheTTL:        duration{10 * time.Minute},
		},
		Server: ServerConfig{
			Enabled:     true,
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Source:   "subgraph",
		Mode:     "serve",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"compute": true,
	"serve":   true,
}

// validSources enumerates the accepted values for Config.Source.
var validSources = map[string]bool{
	"subgraph": true,
	"postgres": true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: compute, serve)", c.Mode))
	}

	if !validSources[strings.ToLower(c.Source)] {
		errs = append(errs, fmt.Sprintf("unknown source %q (valid: subgraph, postgres)", c.Source))
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Subgraph
	if strings.ToLower(c.Source) == "subgraph" {
		if c.Subgraph.URL == "" {
			errs = append(errs, "subgraph: url must not be empty when source is subgraph")
		}
		if c.Subgraph.PageSize < 1 {
			errs = append(errs, "subgraph: page_size must be >= 1")
		}
		if c.Subgraph.MaxPositions < 0 {
			errs = append(errs, "subgraph: max_positions must be >= 0 (0 means unlimited)")
		}
	}

	// Postgres
	if strings.ToLower(c.Source) == "postgres" && strings.TrimSpace(c.Postgres.DSN) == "" {
		if c.Postgres.Host == "" {
			errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
		}
		if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
			errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
		}
		if c.Postgres.Database == "" {
			errs = append(errs, "postgres: database must not be empty")
		}
	}
	if c.Postgres.PoolMaxConns < 1 {
		errs = append(errs, "postgres: pool_max_conns must be >= 1")
	}
	if c.Postgres.PoolMinConns < 0 {
		errs = append(errs, "postgres: pool_min_conns must be >= 0")
	}
	if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
		errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
	}

	// Redis
	if c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty")
	}
	if c.Redis.PoolSize < 1 {
		errs = append(errs, "redis: pool_size must be >= 1")
	}

	// Leaderboard
	if c.Leaderboard.TopN < 1 {
		errs = append(errs, "leaderboard: top_n must be >= 1")
	}
	if c.Leaderboard.Scale < 1 {
		errs = append(errs, "leaderboard: scale must be >= 1")
	}
	if c.Leaderboard.Parallelism < 0 {
		errs = append(errs, "leaderboard: parallelism must be >= 0")
	}
	if c.Leaderboard.RefreshInterval.Duration <= 0 {
		errs = append(errs, "leaderboard: refresh_interval must be positive")
	}
	if c.Leaderboard.CacheTTL.Duration < 0 {
		errs = append(errs, "leaderboard: cache_ttl must be >= 0 (0 means no expiry)")
	}

	// Server
	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
