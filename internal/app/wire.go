package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/alanyoungcy/polyboard/internal/cache/redis"
	"github.com/alanyoungcy/polyboard/internal/config"
	"github.com/alanyoungcy/polyboard/internal/domain"
	"github.com/alanyoungcy/polyboard/internal/platform/subgraph"
	"github.com/alanyoungcy/polyboard/internal/store/postgres"
)

// Dependencies bundles every domain-level dependency the application modes
// need to operate. It is constructed by Wire and torn down by the returned
// cleanup function. Cache and Bus are nil in compute mode, which runs the
// pipeline once without Redis.
type Dependencies struct {
	Source domain.PositionSource
	Cache  domain.LeaderboardCache
	Bus    domain.SignalBus
}

// needsRedis returns true for modes that serve the leaderboard and therefore
// cache results and publish refresh events.
func needsRedis(mode string) bool {
	return strings.ToLower(mode) == "serve"
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Position source ---
	switch strings.ToLower(cfg.Source) {
	case "subgraph":
		deps.Source = subgraph.NewClient(cfg.Subgraph.URL, cfg.Subgraph.APIKey, cfg.Subgraph.PageSize)
	case "postgres":
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)
		deps.Source = postgres.NewPositionSource(pgClient.Pool())
	default:
		cleanup()
		return nil, nil, fmt.Errorf("wire: unsupported source %q", cfg.Source)
	}

	// --- Redis (only for modes that serve results) ---
	if needsRedis(cfg.Mode) {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.Cache = redis.NewLeaderboardCache(redisClient, cfg.Leaderboard.CacheTTL.Duration)
		deps.Bus = redis.NewSignalBus(redisClient)
	}

	return deps, cleanup, nil
}
