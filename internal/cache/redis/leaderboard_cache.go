package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/polyboard/internal/domain"
)

// leaderboardKey holds the latest computed leaderboard as a JSON blob.
const leaderboardKey = "leaderboard:latest"

// LeaderboardCache implements domain.LeaderboardCache. Only the computed
// pipeline output is stored; raw market data never enters the cache.
type LeaderboardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewLeaderboardCache creates a LeaderboardCache backed by the given Client.
// A ttl of zero keeps entries until the next Set overwrites them.
func NewLeaderboardCache(c *Client, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{rdb: c.Underlying(), ttl: ttl}
}

// Set stores the leaderboard, replacing any previous entry.
func (lc *LeaderboardCache) Set(ctx context.Context, lb domain.Leaderboard) error {
	data, err := json.Marshal(lb)
	if err != nil {
		return fmt.Errorf("redis: marshal leaderboard: %w", err)
	}
	if err := lc.rdb.Set(ctx, leaderboardKey, data, lc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set leaderboard: %w", err)
	}
	return nil
}

// Get retrieves the most recently stored leaderboard. It returns
// domain.ErrNotFound when no leaderboard has been cached yet.
func (lc *LeaderboardCache) Get(ctx context.Context) (domain.Leaderboard, error) {
	data, err := lc.rdb.Get(ctx, leaderboardKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Leaderboard{}, domain.ErrNotFound
		}
		return domain.Leaderboard{}, fmt.Errorf("redis: get leaderboard: %w", err)
	}

	var lb domain.Leaderboard
	if err := json.Unmarshal(data, &lb); err != nil {
		return domain.Leaderboard{}, fmt.Errorf("redis: unmarshal leaderboard: %w", err)
	}
	return lb, nil
}

// Compile-time interface check.
var _ domain.LeaderboardCache = (*LeaderboardCache)(nil)
