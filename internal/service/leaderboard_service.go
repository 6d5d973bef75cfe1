package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alanyoungcy/polyboard/internal/domain"
	"github.com/alanyoungcy/polyboard/internal/leaderboard"
)

// RefreshChannel is the pub/sub channel leaderboard updates are announced on.
const RefreshChannel = "leaderboard"

// refreshStream keeps a bounded history of refresh events.
const refreshStream = "leaderboard:refreshes"

// LeaderboardService fetches the raw position dataset, runs the leaderboard
// pipeline, and fans the result out to the cache and signal bus. Cache and
// bus are optional; computation errors always propagate while fan-out
// failures are only logged.
type LeaderboardService struct {
	source domain.PositionSource
	cache  domain.LeaderboardCache
	bus    domain.SignalBus
	opts   leaderboard.Options
	limit  int
	logger *slog.Logger
}

// NewLeaderboardService creates a LeaderboardService. cache and bus may be
// nil; limit caps how many positions are fetched per run (<= 0 for all).
func NewLeaderboardService(
	source domain.PositionSource,
	cache domain.LeaderboardCache,
	bus domain.SignalBus,
	opts leaderboard.Options,
	limit int,
	logger *slog.Logger,
) *LeaderboardService {
	return &LeaderboardService{
		source: source,
		cache:  cache,
		bus:    bus,
		opts:   opts,
		limit:  limit,
		logger: logger,
	}
}

// Refresh fetches positions, computes a fresh leaderboard, caches it, and
// publishes a refresh event. Either a complete leaderboard is returned or
// the run fails; there is no partial result.
func (s *LeaderboardService) Refresh(ctx context.Context) (domain.Leaderboard, error) {
	runID := uuid.NewString()
	start := time.Now()

	positions, err := s.source.FetchPositions(ctx, s.limit)
	if err != nil {
		return domain.Leaderboard{}, fmt.Errorf("leaderboard_service: fetch positions: %w", err)
	}

	lb, err := leaderboard.Compute(positions, s.opts)
	if err != nil {
		return domain.Leaderboard{}, fmt.Errorf("leaderboard_service: compute: %w", err)
	}

	if s.cache != nil {
		if cacheErr := s.cache.Set(ctx, lb); cacheErr != nil {
			s.logger.WarnContext(ctx, "leaderboard_service: cache write failed",
				slog.String("run_id", runID),
				slog.String("error", cacheErr.Error()),
			)
		}
	}

	if s.bus != nil {
		evt, _ := json.Marshal(map[string]any{
			"event":       "leaderboard_refreshed",
			"run_id":      runID,
			"users":       len(lb.Entries),
			"positions":   len(positions),
			"computed_at": lb.ComputedAt,
		})
		if pubErr := s.bus.Publish(ctx, RefreshChannel, evt); pubErr != nil {
			s.logger.WarnContext(ctx, "leaderboard_service: publish event failed",
				slog.String("run_id", runID),
				slog.String("error", pubErr.Error()),
			)
		}
		if streamErr := s.bus.StreamAppend(ctx, refreshStream, evt); streamErr != nil {
			s.logger.WarnContext(ctx, "leaderboard_service: stream append failed",
				slog.String("run_id", runID),
				slog.String("error", streamErr.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "leaderboard_service: leaderboard refreshed",
		slog.String("run_id", runID),
		slog.Int("positions", len(positions)),
		slog.Int("users", len(lb.Entries)),
		slog.Duration("duration", time.Since(start)),
	)

	return lb, nil
}

// Latest returns the cached leaderboard when one exists, falling back to a
// full refresh on a cache miss.
func (s *LeaderboardService) Latest(ctx context.Context) (domain.Leaderboard, error) {
	if s.cache != nil {
		lb, err := s.cache.Get(ctx)
		if err == nil {
			return lb, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "leaderboard_service: cache read failed",
				slog.String("error", err.Error()),
			)
		}
	}
	return s.Refresh(ctx)
}

// RefreshHistory returns up to count recent refresh events from the bus
// stream, oldest first.
func (s *LeaderboardService) RefreshHistory(ctx context.Context, count int) ([]domain.StreamMessage, error) {
	if s.bus == nil {
		return nil, nil
	}
	msgs, err := s.bus.StreamRead(ctx, refreshStream, "0", count)
	if err != nil {
		return nil, fmt.Errorf("leaderboard_service: refresh history: %w", err)
	}
	return msgs, nil
}

// RunLoop refreshes the leaderboard immediately and then on every tick
// until the context is cancelled. Refresh failures are logged and the loop
// keeps going; a stale leaderboard stays served rather than a broken one.
func (s *LeaderboardService) RunLoop(ctx context.Context, interval time.Duration) error {
	refresh := func() {
		if _, err := s.Refresh(ctx); err != nil {
			s.logger.ErrorContext(ctx, "leaderboard_service: refresh failed",
				slog.String("error", err.Error()),
			)
		}
	}

	refresh()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			refresh()
		}
	}
}
