package domain

import "context"

// PositionSource supplies the raw position dataset the leaderboard is
// computed from. Implementations fetch from the positions subgraph or read
// a local snapshot table; either way the full dataset is materialized in
// memory before computation starts.
type PositionSource interface {
	FetchPositions(ctx context.Context, limit int) ([]RawPosition, error)
}

// LeaderboardCache stores the most recently computed leaderboard so the
// presentation layer can serve it without recomputing. It caches the
// pipeline output only, never raw market data.
type LeaderboardCache interface {
	Set(ctx context.Context, lb Leaderboard) error
	Get(ctx context.Context) (Leaderboard, error)
}

// StreamMessage represents a single entry from a Redis stream.
type StreamMessage struct {
	ID      string
	Payload []byte
}

// SignalBus provides pub/sub and durable streams for leaderboard refresh
// notifications.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	StreamAppend(ctx context.Context, stream string, payload []byte) error
	StreamRead(ctx context.Context, stream string, lastID string, count int) ([]StreamMessage, error)
}
