package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/polyboard/internal/domain"
)

// PositionSource implements domain.PositionSource by reading a previously
// snapshotted market_positions table. Amount columns are stored as text so
// 256-bit values survive the round trip untouched.
type PositionSource struct {
	pool *pgxpool.Pool
}

// NewPositionSource creates a PositionSource backed by the given connection pool.
func NewPositionSource(pool *pgxpool.Pool) *PositionSource {
	return &PositionSource{pool: pool}
}

// FetchPositions returns up to limit raw positions from the snapshot table,
// or all of them when limit <= 0. Rows come back in insertion order so
// repeated runs see the same input ordering.
func (s *PositionSource) FetchPositions(ctx context.Context, limit int) ([]domain.RawPosition, error) {
	query := `
		SELECT user_id, net_quantity, value_sold, value_bought,
		       outcome_index, outcome_token_prices
		FROM market_positions
		ORDER BY id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch positions: %w", err)
	}
	defer rows.Close()

	var positions []domain.RawPosition
	for rows.Next() {
		var p domain.RawPosition
		if err := rows.Scan(
			&p.User.ID,
			&p.NetQuantity, &p.ValueSold, &p.ValueBought,
			&p.OutcomeIndex, &p.Market.OutcomeTokenPrices,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan position: %w", err)
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate positions: %w", err)
	}
	return positions, nil
}

// Compile-time interface check.
var _ domain.PositionSource = (*PositionSource)(nil)
