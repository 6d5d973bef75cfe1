package leaderboard

import (
	"math/big"

	"github.com/alanyoungcy/polyboard/internal/domain"
)

// Aggregate groups valuated positions by user and sums invested, earnings,
// and ROI per group. ROI is summed, not investment-weighted; that mirrors
// the historical leaderboard metric and is part of the output contract.
// The result keeps first-seen user order so a later stable sort stays
// deterministic for a given input ordering.
func Aggregate(valuated []domain.ValuatedPosition) []domain.AggregatedPosition {
	totals := make(map[string]*domain.AggregatedPosition, len(valuated))
	order := make([]string, 0, len(valuated))

	for _, v := range valuated {
		agg, ok := totals[v.User]
		if !ok {
			totals[v.User] = &domain.AggregatedPosition{
				User:     v.User,
				Earnings: new(big.Int).Set(v.Earnings),
				Invested: new(big.Int).Set(v.Invested),
				ROI:      v.ROI,
			}
			order = append(order, v.User)
			continue
		}
		agg.Earnings.Add(agg.Earnings, v.Earnings)
		agg.Invested.Add(agg.Invested, v.Invested)
		agg.ROI = agg.ROI.Add(v.ROI)
	}

	out := make([]domain.AggregatedPosition, 0, len(order))
	for _, user := range order {
		out = append(out, *totals[user])
	}
	return out
}
