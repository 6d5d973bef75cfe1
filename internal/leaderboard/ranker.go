package leaderboard

import (
	"sort"

	"github.com/alanyoungcy/polyboard/internal/domain"
)

// Rank sorts aggregated records by earnings descending and truncates to the
// top N. The sort is stable and ties are not broken by any secondary key,
// so equal earners keep the aggregator's output order. The input slice is
// not modified.
func Rank(aggregated []domain.AggregatedPosition, topN int) []domain.AggregatedPosition {
	ranked := make([]domain.AggregatedPosition, len(aggregated))
	copy(ranked, aggregated)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Earnings.Cmp(ranked[j].Earnings) > 0
	})

	if topN >= 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
