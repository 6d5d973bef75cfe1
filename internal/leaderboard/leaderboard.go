// Package leaderboard computes a ranked earnings leaderboard from a raw
// prediction-market position dataset: each position is marked to market
// with scaled fixed-point arithmetic, positions are aggregated per user,
// and the top earners are selected.
package leaderboard

import (
	"time"

	"github.com/alanyoungcy/polyboard/internal/domain"
	"github.com/alanyoungcy/polyboard/internal/fixedpoint"
)

// DefaultTopN is the number of users kept on the leaderboard.
const DefaultTopN = 10

// Options tunes a single pipeline run. The zero value selects the defaults;
// Scale must stay fixed across all calls of one run.
type Options struct {
	// Scale is the fixed-point denominator, default fixedpoint.DefaultScale.
	Scale int64

	// TopN bounds the leaderboard length, default DefaultTopN.
	TopN int

	// Parallelism is the number of concurrent valuation workers. Values
	// below 2 select sequential valuation.
	Parallelism int
}

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = fixedpoint.DefaultScale
	}
	if o.TopN <= 0 {
		o.TopN = DefaultTopN
	}
	return o
}

// Compute runs the full pipeline: valuate every raw position, aggregate per
// user, rank by earnings descending, truncate to the top N. It either
// returns a complete leaderboard or fails on the first bad position; there
// is no partial-result mode. An empty input yields an empty leaderboard.
func Compute(positions []domain.RawPosition, opts Options) (domain.Leaderboard, error) {
	opts = opts.withDefaults()

	valuated, err := ValuateAll(positions, opts)
	if err != nil {
		return domain.Leaderboard{}, err
	}

	entries := Rank(Aggregate(valuated), opts.TopN)

	return domain.Leaderboard{
		Entries:    entries,
		TopN:       opts.TopN,
		ComputedAt: time.Now().UTC(),
	}, nil
}
