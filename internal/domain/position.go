package domain

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// RawPosition is one position row as returned by the positions subgraph.
// Amount fields are base-unit integer strings (possibly 256-bit range) and
// are never mutated after fetch.
type RawPosition struct {
	NetQuantity  string    `json:"netQuantity"`
	ValueSold    string    `json:"valueSold"`
	ValueBought  string    `json:"valueBought"`
	OutcomeIndex int       `json:"outcomeIndex"`
	Market       RawMarket `json:"market"`
	User         RawUser   `json:"user"`
}

// RawMarket carries the market fields the valuator needs: the current
// outcome token prices, indexed by outcome.
type RawMarket struct {
	OutcomeTokenPrices []string `json:"outcomeTokenPrices"`
}

// RawUser identifies the position holder. ID is an opaque string, in
// practice a lowercased wallet address.
type RawUser struct {
	ID string `json:"id"`
}

// ValuatedPosition is a single position marked to market: realized plus
// unrealized earnings and the return on the amount invested.
type ValuatedPosition struct {
	User     string          `json:"user"`
	Earnings *big.Int        `json:"earnings"`
	Invested *big.Int        `json:"invested"`
	ROI      decimal.Decimal `json:"roi"`
}

// AggregatedPosition is the per-user rollup across all of a user's
// positions. ROI is the plain sum of per-position ROI percentages, not an
// investment-weighted average; once more than one position contributes it is
// no longer a percentage in the usual sense.
type AggregatedPosition struct {
	User     string          `json:"user"`
	Earnings *big.Int        `json:"earnings"`
	Invested *big.Int        `json:"invested"`
	ROI      decimal.Decimal `json:"roi"`
}

// Leaderboard is the terminal output: at most TopN users ordered by
// earnings descending.
type Leaderboard struct {
	Entries    []AggregatedPosition `json:"entries"`
	TopN       int                  `json:"top_n"`
	ComputedAt time.Time            `json:"computed_at"`
}
