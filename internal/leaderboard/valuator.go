package leaderboard

import (
	"fmt"
	"math/big"

	ethmath "github.com/ethereum/go-ethereum/common/math"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/polyboard/internal/domain"
	"github.com/alanyoungcy/polyboard/internal/fixedpoint"
)

// Valuate computes earnings and ROI for a single raw position:
//
//	netValue = netQuantity * outcomeTokenPrices[outcomeIndex]
//	earnings = netValue + valueSold - valueBought
//	roi      = earnings / valueBought * 100
//
// A position with zero valueBought fails with domain.ErrDivisionByZero
// rather than reporting zero or infinite ROI; callers that want to keep
// such positions must filter them out beforehand.
func Valuate(p domain.RawPosition, scale int64) (domain.ValuatedPosition, error) {
	netQuantity, err := parseAmount("netQuantity", p.NetQuantity)
	if err != nil {
		return domain.ValuatedPosition{}, err
	}
	valueSold, err := parseAmount("valueSold", p.ValueSold)
	if err != nil {
		return domain.ValuatedPosition{}, err
	}
	valueBought, err := parseAmount("valueBought", p.ValueBought)
	if err != nil {
		return domain.ValuatedPosition{}, err
	}

	if p.OutcomeIndex < 0 || p.OutcomeIndex >= len(p.Market.OutcomeTokenPrices) {
		return domain.ValuatedPosition{}, fmt.Errorf(
			"leaderboard: outcome index %d with %d prices: %w",
			p.OutcomeIndex, len(p.Market.OutcomeTokenPrices), domain.ErrPriceIndexOutOfRange)
	}

	price, err := decimal.NewFromString(p.Market.OutcomeTokenPrices[p.OutcomeIndex])
	if err != nil {
		return domain.ValuatedPosition{}, fmt.Errorf(
			"leaderboard: parse outcome price %q: %w", p.Market.OutcomeTokenPrices[p.OutcomeIndex], err)
	}

	netValue := fixedpoint.Mul(netQuantity, price, scale)

	earnings := new(big.Int).Add(netValue, valueSold)
	earnings.Sub(earnings, valueBought)

	ratio, err := fixedpoint.Div(earnings, valueBought, scale)
	if err != nil {
		return domain.ValuatedPosition{}, fmt.Errorf(
			"leaderboard: roi for user %s: %w", p.User.ID, err)
	}

	return domain.ValuatedPosition{
		User:     p.User.ID,
		Earnings: earnings,
		Invested: valueBought,
		ROI:      ratio.Mul(decimal.NewFromInt(100)),
	}, nil
}

// ValuateAll valuates every raw position, preserving input order in the
// output. Positions have no data dependency on each other, so when
// opts.Parallelism requests it the valuations run on a bounded worker
// group, each writing to its own slot. The first failure aborts the run.
func ValuateAll(positions []domain.RawPosition, opts Options) ([]domain.ValuatedPosition, error) {
	opts = opts.withDefaults()
	out := make([]domain.ValuatedPosition, len(positions))

	if opts.Parallelism < 2 {
		for i, p := range positions {
			v, err := Valuate(p, opts.Scale)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}

	var g errgroup.Group
	g.SetLimit(opts.Parallelism)
	for i, p := range positions {
		i, p := i, p
		g.Go(func() error {
			v, err := Valuate(p, opts.Scale)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// parseAmount parses a base-unit integer string, accepting anything in the
// signed 256-bit range (decimal or 0x-prefixed hex).
func parseAmount(field, s string) (*big.Int, error) {
	n, ok := ethmath.ParseBig256(s)
	if !ok {
		return nil, fmt.Errorf("leaderboard: parse %s %q: %w", field, s, domain.ErrBadAmount)
	}
	return n, nil
}
