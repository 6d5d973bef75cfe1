package leaderboard

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/polyboard/internal/domain"
)

func TestAggregateGroupsByUser(t *testing.T) {
	valuated, err := ValuateAll([]domain.RawPosition{
		earningsPosition("0xaaa", 100),
		earningsPosition("0xbbb", 200),
		earningsPosition("0xaaa", 50),
	}, Options{})
	require.NoError(t, err)

	aggregated := Aggregate(valuated)
	require.Len(t, aggregated, 2)

	byUser := map[string]domain.AggregatedPosition{}
	for _, a := range aggregated {
		byUser[a.User] = a
	}
	require.Equal(t, int64(150), byUser["0xaaa"].Earnings.Int64())
	require.Equal(t, int64(200), byUser["0xaaa"].Invested.Int64())
	require.Equal(t, int64(200), byUser["0xbbb"].Earnings.Int64())
	require.Equal(t, int64(100), byUser["0xbbb"].Invested.Int64())
}

func TestAggregateSumsROIUnweighted(t *testing.T) {
	// Two positions for the same user with very different invested amounts.
	// The per-user ROI must be the plain sum of the per-position ROIs, not
	// a weighted average over invested value.
	valuated := []domain.ValuatedPosition{
		{User: "0xaaa", Earnings: big.NewInt(10), Invested: big.NewInt(100),
			ROI: decimal.RequireFromString("10")},
		{User: "0xaaa", Earnings: big.NewInt(10), Invested: big.NewInt(1000000),
			ROI: decimal.RequireFromString("0.001")},
	}

	aggregated := Aggregate(valuated)
	require.Len(t, aggregated, 1)
	require.True(t, aggregated[0].ROI.Equal(decimal.RequireFromString("10.001")),
		"roi %s", aggregated[0].ROI)
}

func TestAggregateConservesInvested(t *testing.T) {
	valuated, err := ValuateAll([]domain.RawPosition{
		earningsPosition("0xaaa", 1),
		earningsPosition("0xbbb", 2),
		earningsPosition("0xccc", 3),
		earningsPosition("0xaaa", 4),
		earningsPosition("0xbbb", 5),
	}, Options{})
	require.NoError(t, err)

	inputTotal := new(big.Int)
	for _, v := range valuated {
		inputTotal.Add(inputTotal, v.Invested)
	}

	outputTotal := new(big.Int)
	for _, a := range Aggregate(valuated) {
		outputTotal.Add(outputTotal, a.Invested)
	}

	require.Zero(t, inputTotal.Cmp(outputTotal))
}

func TestAggregateKeepsFirstSeenOrder(t *testing.T) {
	valuated, err := ValuateAll([]domain.RawPosition{
		earningsPosition("0xccc", 1),
		earningsPosition("0xaaa", 1),
		earningsPosition("0xccc", 1),
		earningsPosition("0xbbb", 1),
	}, Options{})
	require.NoError(t, err)

	aggregated := Aggregate(valuated)
	require.Equal(t, "0xccc", aggregated[0].User)
	require.Equal(t, "0xaaa", aggregated[1].User)
	require.Equal(t, "0xbbb", aggregated[2].User)
}

func TestAggregateEmpty(t *testing.T) {
	require.Empty(t, Aggregate(nil))
}
