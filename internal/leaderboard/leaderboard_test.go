package leaderboard

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/polyboard/internal/domain"
)

// earningsPosition builds a raw position whose earnings come out to exactly
// the given amount: netQuantity 0 at price 0, invested 100, and valueSold
// chosen so that valueSold - valueBought equals the target.
func earningsPosition(user string, earnings int64) domain.RawPosition {
	return domain.RawPosition{
		NetQuantity:  "0",
		ValueSold:    strconv.FormatInt(earnings+100, 10),
		ValueBought:  "100",
		OutcomeIndex: 0,
		Market:       domain.RawMarket{OutcomeTokenPrices: []string{"0"}},
		User:         domain.RawUser{ID: user},
	}
}

func TestComputeTwoUsersScenario(t *testing.T) {
	lb, err := Compute([]domain.RawPosition{
		earningsPosition("A", 100),
		earningsPosition("A", 50),
		earningsPosition("B", 200),
	}, Options{})
	require.NoError(t, err)

	require.Len(t, lb.Entries, 2)
	require.Equal(t, "B", lb.Entries[0].User)
	require.Equal(t, int64(200), lb.Entries[0].Earnings.Int64())
	require.Equal(t, "A", lb.Entries[1].User)
	require.Equal(t, int64(150), lb.Entries[1].Earnings.Int64())
}

func TestComputeFifteenUsersKeepsTopTen(t *testing.T) {
	var positions []domain.RawPosition
	for i := int64(1); i <= 15; i++ {
		positions = append(positions, earningsPosition(fmt.Sprintf("user-%02d", i), i))
	}

	lb, err := Compute(positions, Options{})
	require.NoError(t, err)

	require.Len(t, lb.Entries, 10)
	for i, e := range lb.Entries {
		require.Equal(t, int64(15-i), e.Earnings.Int64())
	}
}

func TestComputeEmptyInput(t *testing.T) {
	lb, err := Compute(nil, Options{})
	require.NoError(t, err)
	require.Empty(t, lb.Entries)
	require.Equal(t, DefaultTopN, lb.TopN)
}

func TestComputeIdempotent(t *testing.T) {
	positions := []domain.RawPosition{
		earningsPosition("A", 5),
		earningsPosition("B", 5),
		earningsPosition("C", 7),
		earningsPosition("A", 2),
	}

	first, err := Compute(positions, Options{})
	require.NoError(t, err)
	second, err := Compute(positions, Options{Parallelism: 8})
	require.NoError(t, err)

	require.Equal(t, first.Entries, second.Entries)
}

func TestComputeFailsOnBadPosition(t *testing.T) {
	positions := []domain.RawPosition{
		earningsPosition("A", 100),
		{NetQuantity: "1", ValueSold: "0", ValueBought: "0",
			Market: domain.RawMarket{OutcomeTokenPrices: []string{"0.5"}},
			User:   domain.RawUser{ID: "B"}},
	}

	_, err := Compute(positions, Options{})
	require.ErrorIs(t, err, domain.ErrDivisionByZero)
}

func TestComputeHonorsTopNOption(t *testing.T) {
	lb, err := Compute([]domain.RawPosition{
		earningsPosition("A", 1),
		earningsPosition("B", 2),
		earningsPosition("C", 3),
	}, Options{TopN: 2})
	require.NoError(t, err)

	require.Len(t, lb.Entries, 2)
	require.Equal(t, "C", lb.Entries[0].User)
	require.Equal(t, "B", lb.Entries[1].User)
}
