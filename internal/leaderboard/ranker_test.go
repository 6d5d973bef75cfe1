package leaderboard

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/polyboard/internal/domain"
)

func aggEntry(user string, earnings int64) domain.AggregatedPosition {
	return domain.AggregatedPosition{
		User:     user,
		Earnings: big.NewInt(earnings),
		Invested: big.NewInt(1),
	}
}

func TestRankSortsByEarningsDescending(t *testing.T) {
	ranked := Rank([]domain.AggregatedPosition{
		aggEntry("0xaaa", 150),
		aggEntry("0xbbb", 200),
		aggEntry("0xccc", 50),
	}, DefaultTopN)

	require.Equal(t, []string{"0xbbb", "0xaaa", "0xccc"},
		[]string{ranked[0].User, ranked[1].User, ranked[2].User})
}

func TestRankTruncatesToTopN(t *testing.T) {
	var aggregated []domain.AggregatedPosition
	for i := int64(1); i <= 15; i++ {
		aggregated = append(aggregated, aggEntry(string(rune('a'+i-1)), i))
	}

	ranked := Rank(aggregated, DefaultTopN)
	require.Len(t, ranked, 10)
	for i := range ranked {
		require.Equal(t, int64(15-i), ranked[i].Earnings.Int64())
	}
}

func TestRankStableOnTies(t *testing.T) {
	aggregated := []domain.AggregatedPosition{
		aggEntry("0xaaa", 100),
		aggEntry("0xbbb", 100),
		aggEntry("0xccc", 100),
	}

	ranked := Rank(aggregated, DefaultTopN)
	require.Equal(t, "0xaaa", ranked[0].User)
	require.Equal(t, "0xbbb", ranked[1].User)
	require.Equal(t, "0xccc", ranked[2].User)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	aggregated := []domain.AggregatedPosition{
		aggEntry("0xaaa", 1),
		aggEntry("0xbbb", 2),
	}
	_ = Rank(aggregated, 1)
	require.Equal(t, "0xaaa", aggregated[0].User)
	require.Len(t, aggregated, 2)
}

func TestRankFewerThanTopN(t *testing.T) {
	ranked := Rank([]domain.AggregatedPosition{aggEntry("0xaaa", 1)}, DefaultTopN)
	require.Len(t, ranked, 1)
}

func TestRankEmpty(t *testing.T) {
	require.Empty(t, Rank(nil, DefaultTopN))
}
