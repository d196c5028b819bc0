package ranking

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/rankboard/internal/contracts"
	"github.com/wonny/rankboard/internal/period"
)

func makeTable(sectors ...string) *contracts.RankingTable {
	rows := make([]contracts.RankingRow, len(sectors))
	for i, s := range sectors {
		rows[i] = contracts.RankingRow{
			Identifier: fmt.Sprintf("T%03d", i+1),
			Rank:       i + 1,
			Sector:     s,
			Fields:     map[string]string{"Ticker": fmt.Sprintf("T%03d", i+1), contracts.SectorColumn: s},
		}
	}
	return &contracts.RankingTable{
		Period:  period.MustKey(2024, 4),
		Columns: []string{"Ticker", contracts.SectorColumn},
		Rows:    rows,
	}
}

func repeat(sector string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = sector
	}
	return out
}

func TestFilterBySector_All(t *testing.T) {
	table := makeTable("Technology", "Energy", "", "Technology")
	assert.Same(t, table, FilterBySector(table, period.SectorAll))
	assert.Same(t, table, FilterBySector(table, ""))

	empty := makeTable()
	assert.Equal(t, 0, FilterBySector(empty, period.SectorAll).Len())
}

func TestFilterBySector_Stable(t *testing.T) {
	table := makeTable("Technology", "Energy", "Technology", "Utilities", "Technology")

	got := FilterBySector(table, "Technology")
	require.Equal(t, 3, got.Len())
	assert.Equal(t, []int{1, 3, 5}, []int{got.Rows[0].Rank, got.Rows[1].Rank, got.Rows[2].Rank})
	assert.Equal(t, table.Period, got.Period)

	// Input untouched
	assert.Equal(t, 5, table.Len())
}

func TestFilterBySector_NoMatches(t *testing.T) {
	got := FilterBySector(makeTable("Technology", "Energy"), "Real Estate")
	require.NotNil(t, got)
	assert.Equal(t, 0, got.Len())
	assert.NotNil(t, got.Rows)
}

func TestTruncateTopN(t *testing.T) {
	table := makeTable(repeat("Energy", 300)...)

	assert.Equal(t, 300, TruncateTopN(table, 500).Len())
	assert.Equal(t, 300, TruncateTopN(table, 300).Len())
	assert.Equal(t, 0, TruncateTopN(table, 0).Len())
	assert.Equal(t, 0, TruncateTopN(table, -5).Len())

	top := TruncateTopN(table, 100)
	require.Equal(t, 100, top.Len())
	assert.Equal(t, 1, top.Rows[0].Rank)
	assert.Equal(t, 100, top.Rows[99].Rank)

	assert.Equal(t, 0, TruncateTopN(makeTable(), 100).Len())
}

func TestDistribution(t *testing.T) {
	dist := Distribution(makeTable("Technology", "Technology", "Energy"))
	assert.Equal(t, contracts.SectorDistribution{"Technology": 2, "Energy": 1}, dist)
}

func TestDistribution_SkipsUnsetSectors(t *testing.T) {
	table := makeTable("Technology", "", "Energy", "", "Energy")
	dist := Distribution(table)

	assert.Equal(t, contracts.SectorDistribution{"Technology": 1, "Energy": 2}, dist)
	assert.Equal(t, 3, dist.Total())
	assert.Empty(t, Distribution(makeTable()))
}

func TestWeightDelta(t *testing.T) {
	current := contracts.SectorDistribution{"Technology": 50, "Energy": 30}
	previous := contracts.SectorDistribution{"Technology": 40, "Energy": 30, "Utilities": 10}

	delta, err := WeightDelta(current, previous, 100)
	require.NoError(t, err)

	require.Len(t, delta, 3)
	assert.InDelta(t, 0.10, delta["Technology"], 1e-9)
	assert.InDelta(t, 0.00, delta["Energy"], 1e-9)
	assert.InDelta(t, -0.10, delta["Utilities"], 1e-9)
}

func TestWeightDelta_NewSector(t *testing.T) {
	delta, err := WeightDelta(contracts.SectorDistribution{"Real Estate": 5}, contracts.SectorDistribution{}, 200)
	require.NoError(t, err)
	assert.InDelta(t, 0.025, delta["Real Estate"], 1e-9)
}

func TestWeightDelta_InvalidN(t *testing.T) {
	_, err := WeightDelta(contracts.SectorDistribution{}, contracts.SectorDistribution{}, 0)
	assert.ErrorIs(t, err, contracts.ErrInvalidArgument)
}
