package ranking

import (
	"fmt"

	"github.com/wonny/rankboard/internal/contracts"
	"github.com/wonny/rankboard/internal/period"
)

// FilterBySector keeps the rows whose sector equals filter, preserving order.
// "All" (or an empty filter) returns the input table itself.
func FilterBySector(table *contracts.RankingTable, filter string) *contracts.RankingTable {
	if filter == "" || filter == period.SectorAll {
		return table
	}

	rows := make([]contracts.RankingRow, 0)
	for _, row := range table.Rows {
		if row.Sector == filter {
			rows = append(rows, row)
		}
	}
	return table.WithRows(rows)
}

// TruncateTopN keeps the first n rows. Short tables are returned whole; n <= 0 yields an empty table.
func TruncateTopN(table *contracts.RankingTable, n int) *contracts.RankingTable {
	if n <= 0 {
		return table.WithRows([]contracts.RankingRow{})
	}
	if n >= len(table.Rows) {
		return table
	}
	return table.WithRows(table.Rows[:n:n])
}

// Distribution counts rows per sector. Rows with an unset sector are not counted.
func Distribution(table *contracts.RankingTable) contracts.SectorDistribution {
	dist := make(contracts.SectorDistribution)
	for _, row := range table.Rows {
		if !row.HasSector() {
			continue
		}
		dist[row.Sector]++
	}
	return dist
}

// WeightDelta computes (current - previous) / n for every sector present in
// either distribution; a sector missing on one side counts as zero there.
func WeightDelta(current, previous contracts.SectorDistribution, n int) (contracts.SectorWeightDelta, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: weight delta needs a positive top-N, got %d", contracts.ErrInvalidArgument, n)
	}

	delta := make(contracts.SectorWeightDelta, len(current)+len(previous))
	for sector, count := range current {
		delta[sector] = float64(count-previous[sector]) / float64(n)
	}
	for sector, count := range previous {
		if _, seen := current[sector]; !seen {
			delta[sector] = float64(-count) / float64(n)
		}
	}
	return delta, nil
}
