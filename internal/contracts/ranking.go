package contracts

import (
	"context"
	"sort"

	"github.com/wonny/rankboard/internal/period"
)

// SectorColumn is the literal column holding a row's industry sector
const SectorColumn = "ICB Industry name"

// RankingRow is one ranked company in one month's table
type RankingRow struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Rank       int    `json:"rank" yaml:"rank"` // 1-based
	Sector     string `json:"sector,omitempty" yaml:"sector,omitempty"`

	// Fields carries every source column verbatim (scores, metadata)
	Fields map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// HasSector reports whether the row's sector is set
func (r RankingRow) HasSector() bool {
	return r.Sector != ""
}

// RankingTable is one period's rows in ascending rank order. Tables are
// read-only once built; derived tables share rows with their source.
// ⭐ SSOT: 랭킹 테이블 구조는 여기서만 정의
type RankingTable struct {
	Period  period.Key   `json:"period" yaml:"period"`
	Columns []string     `json:"columns" yaml:"columns"`
	Rows    []RankingRow `json:"rows" yaml:"rows"`
}

// Len returns the number of rows
func (t *RankingTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// WithRows returns a table with the same period and columns holding rows
func (t *RankingTable) WithRows(rows []RankingRow) *RankingTable {
	return &RankingTable{
		Period:  t.Period,
		Columns: t.Columns,
		Rows:    rows,
	}
}

// RankingSource obtains the ranking table of a period.
// Missing periods return an error wrapping ErrDataUnavailable.
type RankingSource interface {
	GetTable(ctx context.Context, key period.Key) (*RankingTable, error)
}

// SectorDistribution counts rows per sector
type SectorDistribution map[string]int

// SectorCount is one entry of a sorted distribution
type SectorCount struct {
	Sector string `json:"sector" yaml:"sector"`
	Count  int    `json:"count" yaml:"count"`
}

// Total sums all counts
func (d SectorDistribution) Total() int {
	total := 0
	for _, c := range d {
		total += c
	}
	return total
}

// Sorted orders the distribution by descending count, then sector name
func (d SectorDistribution) Sorted() []SectorCount {
	out := make([]SectorCount, 0, len(d))
	for sector, count := range d {
		out = append(out, SectorCount{Sector: sector, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Sector < out[j].Sector
	})
	return out
}

// SectorWeightDelta is the per-sector change in representation between two
// consecutive periods, normalised by top-N
type SectorWeightDelta map[string]float64

// Sectors returns the delta's sectors sorted by name
func (d SectorWeightDelta) Sectors() []string {
	out := make([]string, 0, len(d))
	for sector := range d {
		out = append(out, sector)
	}
	sort.Strings(out)
	return out
}
