package source

import (
	"context"
	"sort"

	"github.com/wonny/rankboard/internal/contracts"
	"github.com/wonny/rankboard/internal/period"
)

// Index maps period keys to tables loaded once at startup.
// It is never written after construction, so concurrent reads need no lock.
type Index struct {
	name   string
	tables map[period.Key]*contracts.RankingTable
}

func newIndex(name string, tables map[period.Key]*contracts.RankingTable) *Index {
	return &Index{name: name, tables: tables}
}

// GetTable returns the table loaded for key
func (i *Index) GetTable(_ context.Context, key period.Key) (*contracts.RankingTable, error) {
	table, ok := i.tables[key]
	if !ok {
		return nil, contracts.Unavailable(key, nil)
	}
	return table, nil
}

// Keys lists the loaded periods, oldest first
func (i *Index) Keys() []period.Key {
	keys := make([]period.Key, 0, len(i.tables))
	for k := range i.tables {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool { return keys[a].Before(keys[b]) })
	return keys
}

// Len returns the number of loaded periods
func (i *Index) Len() int {
	return len(i.tables)
}

// Name identifies the strategy in logs and metrics
func (i *Index) Name() string {
	return i.name
}
