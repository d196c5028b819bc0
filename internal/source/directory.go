package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/wonny/rankboard/internal/contracts"
	"github.com/wonny/rankboard/internal/metrics"
	"github.com/wonny/rankboard/internal/period"
)

// Directory reads <root>/<YYYYMM><suffix> CSV files on every request
type Directory struct {
	root    string
	suffix  string
	metrics *metrics.Registry
}

// NewDirectory creates a directory-backed source
func NewDirectory(root, suffix string, m *metrics.Registry) *Directory {
	if suffix == "" {
		suffix = ".csv"
	}
	return &Directory{root: root, suffix: suffix, metrics: m}
}

// GetTable reads and parses the period's file
func (d *Directory) GetTable(_ context.Context, key period.Key) (*contracts.RankingTable, error) {
	start := time.Now()
	filePath := filepath.Join(d.root, key.String()+d.suffix)

	f, err := os.Open(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		d.metrics.ObserveFetch("directory", metrics.OutcomeNotFound, time.Since(start))
		return nil, contracts.Unavailable(key, nil)
	}
	if err != nil {
		d.metrics.ObserveFetch("directory", metrics.OutcomeError, time.Since(start))
		return nil, fmt.Errorf("open %s: %w", filePath, err)
	}
	defer f.Close()

	table, err := ReadCSV(key, f)
	if err != nil {
		d.metrics.ObserveFetch("directory", metrics.OutcomeError, time.Since(start))
		return nil, contracts.Unavailable(key, err)
	}

	d.metrics.ObserveFetch("directory", metrics.OutcomeOK, time.Since(start))
	return table, nil
}
