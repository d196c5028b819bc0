// Package source implements the ranking data-source strategies behind contracts.RankingSource.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/wonny/rankboard/internal/contracts"
	"github.com/wonny/rankboard/internal/period"
)

// identifierColumn names an unnamed first column (a spreadsheet index)
const identifierColumn = "Identifier"

var rankColumns = []string{"Rank", "rank", "Ranking", "ranking"}

// BuildTable converts a header and its records into a RankingTable.
// The first column is the identifier. An explicit rank column is used when
// every row holds a positive integer in it; otherwise rank is the 1-based
// position of the row. Rows are returned in ascending rank order.
func BuildTable(key period.Key, header []string, records [][]string) (*contracts.RankingTable, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("period %s: table has no header", key)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}
	if columns[0] == "" {
		columns[0] = identifierColumn
	}

	sectorIdx := indexOf(columns, contracts.SectorColumn)
	rankIdx := -1
	for _, name := range rankColumns {
		if idx := indexOf(columns, name); idx > 0 {
			rankIdx = idx
			break
		}
	}

	rows := make([]contracts.RankingRow, 0, len(records))
	explicit := rankIdx > 0
	for i, record := range records {
		if isBlank(record) {
			continue
		}

		fields := make(map[string]string, len(columns))
		for j, col := range columns {
			if j < len(record) {
				fields[col] = strings.TrimSpace(record[j])
			} else {
				fields[col] = ""
			}
		}

		row := contracts.RankingRow{
			Identifier: fields[columns[0]],
			Rank:       i + 1,
			Fields:     fields,
		}
		if sectorIdx >= 0 {
			row.Sector = fields[contracts.SectorColumn]
		}
		if explicit {
			rank, err := parseRank(fields[columns[rankIdx]])
			if err != nil {
				explicit = false
			} else {
				row.Rank = rank
			}
		}
		rows = append(rows, row)
	}

	if explicit {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rank < rows[j].Rank })
	} else {
		for i := range rows {
			rows[i].Rank = i + 1
		}
	}

	return &contracts.RankingTable{
		Period:  key,
		Columns: columns,
		Rows:    rows,
	}, nil
}

// ReadCSV parses a CSV ranking table
func ReadCSV(key period.Key, r io.Reader) (*contracts.RankingTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("period %s: empty CSV", key)
	}
	if err != nil {
		return nil, fmt.Errorf("period %s: failed to read CSV header: %w", key, err)
	}
	// Strip a UTF-8 BOM written by spreadsheet exports
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("period %s: failed to read CSV rows: %w", key, err)
	}

	return BuildTable(key, header, records)
}

func parseRank(s string) (int, error) {
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 1 && f == float64(int(f)) {
		return int(f), nil
	}
	return 0, fmt.Errorf("rank %q is not a positive integer", s)
}

func indexOf(columns []string, name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
