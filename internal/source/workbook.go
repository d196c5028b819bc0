package source

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/wonny/rankboard/internal/contracts"
	"github.com/wonny/rankboard/internal/period"
	"github.com/wonny/rankboard/pkg/logger"
)

// LoadWorkbook reads a multi-sheet .xlsx where every sheet named YYYYMM holds
// that month's table. Other sheets are ignored.
func LoadWorkbook(path string, log *logger.Logger) (*Index, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	tables, err := readSheets(f, log)
	if err != nil {
		return nil, fmt.Errorf("workbook %s: %w", path, err)
	}

	log.WithFields(map[string]interface{}{
		"path":   path,
		"tables": len(tables),
	}).Info("Ranking workbook loaded")

	return newIndex("workbook", tables), nil
}

// LoadWorkbookReader is LoadWorkbook over an in-memory workbook
func LoadWorkbookReader(r io.Reader, log *logger.Logger) (*Index, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	tables, err := readSheets(f, log)
	if err != nil {
		return nil, err
	}
	return newIndex("workbook", tables), nil
}

func readSheets(f *excelize.File, log *logger.Logger) (map[period.Key]*contracts.RankingTable, error) {
	tables := make(map[period.Key]*contracts.RankingTable)

	for _, sheet := range f.GetSheetList() {
		key, err := period.ParseKey(sheet)
		if err != nil {
			log.WithField("sheet", sheet).Debug("Skipping non-period sheet")
			continue
		}

		table, err := readSheet(f, sheet, key)
		if err != nil {
			return nil, err
		}
		tables[key] = table
	}

	return tables, nil
}

// readSheet converts one worksheet; an empty sheet yields an empty table
func readSheet(f *excelize.File, sheet string, key period.Key) (*contracts.RankingTable, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return &contracts.RankingTable{Period: key, Columns: []string{}, Rows: []contracts.RankingRow{}}, nil
	}
	return BuildTable(key, rows[0], rows[1:])
}

// readFirstSheet converts the first worksheet of a single-period workbook
func readFirstSheet(r io.Reader, key period.Key) (*contracts.RankingTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("period %s: workbook has no sheets", key)
	}
	return readSheet(f, sheets[0], key)
}
