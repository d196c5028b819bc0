// Package render writes ranking tables and sector breakdowns for the terminal.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"gopkg.in/yaml.v3"

	"github.com/wonny/rankboard/internal/contracts"
)

// Output formats accepted by the CLI
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatCSV   = "csv"
)

// ValidFormat reports whether f is a known output format
func ValidFormat(f string) bool {
	switch f {
	case FormatTable, FormatJSON, FormatYAML, FormatCSV:
		return true
	}
	return false
}

// JSON writes v as indented JSON
func JSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v as a YAML document
func YAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// CSV writes the table with a leading Rank column, mirroring the source layout
func CSV(w io.Writer, table *contracts.RankingTable) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header(table)); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := cw.Write(record(table, row)); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Table renders at most limit rows (limit <= 0 renders all) as a text table
func Table(w io.Writer, table *contracts.RankingTable, limit int) error {
	tbl := tablewriter.NewWriter(w)
	tbl.Header(header(table))
	tbl.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	rows := table.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		data = append(data, record(table, row))
	}

	if err := tbl.Bulk(data); err != nil {
		return err
	}
	if err := tbl.Render(); err != nil {
		return err
	}

	if len(rows) < table.Len() {
		fmt.Fprintf(w, "... %d more rows\n", table.Len()-len(rows))
	}
	return nil
}

// header prefixes the source columns with Rank unless the source already has one
func header(table *contracts.RankingTable) []string {
	for _, c := range table.Columns {
		if c == "Rank" {
			return table.Columns
		}
	}
	return append([]string{"Rank"}, table.Columns...)
}

func record(table *contracts.RankingTable, row contracts.RankingRow) []string {
	cols := header(table)
	out := make([]string, len(cols))
	for i, c := range cols {
		if c == "Rank" {
			out[i] = strconv.Itoa(row.Rank)
			continue
		}
		out[i] = row.Fields[c]
	}
	return out
}
