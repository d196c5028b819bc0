package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/rankboard/internal/contracts"
	"github.com/wonny/rankboard/internal/metrics"
	"github.com/wonny/rankboard/internal/period"
)

// Querier is the read side of pgxpool.Pool
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Postgres reads tables from ranking.monthly_rankings. It never writes.
type Postgres struct {
	db      Querier
	metrics *metrics.Registry
}

// NewPostgres creates a database-backed source
func NewPostgres(db Querier, m *metrics.Registry) *Postgres {
	return &Postgres{db: db, metrics: m}
}

const tableQuery = `
	SELECT identifier, rank, COALESCE(sector, ''), COALESCE(fields, '{}'::jsonb)
	FROM ranking.monthly_rankings
	WHERE period_key = $1
	ORDER BY rank
`

// GetTable loads one period; zero rows means the period has no data
func (p *Postgres) GetTable(ctx context.Context, key period.Key) (*contracts.RankingTable, error) {
	start := time.Now()

	rows, err := p.db.Query(ctx, tableQuery, key.String())
	if err != nil {
		p.metrics.ObserveFetch("postgres", metrics.OutcomeError, time.Since(start))
		return nil, fmt.Errorf("query rankings %s: %w", key, err)
	}
	defer rows.Close()

	var out []contracts.RankingRow
	extra := make(map[string]bool)
	for rows.Next() {
		var row contracts.RankingRow
		var raw []byte
		if err := rows.Scan(&row.Identifier, &row.Rank, &row.Sector, &raw); err != nil {
			p.metrics.ObserveFetch("postgres", metrics.OutcomeError, time.Since(start))
			return nil, fmt.Errorf("scan ranking row: %w", err)
		}

		fields, err := decodeFields(raw)
		if err != nil {
			p.metrics.ObserveFetch("postgres", metrics.OutcomeError, time.Since(start))
			return nil, fmt.Errorf("decode fields of %s: %w", row.Identifier, err)
		}
		for k := range fields {
			extra[k] = true
		}
		fields[identifierColumn] = row.Identifier
		fields["Rank"] = strconv.Itoa(row.Rank)
		fields[contracts.SectorColumn] = row.Sector
		row.Fields = fields

		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		p.metrics.ObserveFetch("postgres", metrics.OutcomeError, time.Since(start))
		return nil, fmt.Errorf("iterate rankings %s: %w", key, err)
	}

	if len(out) == 0 {
		p.metrics.ObserveFetch("postgres", metrics.OutcomeNotFound, time.Since(start))
		return nil, contracts.Unavailable(key, nil)
	}

	p.metrics.ObserveFetch("postgres", metrics.OutcomeOK, time.Since(start))
	return &contracts.RankingTable{
		Period:  key,
		Columns: tableColumns(extra),
		Rows:    out,
	}, nil
}

// decodeFields flattens a jsonb object into strings, keeping numbers verbatim
func decodeFields(raw []byte) (map[string]string, error) {
	values := make(map[string]interface{})
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&values); err != nil {
		return nil, err
	}

	fields := make(map[string]string, len(values)+3)
	for k, v := range values {
		switch val := v.(type) {
		case nil:
			fields[k] = ""
		case string:
			fields[k] = val
		default:
			fields[k] = fmt.Sprint(val)
		}
	}
	return fields, nil
}

func tableColumns(extra map[string]bool) []string {
	columns := []string{identifierColumn, "Rank", contracts.SectorColumn}
	names := make([]string, 0, len(extra))
	for k := range extra {
		if k == identifierColumn || k == "Rank" || k == contracts.SectorColumn {
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names)
	return append(columns, names...)
}
