package render

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/wonny/rankboard/internal/contracts"
	"github.com/wonny/rankboard/internal/period"
	"github.com/wonny/rankboard/internal/ranking"
)

func init() {
	color.NoColor = true
}

func sample() *contracts.RankingTable {
	return &contracts.RankingTable{
		Period:  period.MustKey(2023, 6),
		Columns: []string{"Ticker", contracts.SectorColumn},
		Rows: []contracts.RankingRow{
			{Identifier: "AAPL", Rank: 1, Sector: "Technology", Fields: map[string]string{"Ticker": "AAPL", contracts.SectorColumn: "Technology"}},
			{Identifier: "XOM", Rank: 2, Sector: "Energy", Fields: map[string]string{"Ticker": "XOM", contracts.SectorColumn: "Energy"}},
			{Identifier: "JPM", Rank: 3, Sector: "Financials", Fields: map[string]string{"Ticker": "JPM", contracts.SectorColumn: "Financials"}},
		},
	}
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{"table", "json", "yaml", "csv"} {
		assert.True(t, ValidFormat(f), f)
	}
	assert.False(t, ValidFormat("xml"))
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, sample()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"Rank", "Ticker", contracts.SectorColumn}, records[0])
	assert.Equal(t, []string{"2", "XOM", "Energy"}, records[2])
}

func TestCSV_SourceRankColumnNotDuplicated(t *testing.T) {
	table := sample()
	table.Columns = []string{"Ticker", "Rank"}
	for i := range table.Rows {
		table.Rows[i].Fields["Rank"] = "source"
	}

	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, table))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "Ticker,Rank", lines[0])
	assert.Equal(t, "AAPL,1", lines[1])
}

func TestTable_Limit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, sample(), 2))

	out := buf.String()
	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "XOM")
	assert.NotContains(t, out, "JPM")
	assert.Contains(t, out, "... 1 more rows")
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, YAML(&buf, sample()))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "202306", decoded["period"])
	assert.Len(t, decoded["rows"], 3)
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sample()))
	assert.Contains(t, buf.String(), `"period": "202306"`)
}

func TestDistribution(t *testing.T) {
	dist := contracts.SectorDistribution{"Technology": 60, "Energy": 40}
	result := &ranking.DistributionResult{
		Period:       period.MustKey(2023, 6),
		TopN:         100,
		Distribution: dist,
		Sorted:       dist.Sorted(),
	}

	var buf bytes.Buffer
	require.NoError(t, Distribution(&buf, result))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[2], "Technology"))
	assert.Equal(t, barWidth, strings.Count(lines[2], "█"))
	assert.Equal(t, 26, strings.Count(lines[3], "█"))
}

func TestDistribution_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Distribution(&buf, &ranking.DistributionResult{Period: period.MustKey(2023, 6), TopN: 100}))
	assert.Contains(t, buf.String(), "no sector data")
}

func TestTrend(t *testing.T) {
	result := &ranking.TrendResult{
		Period:       period.MustKey(2023, 6),
		Previous:     period.MustKey(2023, 5),
		TopN:         100,
		Current:      contracts.SectorDistribution{"Technology": 60, "Energy": 40},
		PreviousDist: contracts.SectorDistribution{"Energy": 100},
		Delta:        contracts.SectorWeightDelta{"Technology": 0.6, "Energy": -0.6},
	}

	var buf bytes.Buffer
	require.NoError(t, Trend(&buf, result))

	out := buf.String()
	assert.Contains(t, out, "202306 vs 202305")
	assert.Contains(t, out, "+60.0%")
	assert.Contains(t, out, "-60.0%")
}
