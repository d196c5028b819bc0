package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/wonny/rankboard/internal/contracts"
	"github.com/wonny/rankboard/internal/ranking"
)

const barWidth = 40

var (
	barColor  = color.New(color.FgCyan)
	gainColor = color.New(color.FgGreen, color.Bold)
	lossColor = color.New(color.FgRed, color.Bold)
	flatColor = color.New(color.FgHiBlack)
)

// Distribution draws one horizontal bar per sector, longest first
func Distribution(w io.Writer, result *ranking.DistributionResult) error {
	fmt.Fprintf(w, "Sector distribution of top %d, %s\n\n", result.TopN, result.Period)

	sorted := result.Sorted
	if sorted == nil {
		sorted = result.Distribution.Sorted()
	}
	if len(sorted) == 0 {
		_, err := fmt.Fprintln(w, "(no sector data)")
		return err
	}

	width := labelWidth(sorted)
	longest := sorted[0].Count
	for _, sc := range sorted {
		n := 0
		if longest > 0 {
			n = sc.Count * barWidth / longest
		}
		if n == 0 && sc.Count > 0 {
			n = 1
		}
		fmt.Fprintf(w, "%-*s %s %d\n", width, sc.Sector, barColor.Sprint(strings.Repeat("█", n)), sc.Count)
	}
	return nil
}

// Trend lists previous count, current count and weight delta per sector.
// Gains print green and losses red.
func Trend(w io.Writer, result *ranking.TrendResult) error {
	fmt.Fprintf(w, "Sector weight change of top %d, %s vs %s\n\n", result.TopN, result.Period, result.Previous)

	sectors := result.Delta.Sectors()
	width := len("Sector")
	for _, s := range sectors {
		if len(s) > width {
			width = len(s)
		}
	}

	fmt.Fprintf(w, "%-*s %8s %8s %9s\n", width, "Sector", result.Previous.String(), result.Period.String(), "Delta")
	for _, s := range sectors {
		fmt.Fprintf(w, "%-*s %8d %8d %s\n", width, s, result.PreviousDist[s], result.Current[s], deltaCell(result.Delta[s]))
	}
	return nil
}

func deltaCell(d float64) string {
	cell := fmt.Sprintf("%+8.1f%%", d*100)
	switch {
	case d > 0:
		return gainColor.Sprint(cell)
	case d < 0:
		return lossColor.Sprint(cell)
	default:
		return flatColor.Sprint(cell)
	}
}

func labelWidth(sorted []contracts.SectorCount) int {
	width := 0
	for _, sc := range sorted {
		if len(sc.Sector) > width {
			width = len(sc.Sector)
		}
	}
	return width
}
