package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wonny/rankboard/internal/period"
	"github.com/wonny/rankboard/internal/ranking"
)

// selectionFlags are the dashboard form fields as CLI flags
type selectionFlags struct {
	month  string
	year   string
	sector string
	top    string
}

func (f *selectionFlags) register(cmd *cobra.Command, defaultTop string) {
	cmd.Flags().StringVar(&f.month, "month", "", "month name, e.g. June (default: latest configured period)")
	cmd.Flags().StringVar(&f.year, "year", "", "year, e.g. 2023 (default: latest configured period)")
	cmd.Flags().StringVar(&f.sector, "sector", period.SectorAll, "sector filter")
	cmd.Flags().StringVar(&f.top, "top", defaultTop, `top-N selector ("top 100" ... "top 500")`)
}

// selection parses the flags, filling an unset month or year from latest
func (f *selectionFlags) selection(latest period.Key) (ranking.Selection, error) {
	month, year := f.month, f.year
	if month == "" {
		month = period.Months()[latest.Month()-1]
	}
	if year == "" {
		year = strconv.Itoa(latest.Year())
	}
	return ranking.ParseSelection(month, year, f.sector, f.top)
}
