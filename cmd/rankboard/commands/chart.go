package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/rankboard/internal/render"
)

// chartCmd represents the chart command
var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Print the sector breakdown of the top-N",
	Long: `Prints how the top-N companies of a month split across sectors.

With --trend, prints the change in each sector's share of the top-N
against the previous month instead (gains green, losses red).
The sector filter does not apply here.

Example:
  go run ./cmd/rankboard chart --month June --year 2023 --top "top 100"
  go run ./cmd/rankboard chart --month January --year 2023 --top "top 200" --trend`,
	RunE: runChart,
}

var (
	chartFlags  selectionFlags
	chartTrend  bool
	chartFormat string
)

func init() {
	rootCmd.AddCommand(chartCmd)

	chartFlags.register(chartCmd, "top 100")
	chartCmd.Flags().BoolVar(&chartTrend, "trend", false, "compare with the previous month")
	chartCmd.Flags().StringVar(&chartFormat, "format", render.FormatTable, "output format (table|json|yaml)")
}

func runChart(cmd *cobra.Command, args []string) error {
	if !render.ValidFormat(chartFormat) || chartFormat == render.FormatCSV {
		return fmt.Errorf("unsupported format %q", chartFormat)
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	sel, err := chartFlags.selection(a.periods.Latest())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if chartTrend {
		result, err := a.resolver.Trend(ctx, sel)
		if err != nil {
			return err
		}
		switch chartFormat {
		case render.FormatJSON:
			return render.JSON(out, result)
		case render.FormatYAML:
			return render.YAML(out, result)
		}
		return render.Trend(out, result)
	}

	result, err := a.resolver.Distribution(ctx, sel)
	if err != nil {
		return err
	}
	switch chartFormat {
	case render.FormatJSON:
		return render.JSON(out, result)
	case render.FormatYAML:
		return render.YAML(out, result)
	}
	return render.Distribution(out, result)
}
