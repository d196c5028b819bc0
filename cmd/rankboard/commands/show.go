package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/rankboard/internal/render"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a month's ranking table",
	Long: `Resolves a selection and prints the ranking table.

The table is truncated to the overall top-N first (when --top is given),
then filtered by sector.

Example:
  go run ./cmd/rankboard show --month June --year 2023
  go run ./cmd/rankboard show --month June --year 2023 --sector Energy --top "top 100"
  go run ./cmd/rankboard show --month June --year 2023 --format csv > 202306.csv`,
	RunE: runShow,
}

var (
	showFlags  selectionFlags
	showFormat string
	showLimit  int
)

func init() {
	rootCmd.AddCommand(showCmd)

	showFlags.register(showCmd, "")
	showCmd.Flags().StringVar(&showFormat, "format", render.FormatTable, "output format (table|json|yaml|csv)")
	showCmd.Flags().IntVar(&showLimit, "limit", 50, "rows to print in table format (0 = all)")
}

func runShow(cmd *cobra.Command, args []string) error {
	if !render.ValidFormat(showFormat) {
		return fmt.Errorf("unknown format %q", showFormat)
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	sel, err := showFlags.selection(a.periods.Latest())
	if err != nil {
		return err
	}

	table, err := a.resolver.Table(ctx, sel)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch showFormat {
	case render.FormatJSON:
		return render.JSON(out, table)
	case render.FormatYAML:
		return render.YAML(out, table)
	case render.FormatCSV:
		return render.CSV(out, table)
	default:
		fmt.Fprintf(out, "%s · sector %s · %d rows\n", table.Period, sel.Sector, table.Len())
		return render.Table(out, table, showLimit)
	}
}
