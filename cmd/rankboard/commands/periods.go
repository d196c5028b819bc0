package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// periodsCmd represents the periods command
var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "List the configured period keys",
	Long: `Lists every YYYYMM key between PERIOD_START and PERIOD_END.

With --available, probes the source and marks periods that have no table.
For a remote source with SOURCE_INDEX_URL, --discover lists the periods
the index page currently links to.

Example:
  go run ./cmd/rankboard periods
  go run ./cmd/rankboard periods --available`,
	RunE: runPeriods,
}

var (
	periodsAvailable bool
	periodsDiscover  bool
)

func init() {
	rootCmd.AddCommand(periodsCmd)

	periodsCmd.Flags().BoolVar(&periodsAvailable, "available", false, "probe the source for each period")
	periodsCmd.Flags().BoolVar(&periodsDiscover, "discover", false, "list periods linked from the remote index page")
}

func runPeriods(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()

	if periodsDiscover {
		if a.opened.Remote == nil {
			return fmt.Errorf("--discover needs SOURCE_KIND=remote")
		}
		keys, err := a.opened.Remote.Discover(ctx)
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Fprintln(out, k)
		}
		return nil
	}

	for _, k := range a.periods.Keys() {
		if !periodsAvailable {
			fmt.Fprintln(out, k)
			continue
		}
		if _, err := a.resolver.TableByKey(ctx, k); err != nil {
			fmt.Fprintf(out, "%s  missing\n", k)
		} else {
			fmt.Fprintf(out, "%s  ok\n", k)
		}
	}
	return nil
}
