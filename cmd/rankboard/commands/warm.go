package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/rankboard/internal/period"
)

// warmCmd represents the warm command
var warmCmd = &cobra.Command{
	Use:   "warm [YYYYMM...]",
	Short: "Prefetch period tables into the cache",
	Long: `Fetches every configured period (or only the given ones) once.

With REDIS_ENABLED the tables land in Redis and are shared by every
API instance; without it this only checks that each period loads.

Example:
  go run ./cmd/rankboard warm
  go run ./cmd/rankboard warm 202306 202307`,
	RunE: runWarm,
}

func init() {
	rootCmd.AddCommand(warmCmd)
}

func runWarm(cmd *cobra.Command, args []string) error {
	keys := make([]period.Key, 0, len(args))
	for _, arg := range args {
		k, err := period.ParseKey(arg)
		if err != nil {
			return err
		}
		keys = append(keys, k)
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	if len(keys) == 0 {
		keys = a.periods.Keys()
	}

	start := time.Now()
	result, err := a.opened.Warm(ctx, keys)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✅ Loaded %d/%d periods in %.2fs\n", len(result.Loaded), len(keys), time.Since(start).Seconds())
	if len(result.Missing) > 0 {
		fmt.Fprint(out, "⚠️  No data for:")
		for _, k := range result.Missing {
			fmt.Fprintf(out, " %s", k)
		}
		fmt.Fprintln(out)
	}
	return nil
}
