package commands

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check configuration and source connectivity",
	Long: `Loads the configuration, opens the ranking source and probes it.

This command:
- loads config (.env or --config)
- opens the configured source (database and Redis when enabled)
- reports database pool health for the postgres source
- fetches the latest configured period

Example:
  go run ./cmd/rankboard check
  go run ./cmd/rankboard check --config deploy/staging.env`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== rankboard check ===")

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	a, err := newApp(ctx, os.Stderr)
	if err != nil {
		return fmt.Errorf("❌ %w", err)
	}
	defer a.close()

	fmt.Fprintf(out, "✅ Config loaded (ENV: %s)\n", a.cfg.Env)
	fmt.Fprintf(out, "   Source: %s\n", a.cfg.Source.Kind)
	switch {
	case a.cfg.Source.BaseURL != "":
		fmt.Fprintf(out, "   Base URL: %s\n", a.cfg.Source.BaseURL)
	case a.cfg.Database.URL != "" && a.db != nil:
		fmt.Fprintf(out, "   Database URL: %s\n", maskPassword(a.cfg.Database.URL))
	default:
		fmt.Fprintf(out, "   Path: %s\n", a.cfg.Source.Path)
	}
	fmt.Fprintf(out, "   Periods: %s ~ %s (%d)\n", a.periods.Start, a.periods.End, len(a.periods.Keys()))

	if a.opened.Index != nil {
		fmt.Fprintf(out, "✅ %d tables loaded into memory\n", a.opened.Index.Len())
	}

	if a.db != nil {
		status := a.db.HealthCheck(ctx)
		if !status.Healthy {
			return fmt.Errorf("❌ database health check failed: %s", status.Error)
		}
		fmt.Fprintf(out, "✅ Database healthy (%v, %d/%d idle)\n", status.ResponseTime, status.IdleConns, status.TotalConns)
	}

	if a.redis != nil && a.redis.Enabled() {
		fmt.Fprintln(out, "✅ Redis connected")
	}

	latest := a.periods.Latest()
	table, err := a.resolver.TableByKey(ctx, latest)
	if err != nil {
		fmt.Fprintf(out, "⚠️  Latest period %s: %v\n", latest, err)
		return nil
	}
	fmt.Fprintf(out, "✅ Latest period %s: %d rows, %d columns\n", latest, table.Len(), len(table.Columns))

	fmt.Fprintln(out, "\n✅ All checks passed!")
	return nil
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
