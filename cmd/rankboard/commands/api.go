package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/rankboard/internal/api"
	"github.com/wonny/rankboard/internal/api/handlers"
	"github.com/wonny/rankboard/internal/scheduler"
	"github.com/wonny/rankboard/internal/scheduler/jobs"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the dashboard API server",
	Long: `Starts the REST API server for the ranking dashboard.

This command:
- opens the configured ranking source
- serves the ranking endpoints
- serves Prometheus metrics on METRICS_PORT (METRICS_ENABLED)
- warms the table cache on WARM_SCHEDULE (when set)

Endpoints:
  GET  /health                      - Health check
  GET  /api/options                 - Months, years, sectors, top-N literals
  GET  /api/rankings                - Table for ?month=&year=&sector=&top=
  GET  /api/rankings/{YYYYMM}       - Full table of one period
  GET  /api/rankings/distribution   - Sector breakdown of the top-N
  GET  /api/rankings/trend          - Month-over-month sector weight change
  POST /api/rankings/save           - Acknowledge a save request

Example:
  go run ./cmd/rankboard api
  go run ./cmd/rankboard api --port 8081`,
	RunE: runAPIServer,
}

var (
	apiPort string
	apiWarm bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
	apiCmd.Flags().BoolVar(&apiWarm, "warm", false, "warm the cache once before serving")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Config, logger, source
	a, err := newApp(ctx, os.Stdout)
	if err != nil {
		return err
	}
	defer a.close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}
	log := a.log

	log.WithFields(map[string]interface{}{
		"port":    a.cfg.Port,
		"env":     a.cfg.Env,
		"source":  a.cfg.Source.Kind,
		"periods": len(a.periods.Keys()),
	}).Info("Initializing API server")

	// 2. Optional warm-up before accepting traffic
	if apiWarm {
		if _, err := a.opened.Warm(ctx, a.periods.Keys()); err != nil {
			return fmt.Errorf("warm cache: %w", err)
		}
	}

	// 3. Scheduler (cache warm + sweep)
	sched := scheduler.New(log)
	if a.opened.Cache != nil {
		if a.cfg.Cache.WarmSchedule != "" {
			keys := jobs.RangeKeys(a.periods)
			if a.opened.Remote != nil && a.cfg.Source.IndexURL != "" {
				keys = jobs.DiscoveredKeys(a.opened.Remote, a.periods)
			}
			if err := sched.AddJob(jobs.NewCacheWarmJob(a.opened, keys, a.cfg.Cache.WarmSchedule, log)); err != nil {
				return fmt.Errorf("schedule cache warm: %w", err)
			}
		}
		if err := sched.AddJob(jobs.NewCacheSweepJob(a.opened.Cache, log)); err != nil {
			return fmt.Errorf("schedule cache sweep: %w", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	// 4. Router and servers
	rankingHandler := handlers.NewRankingHandler(a.resolver, log)
	router := api.NewRouter(rankingHandler, log, a.metrics)
	server := api.New(a.cfg, log, router)

	servers := []*api.Server{server}
	if a.cfg.MetricsEnabled {
		servers = append(servers, api.NewMetricsServer(a.cfg, log, a.metrics.Handler()))
	}

	errCh := make(chan error, len(servers))
	for _, s := range servers {
		go func(s *api.Server) {
			errCh <- s.Start()
		}(s)
	}

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	if a.cfg.MetricsEnabled {
		fmt.Printf("   Metrics on http://localhost:%s/metrics\n", a.cfg.MetricsPort)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// 5. Wait for interrupt or a server failure
	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
		if serveErr != nil {
			log.WithError(serveErr).Error("Server failed")
		}
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, s := range servers {
		if err := s.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Server shutdown failed")
		}
	}

	log.Info("Server stopped")
	return serveErr
}
