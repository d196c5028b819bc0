package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/wonny/rankboard/internal/metrics"
	"github.com/wonny/rankboard/internal/period"
	"github.com/wonny/rankboard/internal/ranking"
	"github.com/wonny/rankboard/internal/source"
	"github.com/wonny/rankboard/pkg/config"
	"github.com/wonny/rankboard/pkg/database"
	"github.com/wonny/rankboard/pkg/logger"
	"github.com/wonny/rankboard/pkg/redis"
)

// app is the wiring every command shares: config, logger, source, resolver
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	metrics  *metrics.Registry
	periods  period.Range
	opened   *source.Opened
	resolver *ranking.Resolver

	db    *database.DB
	redis *redis.Client
}

// newApp loads config and opens the ranking source. CLI commands log to
// stderr so stdout carries only command output.
func newApp(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := config.LoadFrom(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if env != "" {
		cfg.Env = env
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	log := logger.NewWithWriter(cfg, logOut)

	periods, err := period.NewRange(cfg.Period.Start, cfg.Period.End)
	if err != nil {
		return nil, fmt.Errorf("period range: %w", err)
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		metrics: metrics.New(),
		periods: periods,
	}

	deps := source.Dependencies{Logger: log, Metrics: a.metrics}

	if cfg.Source.Kind == config.SourcePostgres {
		a.db, err = database.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		deps.DB = a.db.Pool
		log.Info("Connected to database")
	}

	a.redis, err = redis.New(ctx, cfg)
	if err != nil {
		// The Redis tier is optional; run on the memory cache alone
		log.WithError(err).Warn("Redis unavailable, continuing without second-level cache")
		a.redis = nil
	}
	deps.Redis = a.redis

	a.opened, err = source.Open(cfg, deps)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("open source: %w", err)
	}

	a.resolver = ranking.NewResolver(a.opened.Source, periods, log)
	return a, nil
}

func (a *app) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.WithError(err).Warn("Failed to close Redis")
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}
