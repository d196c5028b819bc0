package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/rankboard/internal/contracts"
	"github.com/wonny/rankboard/internal/metrics"
	"github.com/wonny/rankboard/internal/period"
	"github.com/wonny/rankboard/pkg/config"
	"github.com/wonny/rankboard/pkg/httputil"
	"github.com/wonny/rankboard/pkg/logger"
	"github.com/wonny/rankboard/pkg/redis"
)

// Dependencies are the shared clients a source may need
type Dependencies struct {
	Logger  *logger.Logger
	Metrics *metrics.Registry

	// DB is required for the postgres source
	DB Querier

	// Redis backs the second-level table cache; nil or disabled skips it
	Redis *redis.Client
}

// Opened is the source selected by configuration
type Opened struct {
	Kind   string
	Source contracts.RankingSource

	// Cache is set when a per-request source is wrapped in Cached
	Cache *Cached

	// Index is set for sources loaded fully at startup (workbook, archive)
	Index *Index

	// Remote is set for the remote source; it can discover published periods
	Remote *Remote
}

// Open builds the source named by cfg.Source.Kind.
// Workbook and archive sources are loaded eagerly and served from memory;
// remote, directory and postgres sources are wrapped in Cached when caching is enabled.
// ⭐ SSOT: 데이터 소스 선택은 여기서만
func Open(cfg *config.Config, deps Dependencies) (*Opened, error) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	opened := &Opened{Kind: cfg.Source.Kind}
	var perRequest contracts.RankingSource

	switch cfg.Source.Kind {
	case config.SourceWorkbook:
		idx, err := LoadWorkbook(cfg.Source.Path, log)
		if err != nil {
			return nil, err
		}
		opened.Index = idx
		opened.Source = idx

	case config.SourceArchive:
		idx, err := LoadArchive(cfg.Source.Path, log)
		if err != nil {
			return nil, err
		}
		opened.Index = idx
		opened.Source = idx

	case config.SourceRemote:
		client := httputil.New(log, cfg.Source.FetchTimeout).
			WithRateLimit(cfg.Source.RatePerSec).
			WithCircuitBreaker("ranking-remote", 5, 30*time.Second)
		remote := NewRemote(client, RemoteConfig{
			BaseURL:  cfg.Source.BaseURL,
			Suffix:   cfg.Source.Suffix,
			IndexURL: cfg.Source.IndexURL,
		}, log, deps.Metrics)
		opened.Remote = remote
		perRequest = remote

	case config.SourceDirectory:
		perRequest = NewDirectory(cfg.Source.Path, cfg.Source.Suffix, deps.Metrics)

	case config.SourcePostgres:
		if deps.DB == nil {
			return nil, errors.New("postgres source requires a database connection")
		}
		perRequest = NewPostgres(deps.DB, deps.Metrics)

	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}

	if perRequest != nil {
		opened.Source = perRequest
		if cfg.Cache.Enabled {
			var remoteCache *redis.Cache
			if deps.Redis != nil && deps.Redis.Enabled() {
				remoteCache = redis.NewCache(deps.Redis, "rankboard")
			}
			opened.Cache = NewCached(perRequest, cfg.Cache.TTL, remoteCache, log, deps.Metrics)
			opened.Source = opened.Cache
		}
	}

	if opened.Index != nil {
		deps.Metrics.SetResident(opened.Index.Len())
	}

	log.WithFields(map[string]interface{}{
		"kind":   cfg.Source.Kind,
		"cached": opened.Cache != nil,
	}).Info("Ranking source opened")

	return opened, nil
}

// Warm preloads keys into the cache. Sources without a cache are already
// resident, so every key they hold counts as loaded.
func (o *Opened) Warm(ctx context.Context, keys []period.Key) (*WarmResult, error) {
	if o.Cache != nil {
		return o.Cache.Warm(ctx, keys)
	}

	result := &WarmResult{Loaded: []period.Key{}, Missing: []period.Key{}}
	for _, key := range keys {
		if _, err := o.Source.GetTable(ctx, key); err != nil {
			result.Missing = append(result.Missing, key)
			continue
		}
		result.Loaded = append(result.Loaded, key)
	}
	return result, nil
}
