package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/rankboard/internal/period"
	"github.com/wonny/rankboard/internal/source"
	"github.com/wonny/rankboard/pkg/logger"
)

// Warmer preloads period tables
type Warmer interface {
	Warm(ctx context.Context, keys []period.Key) (*source.WarmResult, error)
}

// KeyLister returns the periods a warm run should load
type KeyLister func(ctx context.Context) ([]period.Key, error)

// CacheWarmJob preloads every listed period so dashboard requests hit memory
// ⭐ SSOT: 캐시 예열 스케줄은 이 Job에서만
type CacheWarmJob struct {
	warmer   Warmer
	keys     KeyLister
	schedule string
	logger   *logger.Logger
}

// NewCacheWarmJob creates a cache warm job running on schedule
func NewCacheWarmJob(warmer Warmer, keys KeyLister, schedule string, log *logger.Logger) *CacheWarmJob {
	return &CacheWarmJob{
		warmer:   warmer,
		keys:     keys,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *CacheWarmJob) Name() string {
	return "cache_warm"
}

// Schedule returns the configured cron schedule
func (j *CacheWarmJob) Schedule() string {
	return j.schedule
}

// Run warms the cache. Missing periods are expected (months not yet
// published); a run that loads nothing at all is a failure.
func (j *CacheWarmJob) Run(ctx context.Context) error {
	keys, err := j.keys(ctx)
	if err != nil {
		return fmt.Errorf("list periods: %w", err)
	}
	if len(keys) == 0 {
		j.logger.Info("No periods to warm")
		return nil
	}

	result, err := j.warmer.Warm(ctx, keys)
	if err != nil {
		return fmt.Errorf("warm cache: %w", err)
	}

	if len(result.Loaded) == 0 {
		return fmt.Errorf("none of %d periods could be loaded", len(keys))
	}

	if len(result.Missing) > 0 {
		missing := make([]string, len(result.Missing))
		for i, k := range result.Missing {
			missing[i] = k.String()
		}
		j.logger.WithField("missing", missing).Warn("Some periods have no ranking data")
	}

	return nil
}

// RangeKeys lists every period of r
func RangeKeys(r period.Range) KeyLister {
	return func(context.Context) ([]period.Key, error) {
		return r.Keys(), nil
	}
}

// Discoverer lists the periods a remote publisher currently offers
type Discoverer interface {
	Discover(ctx context.Context) ([]period.Key, error)
}

// DiscoveredKeys lists the published periods that fall inside r
func DiscoveredKeys(d Discoverer, r period.Range) KeyLister {
	return func(ctx context.Context) ([]period.Key, error) {
		found, err := d.Discover(ctx)
		if err != nil {
			return nil, err
		}

		keys := make([]period.Key, 0, len(found))
		for _, k := range found {
			if r.Contains(k) {
				keys = append(keys, k)
			}
		}
		return keys, nil
	}
}
