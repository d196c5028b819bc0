package jobs

import (
	"context"

	"github.com/wonny/rankboard/pkg/logger"
)

// Sweeper evicts expired cache entries
type Sweeper interface {
	Sweep() int
}

// CacheSweepJob removes expired tables from the in-memory cache
type CacheSweepJob struct {
	cache  Sweeper
	logger *logger.Logger
}

// NewCacheSweepJob creates a new cache sweep job
func NewCacheSweepJob(cache Sweeper, log *logger.Logger) *CacheSweepJob {
	return &CacheSweepJob{
		cache:  cache,
		logger: log,
	}
}

// Name returns the job name
func (j *CacheSweepJob) Name() string {
	return "cache_sweep"
}

// Schedule returns the cron schedule (every 15 minutes)
func (j *CacheSweepJob) Schedule() string {
	return "0 */15 * * * *"
}

// Run executes the cache sweep
func (j *CacheSweepJob) Run(ctx context.Context) error {
	if count := j.cache.Sweep(); count > 0 {
		j.logger.WithField("removed", count).Info("Cache sweep completed")
	}
	return nil
}
