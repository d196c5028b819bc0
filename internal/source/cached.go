package source

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/wonny/rankboard/internal/contracts"
	"github.com/wonny/rankboard/internal/metrics"
	"github.com/wonny/rankboard/internal/period"
	"github.com/wonny/rankboard/pkg/logger"
	"github.com/wonny/rankboard/pkg/redis"
)

type cacheEntry struct {
	table    *contracts.RankingTable
	storedAt time.Time
}

// Cached memoises a source per period key. Concurrent misses for the same key
// share one fetch; misses (ErrDataUnavailable) are never stored. An optional
// Redis cache sits between memory and the wrapped source.
// ⭐ SSOT: 기간별 테이블 캐시는 여기서만
type Cached struct {
	inner   contracts.RankingSource
	ttl     time.Duration
	remote  *redis.Cache
	logger  *logger.Logger
	metrics *metrics.Registry

	mu      sync.RWMutex
	entries map[period.Key]cacheEntry
	group   singleflight.Group
	now     func() time.Time
}

// NewCached wraps inner. ttl <= 0 keeps entries forever; remote may be nil.
func NewCached(inner contracts.RankingSource, ttl time.Duration, remote *redis.Cache, log *logger.Logger, m *metrics.Registry) *Cached {
	return &Cached{
		inner:   inner,
		ttl:     ttl,
		remote:  remote,
		logger:  log,
		metrics: m,
		entries: make(map[period.Key]cacheEntry),
		now:     time.Now,
	}
}

// GetTable serves from memory, then Redis, then the wrapped source
func (c *Cached) GetTable(ctx context.Context, key period.Key) (*contracts.RankingTable, error) {
	if table, ok := c.lookup(key); ok {
		c.metrics.ObserveCache("memory", true)
		return table, nil
	}
	c.metrics.ObserveCache("memory", false)

	// The shared fetch must not die with whichever request happened to start it
	fetchCtx := context.WithoutCancel(ctx)
	v, err, shared := c.group.Do(key.String(), func() (interface{}, error) {
		return c.load(fetchCtx, key)
	})
	if shared {
		c.logger.WithPeriod(key.String()).Debug("Joined in-flight ranking fetch")
	}
	if err != nil {
		return nil, err
	}
	return v.(*contracts.RankingTable), nil
}

func (c *Cached) load(ctx context.Context, key period.Key) (*contracts.RankingTable, error) {
	// Another flight may have stored it between lookup and Do
	if table, ok := c.lookup(key); ok {
		return table, nil
	}

	if c.remote != nil && c.remote.Enabled() {
		var table contracts.RankingTable
		found, err := c.remote.Get(ctx, redis.TableKey(key.String()), &table)
		if err != nil {
			c.logger.WithPeriod(key.String()).WithError(err).Warn("Redis table lookup failed")
		}
		c.metrics.ObserveCache("redis", found)
		if found {
			c.store(key, &table)
			return &table, nil
		}
	}

	table, err := c.inner.GetTable(ctx, key)
	if err != nil {
		return nil, err
	}

	c.store(key, table)
	if c.remote != nil && c.remote.Enabled() {
		if err := c.remote.Set(ctx, redis.TableKey(key.String()), table, c.ttl); err != nil {
			c.logger.WithPeriod(key.String()).WithError(err).Warn("Redis table store failed")
		}
	}
	return table, nil
}

func (c *Cached) lookup(key period.Key) (*contracts.RankingTable, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(entry.storedAt) > c.ttl {
		return nil, false
	}
	return entry.table, true
}

func (c *Cached) store(key period.Key, table *contracts.RankingTable) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{table: table, storedAt: c.now()}
	n := len(c.entries)
	c.mu.Unlock()

	c.metrics.SetResident(n)
}

// Invalidate drops one period from memory and Redis
func (c *Cached) Invalidate(ctx context.Context, key period.Key) error {
	c.mu.Lock()
	delete(c.entries, key)
	n := len(c.entries)
	c.mu.Unlock()
	c.metrics.SetResident(n)

	if c.remote != nil {
		return c.remote.Delete(ctx, redis.TableKey(key.String()))
	}
	return nil
}

// Sweep drops expired entries from memory and returns how many were removed
func (c *Cached) Sweep() int {
	if c.ttl <= 0 {
		return 0
	}

	now := c.now()
	c.mu.Lock()
	removed := 0
	for key, entry := range c.entries {
		if now.Sub(entry.storedAt) > c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	n := len(c.entries)
	c.mu.Unlock()

	c.metrics.SetResident(n)
	return removed
}

// WarmResult reports a Warm run
type WarmResult struct {
	Loaded  []period.Key `json:"loaded" yaml:"loaded"`
	Missing []period.Key `json:"missing" yaml:"missing"`
}

// Warm fetches keys into the cache sequentially, collecting periods with no data
func (c *Cached) Warm(ctx context.Context, keys []period.Key) (*WarmResult, error) {
	result := &WarmResult{Loaded: []period.Key{}, Missing: []period.Key{}}

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if _, err := c.GetTable(ctx, key); err != nil {
			result.Missing = append(result.Missing, key)
			continue
		}
		result.Loaded = append(result.Loaded, key)
	}

	c.logger.WithFields(map[string]interface{}{
		"loaded":  len(result.Loaded),
		"missing": len(result.Missing),
	}).Info("Ranking cache warmed")

	return result, nil
}

// Resident returns the number of tables held in memory
func (c *Cached) Resident() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
