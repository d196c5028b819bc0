package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/rankboard/internal/period"
	"github.com/wonny/rankboard/internal/source"
	"github.com/wonny/rankboard/pkg/logger"
)

type fakeWarmer struct {
	available map[period.Key]bool
	requested []period.Key
}

func (w *fakeWarmer) Warm(_ context.Context, keys []period.Key) (*source.WarmResult, error) {
	w.requested = keys
	result := &source.WarmResult{}
	for _, k := range keys {
		if w.available[k] {
			result.Loaded = append(result.Loaded, k)
		} else {
			result.Missing = append(result.Missing, k)
		}
	}
	return result, nil
}

type fakeDiscoverer []period.Key

func (d fakeDiscoverer) Discover(context.Context) ([]period.Key, error) {
	return d, nil
}

type fakeSweeper int

func (s fakeSweeper) Sweep() int { return int(s) }

func testRange(t *testing.T) period.Range {
	t.Helper()
	r, err := period.NewRange("202301", "202306")
	require.NoError(t, err)
	return r
}

func TestCacheWarmJob_Run(t *testing.T) {
	warmer := &fakeWarmer{available: map[period.Key]bool{period.MustKey(2023, 1): true}}
	job := NewCacheWarmJob(warmer, RangeKeys(testRange(t)), "@hourly", logger.Nop())

	assert.Equal(t, "cache_warm", job.Name())
	assert.Equal(t, "@hourly", job.Schedule())

	require.NoError(t, job.Run(context.Background()))
	assert.Len(t, warmer.requested, 6)
}

func TestCacheWarmJob_NothingLoadedFails(t *testing.T) {
	job := NewCacheWarmJob(&fakeWarmer{}, RangeKeys(testRange(t)), "@hourly", logger.Nop())
	assert.Error(t, job.Run(context.Background()))
}

func TestCacheWarmJob_ListerError(t *testing.T) {
	lister := func(context.Context) ([]period.Key, error) { return nil, errors.New("index offline") }
	job := NewCacheWarmJob(&fakeWarmer{}, lister, "@hourly", logger.Nop())
	assert.Error(t, job.Run(context.Background()))
}

func TestCacheWarmJob_NoKeys(t *testing.T) {
	lister := func(context.Context) ([]period.Key, error) { return nil, nil }
	warmer := &fakeWarmer{}
	job := NewCacheWarmJob(warmer, lister, "@hourly", logger.Nop())

	assert.NoError(t, job.Run(context.Background()))
	assert.Nil(t, warmer.requested)
}

func TestDiscoveredKeys(t *testing.T) {
	d := fakeDiscoverer{period.MustKey(2022, 12), period.MustKey(2023, 2), period.MustKey(2023, 7)}

	keys, err := DiscoveredKeys(d, testRange(t))(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []period.Key{period.MustKey(2023, 2)}, keys)
}

func TestCacheSweepJob(t *testing.T) {
	job := NewCacheSweepJob(fakeSweeper(3), logger.Nop())

	assert.Equal(t, "cache_sweep", job.Name())
	assert.NoError(t, job.Run(context.Background()))
}
