package archive

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/windrose-etl/internal/domain"
	"github.com/couchcryptid/windrose-etl/internal/observability"
)

type memCache struct {
	tables map[string]domain.Table
	getErr error
	puts   int
}

func newMemCache() *memCache { return &memCache{tables: map[string]domain.Table{}} }

func (c *memCache) Get(key string) (domain.Table, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	t, ok := c.tables[key]
	return t, ok, nil
}

func (c *memCache) Put(key string, t domain.Table) error {
	c.puts++
	c.tables[key] = t
	return nil
}

func TestSource_LoadThroughCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Sydney_60min.csv", bomCSV)
	loc := Locator{Dirs: map[domain.Network]string{domain.NetworkBOM: dir}}
	cache := newMemCache()
	metrics := observability.NewMetricsForTesting()

	src, err := NewSource(loc, domain.NetworkBOM, "Sydney", cache, metrics, nil)
	require.NoError(t, err)
	assert.Equal(t, "BOM", src.Name())

	first, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 4)
	assert.Equal(t, 1, cache.puts)

	second, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.puts, "second load is served from the cache")

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.TableCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.TableCache.WithLabelValues("miss")), 0)
}

func TestSource_CacheErrorFallsBackToFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Sydney_60min.csv", bomCSV)
	cache := newMemCache()
	cache.getErr = errors.New("corrupt")

	src := &Source{Network: domain.NetworkBOM, Path: dir + "/Sydney_60min.csv", Cache: cache}
	table, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, table, 4)
}

func TestSource_NoCache(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "liverpool.csv", stationCSV)

	src := &Source{Network: domain.NetworkDES, Path: path}
	table, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, table, 3)
}

func TestSource_MissingFile(t *testing.T) {
	src := &Source{Network: domain.NetworkDES, Path: "/does/not/exist.csv"}
	_, err := src.Load(context.Background())
	var nf *domain.SourceNotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&Source{Network: domain.NetworkDES, Path: "x.csv"}).Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewSource_ResolveError(t *testing.T) {
	_, err := NewSource(Locator{}, domain.NetworkBOM, "Sydney", nil, nil, nil)
	var ce *domain.ConfigurationError
	require.ErrorAs(t, err, &ce)
}
