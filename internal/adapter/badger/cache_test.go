package badger

import (
	"io"
	"log/slog"
	"testing"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/windrose-etl/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleTable() domain.Table {
	start := time.Date(2019, 1, 1, 1, 0, 0, 0, time.UTC)
	return domain.Table{
		{Time: start, Speed: domain.Reading(0), Direction: domain.Reading(domain.CalmDirection)},
		{Time: start.Add(time.Hour), Speed: domain.Reading(3.5), Direction: nil},
		{Time: start.Add(2 * time.Hour), Speed: nil, Direction: domain.Reading(0)},
	}
}

func TestTableCache_PutGet(t *testing.T) {
	c, err := OpenInMemory(discardLogger())
	require.NoError(t, err)
	defer c.Close()

	want := sampleTable()
	require.NoError(t, c.Put("BOM|/data/Sydney_60min.csv|120|1", want))

	got, ok, err := c.Get("BOM|/data/Sydney_60min.csv|120|1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestTableCache_ZeroReadingsSurvive(t *testing.T) {
	c, err := OpenInMemory(discardLogger())
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Put("k", sampleTable()))
	got, _, err := c.Get("k")
	require.NoError(t, err)

	require.NotNil(t, got[0].Speed)
	assert.Zero(t, *got[0].Speed)
	require.NotNil(t, got[2].Direction)
	assert.Zero(t, *got[2].Direction)
}

func TestTableCache_Miss(t *testing.T) {
	c, err := OpenInMemory(discardLogger())
	require.NoError(t, err)
	defer c.Close()

	got, ok, err := c.Get("absent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestTableCache_PersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()

	c, err := Open(dir, discardLogger())
	require.NoError(t, err)
	require.NoError(t, c.Put("k", sampleTable()))
	require.NoError(t, c.Close())

	c, err = Open(dir, discardLogger())
	require.NoError(t, err)
	defer c.Close()

	got, ok, err := c.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got, 3)
}

func TestTableCache_CorruptEntry(t *testing.T) {
	c, err := OpenInMemory(discardLogger())
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(keyPrefix+"bad"), []byte("not gob"))
	}))

	_, ok, err := c.Get("bad")
	require.Error(t, err)
	assert.False(t, ok)
}
