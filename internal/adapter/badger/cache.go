// Package badger persists normalized wind tables in an embedded BadgerDB so
// repeated runs against the same archive file skip CSV parsing.
package badger

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/couchcryptid/windrose-etl/internal/domain"
)

const keyPrefix = "table/"

// TableCache is a BadgerDB-backed store of canonical tables keyed by an
// opaque source key.
type TableCache struct {
	db     *badgerdb.DB
	logger *slog.Logger
}

// Open opens (or creates) the cache under dir.
func Open(dir string, logger *slog.Logger) (*TableCache, error) {
	return open(badgerdb.DefaultOptions(dir), logger)
}

// OpenInMemory opens a cache that is discarded on Close.
func OpenInMemory(logger *slog.Logger) (*TableCache, error) {
	return open(badgerdb.DefaultOptions("").WithInMemory(true), logger)
}

func open(opts badgerdb.Options, logger *slog.Logger) (*TableCache, error) {
	opts = opts.
		WithCompression(options.ZSTD).
		WithNumVersionsToKeep(1).
		WithLogger(badgerLogger{logger})

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open table cache: %w", err)
	}
	logger.Info("table cache opened", "dir", opts.Dir, "in_memory", opts.InMemory)
	return &TableCache{db: db, logger: logger}, nil
}

// Get returns the cached table for key, if present.
func (c *TableCache) Get(key string) (domain.Table, bool, error) {
	var t domain.Table
	err := c.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			t, err = decodeTable(val)
			return err
		})
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("table cache get: %w", err)
	}
	return t, true, nil
}

// Put stores t under key, replacing any previous entry.
func (c *TableCache) Put(key string, t domain.Table) error {
	val, err := encodeTable(t)
	if err != nil {
		return err
	}
	err = c.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(keyPrefix+key), val)
	})
	if err != nil {
		return fmt.Errorf("table cache put: %w", err)
	}
	c.logger.Debug("table cached", "key", key, "rows", len(t), "bytes", len(val))
	return nil
}

// Close flushes and closes the database.
func (c *TableCache) Close() error {
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close table cache: %w", err)
	}
	return nil
}

// row is the stored form of an observation. gob drops pointers to zero
// values, so presence is carried explicitly.
type row struct {
	Unix         int64
	Speed        float64
	Direction    float64
	HasSpeed     bool
	HasDirection bool
}

func encodeTable(t domain.Table) ([]byte, error) {
	rows := make([]row, len(t))
	for i, o := range t {
		rows[i].Unix = o.Time.Unix()
		if o.Speed != nil {
			rows[i].Speed, rows[i].HasSpeed = *o.Speed, true
		}
		if o.Direction != nil {
			rows[i].Direction, rows[i].HasDirection = *o.Direction, true
		}
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rows); err != nil {
		return nil, fmt.Errorf("encode table: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeTable(data []byte) (domain.Table, error) {
	var rows []row
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode table: %w", err)
	}
	t := make(domain.Table, len(rows))
	for i, r := range rows {
		t[i].Time = time.Unix(r.Unix, 0).UTC()
		if r.HasSpeed {
			t[i].Speed = domain.Reading(r.Speed)
		}
		if r.HasDirection {
			t[i].Direction = domain.Reading(r.Direction)
		}
	}
	return t, nil
}

// badgerLogger routes BadgerDB's printf-style logging through slog.
type badgerLogger struct {
	l *slog.Logger
}

func (b badgerLogger) Errorf(format string, args ...any) {
	b.l.Error(fmt.Sprintf(format, args...), "component", "badger")
}

func (b badgerLogger) Warningf(format string, args ...any) {
	b.l.Warn(fmt.Sprintf(format, args...), "component", "badger")
}

func (b badgerLogger) Infof(format string, args ...any) {
	b.l.Debug(fmt.Sprintf(format, args...), "component", "badger")
}

func (b badgerLogger) Debugf(format string, args ...any) {
	b.l.Debug(fmt.Sprintf(format, args...), "component", "badger")
}
