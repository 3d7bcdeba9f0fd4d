package archive

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/windrose-etl/internal/domain"
	"github.com/couchcryptid/windrose-etl/internal/observability"
)

// TableCache stores normalized tables between runs.
type TableCache interface {
	Get(key string) (domain.Table, bool, error)
	Put(key string, t domain.Table) error
}

// Source loads one station's archive and normalizes it. Cache and Metrics
// are optional.
type Source struct {
	Network domain.Network
	Path    string
	Cache   TableCache
	Metrics *observability.Metrics
	Logger  *slog.Logger
}

// NewSource resolves station through loc and returns a loader for its file.
func NewSource(loc Locator, n domain.Network, station string, cache TableCache, metrics *observability.Metrics, logger *slog.Logger) (*Source, error) {
	path, err := loc.Resolve(n, station)
	if err != nil {
		return nil, err
	}
	return &Source{Network: n, Path: path, Cache: cache, Metrics: metrics, Logger: logger}, nil
}

// Name identifies the source in logs and notifications.
func (s *Source) Name() string { return string(s.Network) }

// Load reads and normalizes the archive file, going through the cache when
// one is configured.
func (s *Source) Load(ctx context.Context) (domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(s.Path)
	if err != nil {
		return nil, &domain.SourceNotFoundError{Source: string(s.Network), Path: s.Path}
	}

	key := cacheKey(s.Network, s.Path, info)
	if s.Cache != nil {
		t, ok, err := s.Cache.Get(key)
		if err != nil {
			s.logger().Warn("table cache read failed", "path", s.Path, "error", err)
		} else if ok {
			s.countCache("hit")
			s.logger().Debug("table cache hit", "path", s.Path, "rows", len(t))
			return t, nil
		}
		s.countCache("miss")
	}

	adapter, err := For(s.Network)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s archive: %w", s.Network, err)
	}
	defer f.Close()

	t, err := adapter.Normalize(f)
	if err != nil {
		return nil, err
	}
	s.logger().Info("archive loaded", "source", s.Network, "path", s.Path, "rows", len(t))

	if s.Cache != nil {
		if err := s.Cache.Put(key, t); err != nil {
			s.logger().Warn("table cache write failed", "path", s.Path, "error", err)
		}
	}
	return t, nil
}

func (s *Source) countCache(result string) {
	if s.Metrics != nil {
		s.Metrics.TableCache.WithLabelValues(result).Inc()
	}
}

func (s *Source) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// cacheKey changes whenever the file is replaced or rewritten.
func cacheKey(n domain.Network, path string, info os.FileInfo) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return fmt.Sprintf("%s|%s|%d|%d", n, path, info.Size(), info.ModTime().UnixNano())
}
