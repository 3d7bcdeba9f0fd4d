package customcsv

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/windrose-etl/internal/domain"
)

// SourceName labels custom-file runs in logs, metrics and notifications.
const SourceName = "custom"

// Source loads a custom CSV file from disk.
type Source struct {
	Path    string
	Options Options
	Logger  *slog.Logger
}

func (s *Source) Name() string { return SourceName }

// Load validates the options before opening the file.
func (s *Source) Load(ctx context.Context) (domain.Table, error) {
	if err := s.Options.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &domain.SourceNotFoundError{Source: SourceName, Path: s.Path}
		}
		return nil, fmt.Errorf("open custom csv: %w", err)
	}
	defer f.Close()

	t, err := ReadTable(f, s.Options)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("custom csv loaded", "path", s.Path, "rows", len(t))
	}
	return t, nil
}
