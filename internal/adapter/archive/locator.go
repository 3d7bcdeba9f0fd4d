package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/windrose-etl/internal/domain"
)

// stationIndexFile lists station names and their data files for the
// non-BOM networks.
const stationIndexFile = "__station_list_complete.csv"

// Locator resolves station names to archive files.
type Locator struct {
	Dirs map[domain.Network]string
}

// Resolve returns the data file for station in network n.
func (l Locator) Resolve(n domain.Network, station string) (string, error) {
	dir := l.Dirs[n]
	if dir == "" {
		return "", &domain.ConfigurationError{Option: string(n) + "_DATA_DIR", Value: "", Valid: "a directory containing the " + string(n) + " archive"}
	}
	if n == domain.NetworkBOM {
		path := filepath.Join(dir, station+"_60min.csv")
		if _, err := os.Stat(path); err != nil {
			return "", &domain.SourceNotFoundError{Source: string(n), Station: station, Path: path}
		}
		return path, nil
	}
	return l.fromIndex(n, dir, station)
}

func (l Locator) fromIndex(n domain.Network, dir, station string) (string, error) {
	indexPath := filepath.Join(dir, stationIndexFile)
	f, err := os.Open(indexPath)
	if errors.Is(err, fs.ErrNotExist) {
		return "", &domain.SourceNotFoundError{Source: string(n), Path: indexPath}
	}
	if err != nil {
		return "", fmt.Errorf("open station index: %w", err)
	}
	defer f.Close()

	df := readFrame(f, true)
	if df.Err != nil {
		return "", fmt.Errorf("read station index %s: %w", indexPath, df.Err)
	}
	names := df.Col("Station Name")
	files := df.Col("File Name")
	if names.Err != nil || files.Err != nil {
		return "", &domain.ParseError{
			Field:  "station index header",
			Input:  strings.Join(df.Names(), ","),
			Format: `"Station Name" and "File Name" columns`,
		}
	}

	available := make([]string, 0, names.Len())
	for i := 0; i < names.Len(); i++ {
		name := elemString(names.Elem(i))
		if name == station {
			return filepath.Join(dir, elemString(files.Elem(i))), nil
		}
		available = append(available, name)
	}
	return "", &domain.SourceNotFoundError{Source: string(n), Station: station, Path: indexPath, Available: available}
}
