// Command validate checks the integrity of the configured network archives:
// every indexed station resolves to a file, every file normalizes through its
// adapter, timestamps ascend, and each station has usable wind data.
//
// Usage:
//
//	BOM_DATA_DIR=data/mock/bom DES_DATA_DIR=data/mock/des go run ./cmd/validate -networks BOM,DES
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/windrose-etl/internal/adapter/archive"
	"github.com/couchcryptid/windrose-etl/internal/config"
	"github.com/couchcryptid/windrose-etl/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// stationData is one successfully resolved and loaded station.
type stationData struct {
	network domain.Network
	station string
	table   domain.Table
}

func main() {
	networks := flag.String("networks", "BOM,DES,OEH,EPAV", "comma-separated networks to validate")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		os.Exit(1)
	}

	var selected []domain.Network
	for _, s := range strings.Split(*networks, ",") {
		n, err := domain.ParseNetwork(s)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			os.Exit(2)
		}
		selected = append(selected, n)
	}

	if code := run(archive.Locator{Dirs: cfg.DataDirs()}, selected); code != 0 {
		os.Exit(code)
	}
}

func run(loc archive.Locator, networks []domain.Network) int {
	fmt.Println("=== Wind Archive Integrity Validation ===")
	fmt.Println()

	resolve := &phase{name: "Station resolution"}
	normalize := &phase{name: "Archive normalization"}
	var loaded []stationData

	for _, n := range networks {
		stations, err := listStations(loc, n)
		if err != nil {
			resolve.errorf("%s: %v", n, err)
			continue
		}
		fmt.Printf("  %-5s %d stations\n", n, len(stations))
		for _, st := range stations {
			src, err := archive.NewSource(loc, n, st, nil, nil, nil)
			if err != nil {
				resolve.errorf("%s %s: %v", n, st, err)
				continue
			}
			table, err := src.Load(context.Background())
			if err != nil {
				normalize.errorf("%s %s: %v", n, st, err)
				continue
			}
			loaded = append(loaded, stationData{network: n, station: st, table: table})
		}
	}

	phases := []*phase{
		resolve,
		normalize,
		validateOrdering(loaded),
		validateUsable(loaded),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Stations: %d loaded, %d rows total\n", len(loaded), countRows(loaded))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i >= 20 {
				fmt.Printf("  ... and %d more\n", len(p.errors)-20)
				break
			}
			fmt.Printf("  %s\n", e)
		}
	}

	if !allPassed {
		return 1
	}
	return 0
}

// listStations returns every station name the network's directory offers.
func listStations(loc archive.Locator, n domain.Network) ([]string, error) {
	dir := loc.Dirs[n]
	if dir == "" {
		return nil, &domain.ConfigurationError{Option: string(n) + "_DATA_DIR", Value: "", Valid: "a data directory"}
	}
	if n == domain.NetworkBOM {
		matches, err := filepath.Glob(filepath.Join(dir, "*_60min.csv"))
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, &domain.SourceNotFoundError{Source: string(n), Path: dir}
		}
		out := make([]string, len(matches))
		for i, m := range matches {
			out[i] = strings.TrimSuffix(filepath.Base(m), "_60min.csv")
		}
		return out, nil
	}

	// An unknown station name makes the locator list every indexed station.
	_, err := loc.Resolve(n, "\x00")
	if nf, ok := asNotFound(err); ok && len(nf.Available) > 0 {
		return nf.Available, nil
	}
	if err == nil {
		return nil, fmt.Errorf("%s index resolved a sentinel station name", n)
	}
	return nil, err
}

func asNotFound(err error) (*domain.SourceNotFoundError, bool) {
	var nf *domain.SourceNotFoundError
	ok := errors.As(err, &nf)
	return nf, ok
}

func validateOrdering(stations []stationData) *phase {
	p := &phase{name: "Timestamp ordering"}
	for _, s := range stations {
		for i := 1; i < len(s.table); i++ {
			if s.table[i].Time.Before(s.table[i-1].Time) {
				p.errorf("%s %s: row %d (%s) precedes row %d (%s)",
					s.network, s.station, i+1, s.table[i].Time.Format("2/1/2006 15:04"),
					i, s.table[i-1].Time.Format("2/1/2006 15:04"))
				break
			}
		}
	}
	return p
}

func validateUsable(stations []stationData) *phase {
	p := &phase{name: "Usable wind data"}
	for _, s := range stations {
		if err := domain.RequireUsable(s.table, s.station); err != nil {
			p.errorf("%s: %v", s.network, err)
			continue
		}
		var empty []string
		for _, yt := range domain.PartitionByYear(s.table) {
			if !domain.Usable(yt.Table) {
				empty = append(empty, domain.YearLabel(yt.Year))
			}
		}
		if len(empty) > 0 {
			fmt.Printf("  note: %s %s has no usable data in %s\n", s.network, s.station, strings.Join(empty, ", "))
		}
	}
	return p
}

func countRows(stations []stationData) int {
	n := 0
	for _, s := range stations {
		n += len(s.table)
	}
	return n
}
