// Command genmock writes a synthetic network archive for local runs and
// tests: a BOM one-minute export and a DES station index with one station
// file. It reads the files back through the archive adapters so the output
// is known to normalize.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock -station Sydney -start-year 2017 -years 3
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/couchcryptid/windrose-etl/internal/adapter/archive"
	"github.com/couchcryptid/windrose-etl/internal/domain"
)

// gapEvery drops one reading in this many to exercise missing values.
const gapEvery = 97

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data/mock", "output directory; bom/ and des/ are created under it")
	station := flag.String("station", "Sydney", "station name")
	startYear := flag.Int("start-year", 2017, "first calendar year")
	years := flag.Int("years", 3, "number of calendar years")
	seed := flag.Uint64("seed", 42, "random seed")
	flag.Parse()

	if *years < 1 {
		flag.Usage()
		return fmt.Errorf("-years must be at least 1")
	}

	rng := rand.New(rand.NewPCG(*seed, *seed))
	start := time.Date(*startYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(*startYear+*years, time.January, 1, 0, 0, 0, 0, time.UTC)
	series := synthesize(rng, start, end)

	bomDir := filepath.Join(*out, "bom")
	bomPath := filepath.Join(bomDir, *station+"_60min.csv")
	if err := writeBOM(bomPath, series); err != nil {
		return fmt.Errorf("writing BOM archive: %w", err)
	}
	log.Printf("wrote %s (%d rows)", bomPath, len(series))

	desDir := filepath.Join(*out, "des")
	desFile := fmt.Sprintf("%s_1h.csv", *station)
	if err := writeDES(desDir, *station, desFile, series); err != nil {
		return fmt.Errorf("writing DES archive: %w", err)
	}
	log.Printf("wrote %s", filepath.Join(desDir, desFile))

	loc := archive.Locator{Dirs: map[domain.Network]string{domain.NetworkBOM: bomDir, domain.NetworkDES: desDir}}
	for _, n := range []domain.Network{domain.NetworkBOM, domain.NetworkDES} {
		if err := verify(loc, n, *station); err != nil {
			return err
		}
	}
	return nil
}

// sample is one synthetic hourly reading in m/s.
type sample struct {
	time      time.Time
	speed     float64
	direction float64
	missing   bool
}

// synthesize produces a diurnal sea-breeze pattern: light westerlies at night
// and stronger north-easterlies in the afternoon.
func synthesize(rng *rand.Rand, start, end time.Time) []sample {
	var out []sample
	for i, ts := 0, start; ts.Before(end); i, ts = i+1, ts.Add(time.Hour) {
		diurnal := math.Sin(2 * math.Pi * float64(ts.Hour()-9) / 24)
		speed := math.Max(0, 3+2.5*diurnal+rng.NormFloat64())
		dir := 270 - 225*math.Max(0, diurnal) + 20*rng.NormFloat64()
		out = append(out, sample{
			time:      ts,
			speed:     math.Round(speed*10) / 10,
			direction: math.Mod(math.Round(dir)+360, 360),
			missing:   i%gapEvery == gapEvery-1,
		})
	}
	return out
}

func writeBOM(path string, series []sample) error {
	rows := [][]string{{"Station", "Timestamp", "Wind (1 minute) speed in km/h", "Vector Average Wind Direction (in degrees)"}}
	for _, s := range series {
		speed, dir := "", ""
		if !s.missing {
			speed = strconv.FormatFloat(math.Round(s.speed*3.6*10)/10, 'f', -1, 64)
			dir = strconv.FormatFloat(s.direction, 'f', -1, 64)
		}
		rows = append(rows, []string{"066037", s.time.Format("02/01/2006 15:04"), speed, dir})
	}
	return writeCSV(path, rows)
}

func writeDES(dir, station, file string, series []sample) error {
	index := [][]string{{"Station Name", "File Name"}, {station, file}}
	if err := writeCSV(filepath.Join(dir, "__station_list_complete.csv"), index); err != nil {
		return err
	}

	rows := [][]string{{"Date", "WS (m/s)", "WD (deg)"}}
	for _, s := range series {
		speed, dir := "NaN", "NaN"
		if !s.missing {
			speed = strconv.FormatFloat(s.speed, 'f', -1, 64)
			dir = strconv.FormatFloat(s.direction, 'f', -1, 64)
		}
		rows = append(rows, []string{s.time.Format("2/1/2006 15:04"), speed, dir})
	}
	return writeCSV(filepath.Join(dir, file), rows)
}

func writeCSV(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// verify loads the generated file through the real adapter and prints a
// per-year usability summary.
func verify(loc archive.Locator, n domain.Network, station string) error {
	src, err := archive.NewSource(loc, n, station, nil, nil, nil)
	if err != nil {
		return err
	}
	table, err := src.Load(context.Background())
	if err != nil {
		return fmt.Errorf("%s archive does not normalize: %w", n, err)
	}

	fmt.Printf("\n=== %s %s ===\n", n, station)
	fmt.Printf("  rows: %d  mean speed: %.2f m/s  usable: %v\n", len(table), table.SpeedMean(), domain.Usable(table))
	for _, yt := range domain.PartitionByYear(table) {
		fmt.Printf("  %d: %5d rows  usable: %v\n", yt.Year, len(yt.Table), domain.Usable(yt.Table))
	}
	return nil
}
