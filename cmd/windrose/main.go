// Command windrose renders wind roses for one station of a network archive or
// for a custom CSV file.
//
// Usage:
//
//	windrose station -source BOM -station Sydney -out roses -annual -period 1/1/2017-31/12/2019
//	windrose csv -file site.csv -header-lines 1 -start-date 1/11/2020 -num-hours 720 -ws-col l -wd-col j -station Alphington
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/windrose-etl/internal/adapter/archive"
	badgercache "github.com/couchcryptid/windrose-etl/internal/adapter/badger"
	"github.com/couchcryptid/windrose-etl/internal/adapter/customcsv"
	kafkaadapter "github.com/couchcryptid/windrose-etl/internal/adapter/kafka"
	"github.com/couchcryptid/windrose-etl/internal/adapter/mapbox"
	"github.com/couchcryptid/windrose-etl/internal/adapter/render"
	"github.com/couchcryptid/windrose-etl/internal/config"
	"github.com/couchcryptid/windrose-etl/internal/domain"
	"github.com/couchcryptid/windrose-etl/internal/observability"
	"github.com/couchcryptid/windrose-etl/internal/pipeline"
)

const usage = `usage: windrose <station|csv> [flags]

Run "windrose station -h" or "windrose csv -h" for the flags of each mode.`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Args[1], os.Args[2:]); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(exitCode(err))
	}
}

// exitCode separates usage and configuration problems from data problems.
func exitCode(err error) int {
	var ce *domain.ConfigurationError
	var pe *domain.ParseError
	if errors.As(err, &ce) || errors.As(err, &pe) || errors.Is(err, flag.ErrHelp) {
		return 2
	}
	return 1
}

// runFlags are shared by both modes.
type runFlags struct {
	station     string
	out         string
	prefix      string
	period      string
	hours       string
	annual      bool
	transparent bool
	sel         domain.RoseSelection

	categories string
	calms      float64
	grid       int
	angle      float64
	maxFreq    int
	lat        float64
	lon        float64
	hemisphere string
}

func (f *runFlags) register(fs *flag.FlagSet) {
	d := domain.DefaultStyle()
	fs.StringVar(&f.station, "station", "", "station name; also used in image file names")
	fs.StringVar(&f.out, "out", "roses", "output directory for images")
	fs.StringVar(&f.prefix, "prefix", "", "optional file name prefix")
	fs.StringVar(&f.period, "period", "", `date range "D/M/Y" or "D/M/Y-D/M/Y"; empty for all data`)
	fs.StringVar(&f.hours, "hours", "", `hours of day to keep, e.g. "0-6,18-23"; empty for all`)
	fs.BoolVar(&f.annual, "annual", false, "also render one image per calendar year")
	fs.BoolVar(&f.transparent, "transparent", false, "write transparent copies of default roses")
	fs.BoolVar(&f.sel.AllHours, "all-hours", false, "render the default rose")
	fs.BoolVar(&f.sel.Seasons, "seasons", false, "render seasonal roses")
	fs.BoolVar(&f.sel.SeasonsDaylight, "seasons-daylight", false, "render seasonal day/night roses")
	fs.BoolVar(&f.sel.Monthly, "monthly", false, "render monthly roses")
	fs.BoolVar(&f.sel.AnnualDaylight, "daylight", false, "render day/night roses")

	fs.StringVar(&f.categories, "categories", "0.5,1,2,3,4,5,7,10,15,20", "ascending wind speed categories (m/s)")
	fs.Float64Var(&f.calms, "calms", d.CalmThreshold, "calm threshold (m/s); must equal the first category")
	fs.IntVar(&f.grid, "grid", d.GridSpacing, "frequency grid spacing (%)")
	fs.Float64Var(&f.angle, "angle", d.RayAngle, "direction bin width (degrees)")
	fs.IntVar(&f.maxFreq, "max-freq", 0, "outer frequency ring (%); 0 for automatic")
	fs.Float64Var(&f.lat, "lat", math.NaN(), "station latitude; geocoded or defaulted when unset")
	fs.Float64Var(&f.lon, "long", math.NaN(), "station longitude; geocoded or defaulted when unset")
	fs.StringVar(&f.hemisphere, "hemisphere", d.Hemisphere, "southern or northern")
}

// style builds the run style. coordsGiven is false when neither -lat nor
// -long was supplied.
func (f *runFlags) style() (domain.Style, bool, error) {
	s := domain.DefaultStyle()
	cats, err := domain.ParseCategories(f.categories)
	if err != nil {
		return s, false, err
	}
	s.Categories = cats
	s.CalmThreshold = f.calms
	s.GridSpacing = f.grid
	s.RayAngle = f.angle
	if f.maxFreq != 0 {
		m := f.maxFreq
		s.MaxFreq = &m
	}
	switch f.hemisphere {
	case "southern", "northern":
		s.Hemisphere = f.hemisphere
	default:
		return s, false, &domain.ConfigurationError{Option: "hemisphere", Value: f.hemisphere, Valid: "southern or northern"}
	}

	coordsGiven := !math.IsNaN(f.lat) || !math.IsNaN(f.lon)
	if !math.IsNaN(f.lat) {
		s.Latitude = f.lat
	}
	if !math.IsNaN(f.lon) {
		s.Longitude = f.lon
	}
	return s, coordsGiven, s.Validate()
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, mode string, args []string) error {
	var rf runFlags
	fs := flag.NewFlagSet(mode, flag.ContinueOnError)
	rf.register(fs)

	metrics := observability.NewMetrics()
	var src pipeline.Source

	switch mode {
	case "station":
		network := fs.String("source", "", "archive network: BOM, DES, OEH or EPAV")
		if err := fs.Parse(args); err != nil {
			return err
		}
		n, err := domain.ParseNetwork(*network)
		if err != nil {
			return err
		}
		if rf.station == "" {
			return &domain.ConfigurationError{Option: "station", Value: "", Valid: "a station name"}
		}

		var cache archive.TableCache
		if cfg.CacheDir != "" {
			c, err := badgercache.Open(cfg.CacheDir, logger)
			if err != nil {
				return err
			}
			defer c.Close()
			cache = c
		}
		src, err = archive.NewSource(archive.Locator{Dirs: cfg.DataDirs()}, n, rf.station, cache, metrics, logger)
		if err != nil {
			return err
		}

	case "csv":
		var opts customcsv.Options
		file := fs.String("file", "", "path to the CSV file")
		fs.IntVar(&opts.HeaderLines, "header-lines", 1, "header lines before the data")
		fs.StringVar(&opts.StartDate, "start-date", "", "date of the first row, day first")
		fs.IntVar(&opts.StartHour, "start-hour", 0, "hour of the first row")
		fs.IntVar(&opts.NumHours, "num-hours", 0, "number of hourly rows, e.g. 8760")
		fs.StringVar(&opts.SpeedColumn, "ws-col", "", "wind speed column letter a-y")
		fs.StringVar(&opts.DirectionColumn, "wd-col", "", "wind direction column letter a-y")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := opts.Validate(); err != nil {
			return err
		}
		if rf.station == "" {
			rf.station = "custom"
		}
		src = &customcsv.Source{Path: *file, Options: opts, Logger: logger}

	default:
		fmt.Fprintln(os.Stderr, usage)
		return &domain.ConfigurationError{Option: "mode", Value: mode, Valid: "station or csv"}
	}

	style, coordsGiven, err := rf.style()
	if err != nil {
		return err
	}
	if !coordsGiven {
		style = domain.LocateStation(ctx, style, rf.station, newGeocoder(cfg, metrics, logger), logger)
	}

	renderer, err := render.NewRenderer(rf.out, rf.prefix, rf.transparent, logger)
	if err != nil {
		return err
	}

	var publisher pipeline.Publisher
	if cfg.KafkaEnabled {
		w := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := w.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = w
	}

	p := pipeline.New(renderer, publisher, logger, metrics)
	res, err := p.Run(ctx, src, pipeline.Job{
		Station: rf.station,
		Period:  rf.period,
		Hours:   rf.hours,
		Roses:   domain.SelectRoseTypes(rf.sel),
		Annual:  rf.annual,
		Style:   style,
	})
	pushMetrics(cfg, rf.station, metrics, logger)
	if err != nil {
		return err
	}

	for _, img := range res.Images {
		fmt.Println(img.Path)
	}
	return nil
}

// newGeocoder returns nil when geocoding is disabled.
func newGeocoder(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) domain.Geocoder {
	if !cfg.MapboxEnabled {
		metrics.GeocodeEnabled.Set(0)
		return nil
	}
	metrics.GeocodeEnabled.Set(1)
	client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
	logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	return mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
}

func pushMetrics(cfg *config.Config, station string, metrics *observability.Metrics, logger *slog.Logger) {
	if cfg.PushgatewayURL == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := observability.Push(ctx, cfg.PushgatewayURL, station, metrics); err != nil {
		logger.Warn("metrics push failed", "error", err)
	}
}
