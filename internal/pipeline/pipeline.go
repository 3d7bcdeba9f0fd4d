package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/couchcryptid/windrose-etl/internal/domain"
	"github.com/couchcryptid/windrose-etl/internal/observability"
)

// Source produces the canonical table for one run.
type Source interface {
	Name() string
	Load(ctx context.Context) (domain.Table, error)
}

// Renderer turns one finalized table into an image and returns its path.
type Renderer interface {
	Render(ctx context.Context, req domain.RenderRequest) (string, error)
}

// Publisher announces rendered images.
type Publisher interface {
	Publish(ctx context.Context, events []domain.RoseRendered) error
}

// Job is the user's request for one run.
type Job struct {
	Station string
	Period  string // "D/M/Y" or "D/M/Y-D/M/Y"; empty for the whole table
	Hours   string // hour grammar such as "0-6,18-23"; empty for all hours
	Roses   []domain.RoseType
	Annual  bool
	Style   domain.Style
}

// Result summarises a completed run.
type Result struct {
	RunID        string
	Rows         int
	FirstYear    int
	LastYear     int
	Images       []domain.RoseRendered
	SkippedYears []int
}

// Pipeline runs the load, slice, gate and render stages in order.
type Pipeline struct {
	renderer  Renderer
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline. publisher may be nil.
func New(r Renderer, pub Publisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		renderer:  r,
		publisher: pub,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run executes one job against src. Any stage error aborts the run; only
// unusable single years are skipped.
func (p *Pipeline) Run(ctx context.Context, src Source, job Job) (Result, error) {
	start := domain.Now()
	res := Result{RunID: uuid.NewString()}
	logger := p.logger.With("run_id", res.RunID, "station", job.Station, "source", src.Name())

	if err := job.Style.Validate(); err != nil {
		return res, err
	}
	if _, err := domain.ParseHours(job.Hours); err != nil {
		return res, err
	}

	table, err := src.Load(ctx)
	if err != nil {
		return res, fmt.Errorf("load %s: %w", src.Name(), err)
	}
	p.metrics.RowsIngested.WithLabelValues(src.Name()).Add(float64(len(table)))
	logger.Info("table loaded", "rows", len(table))

	table, err = p.prepare(logger, table, job, &res)
	if err != nil {
		return res, err
	}

	for _, rose := range job.Roses {
		if err := p.renderRose(ctx, logger, src.Name(), rose, table, job, &res); err != nil {
			return res, err
		}
	}

	p.publish(ctx, logger, res.Images)
	p.metrics.RunDuration.Observe(domain.Now().Sub(start).Seconds())
	logger.Info("run complete",
		"images", len(res.Images),
		"first_year", res.FirstYear,
		"last_year", res.LastYear,
		"skipped_years", res.SkippedYears,
	)
	return res, nil
}

// prepare applies the period, hour and calm stages and the validity gate.
func (p *Pipeline) prepare(logger *slog.Logger, table domain.Table, job Job, res *Result) (domain.Table, error) {
	before := len(table)
	sliced, err := domain.SliceByPeriod(table, job.Period)
	if err != nil {
		return nil, err
	}
	if sliced.StartClamped {
		logger.Warn("requested period starts before available data, using data start",
			"period", job.Period, "first_year", sliced.FirstYear)
	}
	if sliced.EndClamped {
		logger.Warn("requested period ends after available data, using data end",
			"period", job.Period, "last_year", sliced.LastYear)
	}
	table = sliced.Table
	res.FirstYear, res.LastYear = sliced.FirstYear, sliced.LastYear
	p.metrics.RowsRemoved.WithLabelValues("period").Add(float64(before - len(table)))

	before = len(table)
	table, hours, err := domain.SliceByHours(table, job.Hours)
	if err != nil {
		return nil, err
	}
	p.metrics.RowsRemoved.WithLabelValues("hours").Add(float64(before - len(table)))
	if hours.Len() < 24 {
		logger.Info("hour filter applied", "hours", hours.Hours(), "rows", len(table))
	}

	table = domain.ReplaceCalms(table, job.Style.CalmThreshold)
	p.metrics.CalmsReplaced.Add(float64(countCalms(table)))

	if err := domain.RequireUsable(table, job.Station); err != nil {
		return nil, err
	}
	res.Rows = len(table)
	return table, nil
}

// renderRose renders the whole-period image and then, when requested, each
// usable year in ascending order.
func (p *Pipeline) renderRose(ctx context.Context, logger *slog.Logger, source string, rose domain.RoseType, table domain.Table, job Job, res *Result) error {
	if err := p.render(ctx, source, rose, domain.AllDataLabel, table, job, res); err != nil {
		return err
	}
	if !job.Annual {
		return nil
	}

	for _, yt := range domain.PartitionByYear(table) {
		label := domain.YearLabel(yt.Year)
		ok, _ := domain.CheckUsable(yt.Table, label, false)
		if !ok {
			logger.Warn("no usable data for year, skipping", "rose", rose.Name(), "year", yt.Year, "rows", len(yt.Table))
			p.metrics.YearsSkipped.Inc()
			res.SkippedYears = appendYear(res.SkippedYears, yt.Year)
			continue
		}
		if err := p.render(ctx, source, rose, label, yt.Table, job, res); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) render(ctx context.Context, source string, rose domain.RoseType, label string, table domain.Table, job Job, res *Result) error {
	req := domain.NewRenderRequest(job.Station, rose, label, table, job.Style)
	path, err := p.renderer.Render(ctx, req)
	if err != nil {
		p.metrics.RenderErrors.Inc()
		return fmt.Errorf("render %s %s: %w", rose.Name(), label, err)
	}
	p.metrics.RosesRendered.WithLabelValues(rose.Name()).Inc()
	res.Images = append(res.Images, domain.RoseRendered{
		RunID:      res.RunID,
		Station:    job.Station,
		Source:     source,
		RoseType:   rose.Name(),
		Label:      label,
		Path:       path,
		Rows:       len(table),
		FirstYear:  res.FirstYear,
		LastYear:   res.LastYear,
		RenderedAt: domain.Now(),
	})
	return nil
}

// publish is best effort: images are already on disk.
func (p *Pipeline) publish(ctx context.Context, logger *slog.Logger, events []domain.RoseRendered) {
	if p.publisher == nil || len(events) == 0 {
		return
	}
	if err := p.publisher.Publish(ctx, events); err != nil {
		logger.Error("publish rose notifications failed", "error", err, "count", len(events))
		p.metrics.Notifications.WithLabelValues("error").Add(float64(len(events)))
		return
	}
	p.metrics.Notifications.WithLabelValues("success").Add(float64(len(events)))
}

func countCalms(t domain.Table) int {
	n := 0
	for _, o := range t {
		if o.Direction != nil && *o.Direction == domain.CalmDirection {
			n++
		}
	}
	return n
}

// appendYear records a skipped year once even when several rose types skip it.
func appendYear(years []int, year int) []int {
	for _, y := range years {
		if y == year {
			return years
		}
	}
	return append(years, year)
}
