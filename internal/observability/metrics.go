package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "windrose_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for a rendering run.
type Metrics struct {
	RowsIngested  *prometheus.CounterVec // labels: source={BOM,DES,OEH,EPAV,custom}
	RowsRemoved   *prometheus.CounterVec // labels: stage={period,hours}
	CalmsReplaced prometheus.Counter
	YearsSkipped  prometheus.Counter
	RosesRendered *prometheus.CounterVec // labels: rose
	RenderErrors  prometheus.Counter
	Notifications *prometheus.CounterVec // labels: outcome={success,error}
	RunDuration   prometheus.Histogram

	// Archive cache metrics.
	TableCache *prometheus.CounterVec // labels: result={hit,miss}

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates and registers all run metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	m := newMetrics()
	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(m.collectors()...)
	return m
}

// Gatherer returns the registry the metrics were registered with.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m.registry != nil {
		return m.registry
	}
	return prometheus.DefaultGatherer
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_ingested_total",
			Help:      "Observations read from a source after normalization.",
		}, []string{"source"}),
		RowsRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_removed_total",
			Help:      "Observations dropped by a filtering stage.",
		}, []string{"stage"}),
		CalmsReplaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calms_replaced_total",
			Help:      "Observations whose direction was set to the calm sentinel.",
		}),
		YearsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "years_skipped_total",
			Help:      "Calendar years skipped because their table was unusable.",
		}),
		RosesRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roses_rendered_total",
			Help:      "Wind rose images written, by rose type.",
		}, []string{"rose"}),
		RenderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_errors_total",
			Help:      "Rendering calls that failed.",
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Rendered-rose notifications by outcome.",
		}, []string{"outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete load-slice-render run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		TableCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "table_cache_total",
			Help:      "Normalized archive cache lookups by result.",
		}, []string{"result"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Station geocoding requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when station geocoding is enabled, 0 otherwise.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RowsIngested,
		m.RowsRemoved,
		m.CalmsReplaced,
		m.YearsSkipped,
		m.RosesRendered,
		m.RenderErrors,
		m.Notifications,
		m.RunDuration,
		m.TableCache,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	}
}
