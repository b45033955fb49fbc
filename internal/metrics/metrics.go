package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "attendance"

// Metrics records what the statistics service does. A nil *Metrics records nothing.
type Metrics struct {
	rows     *prometheus.CounterVec
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func New(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Rows read from attendance exports, by outcome.",
		}, []string{"site", "outcome"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Statistics computations, by result.",
		}, []string{"site", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Time spent aggregating an attendance export.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"site"}),
	}
	registerer.MustRegister(m.rows, m.runs, m.duration)
	return m
}

type Run struct {
	Site          string
	Accepted      int
	MalformedRows int
	ParseErrors   int
	Empty         bool
	Duration      time.Duration
}

func (m *Metrics) ObserveRun(run Run) {
	if m == nil {
		return
	}
	m.rows.WithLabelValues(run.Site, "accepted").Add(float64(run.Accepted))
	m.rows.WithLabelValues(run.Site, "malformed_row").Add(float64(run.MalformedRows))
	m.rows.WithLabelValues(run.Site, "parse_error").Add(float64(run.ParseErrors))
	result := "ok"
	if run.Empty {
		result = "empty"
	}
	m.runs.WithLabelValues(run.Site, result).Inc()
	m.duration.WithLabelValues(run.Site).Observe(run.Duration.Seconds())
}

func (m *Metrics) ObserveCacheHit(site string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(site, "cached").Inc()
}
