package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for list query metrics.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// ListQueryMetrics tracks list pipeline executions per resource.
type ListQueryMetrics struct {
	queries  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	matched  *prometheus.GaugeVec
}

// NewListQueryMetrics creates the list query collectors and registers them on reg.
func NewListQueryMetrics(reg *Registry) *ListQueryMetrics {
	m := &ListQueryMetrics{
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hrportal_list_queries_total",
				Help: "Total number of list queries by resource and outcome",
			},
			[]string{"resource", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hrportal_list_query_duration_seconds",
				Help:    "Time spent loading and querying a collection",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"resource"},
		),
		matched: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hrportal_list_matched_records",
				Help: "Records matched by the most recent list query",
			},
			[]string{"resource"},
		),
	}
	reg.MustRegister(m.queries, m.duration, m.matched)
	return m
}

// Observe records one query. matched is only recorded for successful queries.
func (m *ListQueryMetrics) Observe(resource, outcome string, duration time.Duration, matched int) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(resource, outcome).Inc()
	m.duration.WithLabelValues(resource).Observe(duration.Seconds())
	if outcome == OutcomeOK {
		m.matched.WithLabelValues(resource).Set(float64(matched))
	}
}
