package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tartampluch/go-age/internal/config"
)

// Metrics instruments the calendar feed server.
type Metrics struct {
	Registry         *prometheus.Registry
	InsightsComputed *prometheus.CounterVec
	FeedUpdates      prometheus.Counter
	FeedBytes        prometheus.Gauge
	ComputeDuration  prometheus.Histogram
}

// New registers the collectors on a private registry so that several
// servers (and tests) can coexist in one process.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		InsightsComputed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.MetricsNamespace,
			Name:      "insights_computed_total",
			Help:      "Insight computations served over HTTP, by outcome",
		}, []string{"outcome"}),
		FeedUpdates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: config.MetricsNamespace,
			Name:      "feed_updates_total",
			Help:      "Calendar feed publications whose content changed",
		}),
		FeedBytes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: config.MetricsNamespace,
			Name:      "feed_size_bytes",
			Help:      "Size of the calendar currently served",
		}),
		ComputeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: config.MetricsNamespace,
			Name:      "compute_duration_seconds",
			Help:      "Duration of one insight computation",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
	}
}

// ObserveCompute records one /insights computation started at start.
func (m *Metrics) ObserveCompute(start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.InsightsComputed.WithLabelValues(outcome).Inc()
	m.ComputeDuration.Observe(time.Since(start).Seconds())
}

// ObserveFeed records a newly published calendar of size bytes.
// Refreshes that produce identical content are not reported.
func (m *Metrics) ObserveFeed(size int) {
	m.FeedUpdates.Inc()
	m.FeedBytes.Set(float64(size))
}
