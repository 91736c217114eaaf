package observability

import (
	"time"

	"github.com/fakhrymubarak/weatherapi-go/pkg/weatherapi"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for upstream WeatherAPI calls.
type Metrics struct {
	FetchRequests *prometheus.CounterVec // labels: outcome
	FetchDuration prometheus.Histogram
}

var _ weatherapi.Observer = (*Metrics)(nil)

// NewMetrics creates and registers the metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.FetchRequests, m.FetchDuration)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weatherapi",
			Name:      "fetch_requests_total",
			Help:      "WeatherAPI current-conditions requests by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weatherapi",
			Name:      "fetch_duration_seconds",
			Help:      "WeatherAPI request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// ObserveFetch records one upstream call.
func (m *Metrics) ObserveFetch(outcome weatherapi.Outcome, elapsed time.Duration) {
	m.FetchRequests.WithLabelValues(string(outcome)).Inc()
	m.FetchDuration.Observe(elapsed.Seconds())
}
