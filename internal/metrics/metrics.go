package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the dashboard.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	RenderDuration    *prometheus.HistogramVec
	Renders           *prometheus.CounterVec
	PriceFeedFailures prometheus.Counter

	registry *prometheus.Registry
}

// New creates the collectors on a dedicated registry.
func New() *Metrics {
	m := &Metrics{
		RenderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dashboard_render_duration_seconds",
				Help:    "Duration of a dashboard render pass in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"view"},
		),
		Renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_renders_total",
				Help: "Total number of dashboard renders by view and result",
			},
			[]string{"view", "result"},
		),
		PriceFeedFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dashboard_price_feed_failures_total",
				Help: "Total number of live price lookups that fell back to stored prices",
			},
		),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(m.RenderDuration, m.Renders, m.PriceFeedFailures)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRender records one render pass of view.
func (m *Metrics) ObserveRender(view string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.RenderDuration.WithLabelValues(view).Observe(elapsed.Seconds())
	m.Renders.WithLabelValues(view, result).Inc()
}

// PriceFeedFailed records a live price lookup that failed.
func (m *Metrics) PriceFeedFailed() {
	if m == nil {
		return
	}
	m.PriceFeedFailures.Inc()
}
