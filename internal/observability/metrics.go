package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for one dashboard process. Each
// instance owns its registry so tests can build as many as they like.
//
// All methods are safe on a nil receiver, which disables collection.
type Metrics struct {
	registry *prometheus.Registry

	BundleLoads   *prometheus.CounterVec
	LoadDuration  prometheus.Histogram
	LoadsInFlight prometheus.Gauge
	ThemeToggles  prometheus.Counter

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "marketing_dashboard"
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		BundleLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "bundle_loads_total",
			Help:      "Total number of dashboard bundles delivered",
		}, []string{"client", "range"}),
		LoadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "bundle_load_duration_seconds",
			Help:      "Time from load request to bundle delivery, simulated delay included",
			Buckets:   []float64{.01, .05, .1, .25, .5, .75, 1, 1.5, 2.5},
		}),
		LoadsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "loads_in_flight",
			Help:      "Bundle loads requested but not yet delivered",
		}),
		ThemeToggles: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ui",
			Name:      "theme_toggles_total",
			Help:      "Total number of theme toggles",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) LoadStarted() {
	if m == nil {
		return
	}
	m.LoadsInFlight.Inc()
}

func (m *Metrics) LoadDelivered(client, dateRange string, d time.Duration) {
	if m == nil {
		return
	}
	m.LoadsInFlight.Dec()
	m.BundleLoads.WithLabelValues(client, dateRange).Inc()
	m.LoadDuration.Observe(d.Seconds())
}

func (m *Metrics) ThemeToggled() {
	if m == nil {
		return
	}
	m.ThemeToggles.Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
