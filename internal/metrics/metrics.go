package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	proxyRequests  *prometheus.CounterVec
	upstreamTiming *prometheus.HistogramVec
	queries        *prometheus.CounterVec
	randomDraws    *prometheus.CounterVec
	sessions       prometheus.GaugeFunc
}

// New registers all collectors. liveSessions reports the number of open
// discovery sessions.
func New(liveSessions func() float64) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		proxyRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anipix_proxy_requests_total",
			Help: "Image proxy requests by outcome",
		}, []string{"outcome"}),
		upstreamTiming: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "anipix_upstream_fetch_seconds",
			Help:    "Latency of upstream image fetches",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anipix_catalog_queries_total",
			Help: "Catalog queries by view",
		}, []string{"view"}),
		randomDraws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anipix_random_draws_total",
			Help: "Random discovery draws by outcome",
		}, []string{"outcome"}),
	}
	m.sessions = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "anipix_discovery_sessions",
		Help: "Open discovery sessions",
	}, liveSessions)

	m.registry.MustRegister(
		m.proxyRequests,
		m.upstreamTiming,
		m.queries,
		m.randomDraws,
		m.sessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveProxy records a proxy request and, when the upstream was contacted,
// how long it took
func (m *Metrics) ObserveProxy(outcome string, upstream time.Duration) {
	m.proxyRequests.WithLabelValues(outcome).Inc()
	if upstream > 0 {
		m.upstreamTiming.WithLabelValues(outcome).Observe(upstream.Seconds())
	}
}

// ObserveQuery counts a catalog query for view
func (m *Metrics) ObserveQuery(view string) {
	m.queries.WithLabelValues(view).Inc()
}

// ObserveDraw counts a random draw
func (m *Metrics) ObserveDraw(outcome string) {
	m.randomDraws.WithLabelValues(outcome).Inc()
}
