package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/khata-app/khata-bff/internal/domain"
)

// Metrics holds all Prometheus metrics for the BFF.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration    *prometheus.HistogramVec
	upstreamErrors     *prometheus.CounterVec
	cacheHits          *prometheus.CounterVec
	cacheMisses        *prometheus.CounterVec
	requestsTotal      *prometheus.CounterVec
	loginAttempts      *prometheus.CounterVec
	searchesSuperseded prometheus.Counter
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "khata_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		upstreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "khata_upstream_errors_total",
				Help: "Total errors from the upstream ledger API.",
			},
			[]string{"operation"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "khata_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "khata_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "khata_requests_total",
				Help: "Total requests processed.",
			},
			[]string{"status"},
		),
		loginAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "khata_login_attempts_total",
				Help: "Total session login attempts by outcome.",
			},
			[]string{"outcome"},
		),
		searchesSuperseded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "khata_searches_superseded_total",
				Help: "Total search responses discarded as stale.",
			},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrUpstreamError increments the upstream error counter.
func (m *Metrics) IncrUpstreamError(operation string) {
	m.upstreamErrors.WithLabelValues(operation).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrRequest increments the request counter with a status label.
func (m *Metrics) IncrRequest(status string) {
	m.requestsTotal.WithLabelValues(status).Inc()
}

// IncrLoginAttempt increments the login counter by outcome, one of
// "success", "wrong_email", "wrong_password" or "error".
func (m *Metrics) IncrLoginAttempt(outcome string) {
	m.loginAttempts.WithLabelValues(outcome).Inc()
}

// IncrSearchSuperseded counts a discarded stale search response.
func (m *Metrics) IncrSearchSuperseded() {
	m.searchesSuperseded.Inc()
}

// Snapshot returns current counter values for GET /v1/metrics/summary.
// Prometheus counters expose cumulative values, so rates are computed
// over the process lifetime.
func (m *Metrics) Snapshot() *domain.MetricsSummary {
	success := getCounterValue(m.requestsTotal.WithLabelValues("success"))
	errored := getCounterValue(m.requestsTotal.WithLabelValues("error"))
	total := success + errored

	upstream := m.sumFamily("khata_upstream_errors_total")

	hits := getCounterValue(m.cacheHits.WithLabelValues("shops"))
	misses := getCounterValue(m.cacheMisses.WithLabelValues("shops"))

	errorRate := float64(0)
	if total > 0 {
		errorRate = errored / total
	}
	cacheHitRate := float64(0)
	if hits+misses > 0 {
		cacheHitRate = hits / (hits + misses)
	}

	return &domain.MetricsSummary{
		TotalRequests:      int64(total),
		ErrorRate:          errorRate,
		UpstreamErrors:     int64(upstream),
		CacheHitRate:       cacheHitRate,
		SearchesSuperseded: int64(getCounterValue(m.searchesSuperseded)),
		Period:             "all_time",
	}
}

// sumFamily gathers the registry and sums a counter family across all
// label combinations.
func (m *Metrics) sumFamily(name string) float64 {
	families, err := m.Registry.Gather()
	if err != nil {
		return 0
	}
	var sum float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			if metric.Counter != nil && metric.Counter.Value != nil {
				sum += *metric.Counter.Value
			}
		}
	}
	return sum
}

// getCounterValue extracts the current float64 value from a counter.
func getCounterValue(c prometheus.Counter) float64 {
	metric := &dto.Metric{}
	if err := c.Write(metric); err != nil {
		return 0
	}
	if metric.Counter != nil && metric.Counter.Value != nil {
		return *metric.Counter.Value
	}
	return 0
}
