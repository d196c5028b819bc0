package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcomes recorded per source
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeTimeout  = "timeout"
	OutcomeError    = "error"
)

// Registry holds the dashboard's Prometheus metrics on a private registry
// ⭐ SSOT: 메트릭 정의는 여기서만
type Registry struct {
	registry *prometheus.Registry

	SourceFetches  *prometheus.CounterVec
	FetchDuration  *prometheus.HistogramVec
	CacheLookups   *prometheus.CounterVec
	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	TablesResident prometheus.Gauge
}

// New creates and registers all metrics
func New() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		SourceFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rankboard_source_fetches_total",
				Help: "Ranking table fetches by source and outcome",
			},
			[]string{"source", "outcome"},
		),

		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rankboard_source_fetch_duration_seconds",
				Help:    "Duration of ranking table fetches",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"source"},
		),

		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rankboard_cache_lookups_total",
				Help: "Table cache lookups by tier (memory, redis) and result (hit, miss)",
			},
			[]string{"tier", "result"},
		),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rankboard_http_requests_total",
				Help: "API requests by route and status code",
			},
			[]string{"route", "status"},
		),

		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rankboard_http_request_duration_seconds",
				Help:    "API request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),

		TablesResident: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "rankboard_tables_resident",
				Help: "Ranking tables currently held in memory",
			},
		),
	}

	r.registry.MustRegister(
		r.SourceFetches,
		r.FetchDuration,
		r.CacheLookups,
		r.HTTPRequests,
		r.HTTPDuration,
		r.TablesResident,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Handler exposes the registry in the Prometheus text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer returns the underlying registry (tests)
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// ObserveFetch records one source fetch. Safe on a nil registry.
func (r *Registry) ObserveFetch(source, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.SourceFetches.WithLabelValues(source, outcome).Inc()
	r.FetchDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

// ObserveCache records one cache lookup. Safe on a nil registry.
func (r *Registry) ObserveCache(tier string, hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.CacheLookups.WithLabelValues(tier, result).Inc()
}

// ObserveRequest records one API request. Safe on a nil registry.
func (r *Registry) ObserveRequest(route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	r.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// SetResident records how many tables are held in memory. Safe on a nil registry.
func (r *Registry) SetResident(n int) {
	if r == nil {
		return
	}
	r.TablesResident.Set(float64(n))
}
