package prometrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the storefront's Prometheus instruments. HTTP vectors
// are labelled with low-cardinality route templates only.
type Metrics struct {
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	UsecaseRequests *prometheus.CounterVec
	UsecaseDuration *prometheus.HistogramVec
	CacheEvents     *prometheus.CounterVec
}

// New registers all instruments on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		UsecaseRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "usecase_requests_total",
				Help: "Total number of use case invocations.",
			},
			[]string{"use_case", "outcome"},
		),
		UsecaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "usecase_duration_seconds",
				Help:    "Duration of use case execution in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"use_case"},
		),
		CacheEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_cache_events_total",
				Help: "Catalog cache hits, misses and errors.",
			},
			[]string{"event"},
		),
	}

	reg.MustRegister(m.HTTPRequests, m.HTTPDuration, m.UsecaseRequests, m.UsecaseDuration, m.CacheEvents)
	return m
}

// ObserveUsecase records one use case invocation.
func (m *Metrics) ObserveUsecase(useCase, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.UsecaseRequests.WithLabelValues(useCase, outcome).Inc()
	m.UsecaseDuration.WithLabelValues(useCase).Observe(seconds)
}

// CacheEvent counts a single cache hit, miss or error.
func (m *Metrics) CacheEvent(event string) {
	if m == nil {
		return
	}
	m.CacheEvents.WithLabelValues(event).Inc()
}
