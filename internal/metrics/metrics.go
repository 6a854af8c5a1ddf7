// Package metrics exposes Prometheus instrumentation for the quote API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gridform/quotecore/internal/quote"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotecore_http_requests_total",
			Help: "Total number of HTTP requests by method, route, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quotecore_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "quotecore_http_requests_in_flight",
		Help: "Current number of HTTP requests being processed.",
	})

	quotesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotecore_quotes_total",
			Help: "Quotes generated, partitioned by use case and cache outcome.",
		},
		[]string{"use_case", "cache"},
	)

	validationFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quotecore_validation_failures_total",
		Help: "Quote requests rejected by input validation.",
	})
)

// cacheCollector reports live quote-cache stats on each scrape.
type cacheCollector struct {
	cache *quote.Cache

	entriesDesc *prometheus.Desc
	hitsDesc    *prometheus.Desc
	missesDesc  *prometheus.Desc
}

func (c *cacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entriesDesc
	ch <- c.hitsDesc
	ch <- c.missesDesc
}

func (c *cacheCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.cache.Stats()
	ch <- prometheus.MustNewConstMetric(c.entriesDesc, prometheus.GaugeValue, float64(stats.Entries))
	ch <- prometheus.MustNewConstMetric(c.hitsDesc, prometheus.CounterValue, float64(stats.Hits))
	ch <- prometheus.MustNewConstMetric(c.missesDesc, prometheus.CounterValue, float64(stats.Misses))
}

// Register registers all metrics with the default Prometheus registry.
// Call once at startup after the quote service is constructed.
func Register(cache *quote.Cache) {
	prometheus.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),

		httpRequestsTotal,
		httpRequestDuration,
		httpRequestsInFlight,
		quotesTotal,
		validationFailuresTotal,

		&cacheCollector{
			cache: cache,
			entriesDesc: prometheus.NewDesc(
				"quotecore_cache_entries",
				"Current number of cached quote results.",
				nil, nil,
			),
			hitsDesc: prometheus.NewDesc(
				"quotecore_cache_hits_total",
				"Quote cache lookups served from cache.",
				nil, nil,
			),
			missesDesc: prometheus.NewDesc(
				"quotecore_cache_misses_total",
				"Quote cache lookups that fell through to computation.",
				nil, nil,
			),
		},
	)
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveQuote records one generated quote.
func ObserveQuote(useCase string, cacheHit bool) {
	if useCase == "" {
		useCase = "none"
	}
	outcome := "miss"
	if cacheHit {
		outcome = "hit"
	}
	quotesTotal.WithLabelValues(useCase, outcome).Inc()
}

// ObserveValidationFailure records one rejected quote request.
func ObserveValidationFailure() {
	validationFailuresTotal.Inc()
}

// responseWriter wraps http.ResponseWriter to capture the response status code.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware wraps an http.Handler to record HTTP metrics. pattern should be
// the route pattern string so the path label has bounded cardinality.
func Middleware(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			httpRequestsInFlight.Dec()
			status := strconv.Itoa(rw.status)
			httpRequestsTotal.WithLabelValues(r.Method, pattern, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
		}()

		next.ServeHTTP(rw, r)
	})
}
