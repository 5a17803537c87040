package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace     = "drinks"
	unmatchedPath = "unmatched"
)

var latencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid and
// records nothing, so components can be built without instrumentation in tests.
type Metrics struct {
	ActiveRequests       prometheus.Gauge
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	AuthorizationResults *prometheus.CounterVec
	KeySetFetches        *prometheus.CounterVec
	KeySetFetchDuration  prometheus.Histogram
	KeySetCacheLookups   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ActiveRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_active_requests",
			Help:      "Number of HTTP requests currently being served",
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Histogram of HTTP request latency",
			Buckets:   latencyBuckets,
		}, []string{"method", "path"}),
		AuthorizationResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authorization_results_total",
			Help:      "Authorization outcomes by result code",
		}, []string{"result"}),
		KeySetFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jwks_fetches_total",
			Help:      "Signing key set refreshes by result",
		}, []string{"result"}),
		KeySetFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "jwks_fetch_duration_seconds",
			Help:      "Latency of signing key set refreshes",
			Buckets:   latencyBuckets,
		}),
		KeySetCacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jwks_shared_cache_lookups_total",
			Help:      "Shared key set document cache lookups by result",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.ActiveRequests,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AuthorizationResults,
		m.KeySetFetches,
		m.KeySetFetchDuration,
		m.KeySetCacheLookups,
	)

	return m
}

func (m *Metrics) ObserveAuthorization(result string) {
	if m == nil {
		return
	}
	m.AuthorizationResults.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveKeySetFetch(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.KeySetFetches.WithLabelValues(result).Inc()
	m.KeySetFetchDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveKeySetCacheLookup(result string) {
	if m == nil {
		return
	}
	m.KeySetCacheLookups.WithLabelValues(result).Inc()
}

// Middleware tracks request count, latency and in-flight requests per route.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}

			m.ActiveRequests.Inc()
			start := time.Now()

			err := next(c)
			if err != nil {
				// Let the error handler write the response so the final status is recorded.
				c.Error(err)
			}

			m.ActiveRequests.Dec()

			// Unmatched paths share one label to bound cardinality.
			path := c.Path()
			if path == "" {
				path = unmatchedPath
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
			m.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

			return nil
		}
	}
}

// Handler serves the exposition format for everything registered in g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
