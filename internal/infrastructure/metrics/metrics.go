// Package metrics provides Prometheus instrumentation for the binding service.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lexora",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path pattern, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and path.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lexora",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// BindingCodesIssuedTotal counts binding codes issued.
	BindingCodesIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lexora",
		Name:      "binding_codes_issued_total",
		Help:      "Total binding codes issued.",
	})

	// BindingCodesExpiredTotal counts codes removed by the expiry sweeper.
	BindingCodesExpiredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lexora",
		Name:      "binding_codes_expired_total",
		Help:      "Total expired binding codes removed by the sweeper.",
	})

	// BindingsTotal counts completed binding attempts by outcome.
	BindingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lexora",
			Name:      "bindings_total",
			Help:      "Total binding attempts by outcome.",
		},
		[]string{"outcome"},
	)

	// UnbindsTotal counts unbind operations.
	UnbindsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lexora",
		Name:      "unbinds_total",
		Help:      "Total unbind operations.",
	})

	// PromotionsTotal counts waitlist promotions by trigger.
	PromotionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lexora",
			Name:      "promotions_total",
			Help:      "Total waitlist promotions by trigger (unbind, plan_change).",
		},
		[]string{"trigger"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		BindingCodesIssuedTotal,
		BindingCodesExpiredTotal,
		BindingsTotal,
		UnbindsTotal,
		PromotionsTotal,
	)
}

// Middleware returns a gin middleware that records request metrics.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := prometheus.NewTimer(HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(), // route pattern, not actual path, to bound cardinality
		))

		c.Next()

		timer.ObserveDuration()
		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			statusBucket(c.Writer.Status()),
		).Inc()
	}
}

// Handler returns the Prometheus metrics HTTP handler for /metrics endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// statusBucket groups HTTP status codes into buckets (2xx, 3xx, 4xx, 5xx).
func statusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
