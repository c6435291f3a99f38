// Package metrics defines and registers all custom Prometheus metrics for
// clinic-web. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto and exposed at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinic"

// ── Gateway metrics ───────────────────────────────────────────────────────────

// GatewayRequestsTotal counts calls to the managed backend.
// Labels:
//   - operation: logical call name (e.g. "auth.sign_in", "rest.select.patients")
//   - status: HTTP status code, or "error" when no response arrived
var GatewayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "Total number of gateway calls, by operation and status.",
	},
	[]string{"operation", "status"},
)

// GatewayRequestDuration measures gateway round-trip latency.
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of gateway calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Page metrics ──────────────────────────────────────────────────────────────

// ViewsTotal counts page loads by their final lifecycle state.
// Labels:
//   - view: page name (e.g. "patients", "visits")
//   - state: "idle", "ready", "failed", or "cancelled"
var ViewsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "views_total",
		Help:      "Total number of page loads, by view and final state.",
	},
	[]string{"view", "state"},
)

// FormsSubmittedTotal counts form submissions.
// Labels:
//   - form: "login", "register", "patient", "logout"
//   - outcome: "ok", "invalid", "duplicate", or "error"
var FormsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "forms_submitted_total",
		Help:      "Total number of form submissions, by form and outcome.",
	},
	[]string{"form", "outcome"},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts served requests by route template.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests served.",
	},
	[]string{"method", "route", "code"},
)

// HTTPRequestDuration measures request latency by route template.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ObserveGateway records one gateway call. status is 0 when the call failed
// before a response arrived.
func ObserveGateway(operation string, status int, d time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	GatewayRequestsTotal.WithLabelValues(operation, label).Inc()
	GatewayRequestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// Middleware records HTTP request counts and latency. Errors are rendered
// through the HTTPErrorHandler before the status is read. The route label is the
// echo path template, so ids do not explode cardinality.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			if err != nil {
				c.Error(err)
			}
			status := c.Response().Status
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			HTTPRequestsTotal.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			HTTPRequestDuration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
