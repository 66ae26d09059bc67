// Package metrics defines the custom Prometheus metrics of the storefront API.
// HTTP request metrics come from echoprometheus; everything here is
// domain-level. All collectors register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Account metrics ───────────────────────────────────────────────────────────

// AuthOperationsTotal counts credential operations.
// Labels:
//   - operation: "register", "login", "password_update", "password_forgot", "password_reset"
//   - result: "success" or the error kind (e.g. "invalid_credentials", "validation")
var AuthOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_operations_total",
		Help:      "Total number of credential operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ── Review metrics ────────────────────────────────────────────────────────────

// ReviewWritesTotal counts review mutations.
// Labels:
//   - operation: "upsert" or "delete"
//   - result: "success" or the error kind
var ReviewWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "review_writes_total",
		Help:      "Total number of review writes, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// ProductQueryResults observes how many products matched a catalog query
// before pagination.
var ProductQueryResults = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "product_query_results",
		Help:      "Number of products matching a catalog query before pagination.",
		Buckets:   []float64{0, 1, 5, 10, 20, 50, 100, 500, 1000},
	},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts queued notification emails by outcome.
// Label:
//   - result: "sent", "failed" or "dropped" (queue full)
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notification emails, by delivery result.",
	},
	[]string{"result"},
)

// NotificationQueueDepth tracks pending notifications in each worker channel.
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Rate limiting ─────────────────────────────────────────────────────────────

// RateLimitedTotal counts rejected requests.
// Label:
//   - scope: the limiter scope (e.g. "auth", "api")
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
	[]string{"scope"},
)

// RateLimiterErrorsTotal counts limiter backend failures; requests are let
// through when this happens.
var RateLimiterErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limiter_errors_total",
		Help:      "Total number of rate limiter backend errors (request allowed).",
	},
)
