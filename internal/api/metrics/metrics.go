// Package metrics defines and registers all custom Prometheus metrics for the
// media API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register with the default registry at package init;
// the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "media"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts successful account registrations.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of successful account registrations.",
	},
)

// TokenRotationsTotal counts refresh-token rotation attempts.
// Label:
//   - result: "success", "rejected" (replay/reuse/invalid) or "error"
var TokenRotationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rotations_total",
		Help:      "Total number of refresh token rotation attempts, by result.",
	},
	[]string{"result"},
)

// AuthRejectionsTotal counts requests rejected by the auth middleware.
// Label:
//   - reason: "missing_token", "expired", "invalid", "unknown_subject"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by the auth middleware, by reason.",
	},
	[]string{"reason"},
)

// ── Video metrics ─────────────────────────────────────────────────────────────

// VideosPublishedTotal counts newly published videos.
var VideosPublishedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "videos_published_total",
		Help:      "Total number of videos published.",
	},
)

// ViewsProcessedTotal counts view events that completed persistence.
var ViewsProcessedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "views_processed_total",
		Help:      "Total number of view events successfully processed.",
	},
)

// ViewsErrorsTotal counts view events that failed persistence.
var ViewsErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "views_errors_total",
		Help:      "Total number of view events that failed processing.",
	},
)

// ViewQueueDepth tracks the number of view events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ViewQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "view_queue_depth",
		Help:      "Current number of view events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
