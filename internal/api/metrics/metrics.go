// Package metrics defines the portal's custom Prometheus metrics. HTTP
// request metrics come from the echoprometheus middleware; everything here
// describes domain activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Auth ──────────────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts auth endpoint outcomes.
// Labels:
//   - action: "login", "register", "refresh" or "logout"
//   - result: "ok" or "rejected"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of auth requests, by action and result.",
	},
	[]string{"action", "result"},
)

// ── Content ───────────────────────────────────────────────────────────────────

// ContentMutationsTotal counts successful writes to content collections.
// Labels:
//   - collection: "news", "agenda", "directory", "menus", "homepage", "dynamic_content"
//   - action: "create", "update", "patch", "delete"
var ContentMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "content_mutations_total",
		Help:      "Total number of content writes, by collection and action.",
	},
	[]string{"collection", "action"},
)

// UploadsTotal counts upload outcomes.
// Label:
//   - result: "stored", "deduplicated" or "rejected"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of uploads, by result.",
	},
	[]string{"result"},
)

// UploadSizeBytes observes accepted upload sizes.
var UploadSizeBytes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upload_size_bytes",
		Help:      "Size of accepted uploads.",
		Buckets:   prometheus.ExponentialBuckets(16<<10, 4, 6), // 16KiB .. 16MiB
	},
)

// ── Article views ─────────────────────────────────────────────────────────────

// ViewsProcessedTotal counts view events by outcome.
// Label:
//   - result: "counted" or "error"
var ViewsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "views_processed_total",
		Help:      "Total number of article view events processed.",
	},
	[]string{"result"},
)

// ViewsDroppedTotal counts view events discarded because a worker queue was full.
var ViewsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "views_dropped_total",
		Help:      "Total number of article view events dropped on a full queue.",
	},
)

// ViewsQueueDepth tracks the number of view events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index
var ViewsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "views_queue_depth",
		Help:      "Current number of view events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ViewProcessingDuration measures one view event from dequeue to persistence.
var ViewProcessingDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "view_processing_duration_seconds",
		Help:      "Duration of view event processing.",
		Buckets:   prometheus.DefBuckets,
	},
)
