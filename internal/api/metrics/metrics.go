// Package metrics defines and registers all custom Prometheus metrics for the
// AI Buddy API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry at package init
// and exposed by the echoprometheus handler at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "aibuddy"

// ── Ask pipeline ──────────────────────────────────────────────────────────────

// AskRequestsTotal counts ask requests by final outcome.
// Label:
//   - outcome: "answered", "empty_prompt", "quota_exceeded", "upstream_error", "transport_error"
var AskRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ask_requests_total",
		Help:      "Total number of ask requests, by outcome.",
	},
	[]string{"outcome"},
)

// CompletionDuration measures the round trip to the completion provider.
// Label:
//   - result: "ok" or "error"
var CompletionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "completion_duration_seconds",
		Help:      "Duration of upstream chat-completion calls.",
		Buckets:   []float64{.25, .5, 1, 2, 4, 8, 15, 30, 60},
	},
	[]string{"result"},
)

// PromptsConsumedTotal counts committed quota increments.
var PromptsConsumedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prompts_consumed_total",
		Help:      "Total number of prompts charged against account quotas.",
	},
)

// QuotaCommitFailuresTotal counts answers delivered without their usage being recorded.
var QuotaCommitFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quota_commit_failures_total",
		Help:      "Total number of successful completions whose usage increment failed.",
	},
)

// ── Mail ──────────────────────────────────────────────────────────────────────

// EmailsTotal counts delivery attempts.
// Label:
//   - result: "sent" or "failed"
var EmailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_total",
		Help:      "Total number of email delivery attempts, by result.",
	},
	[]string{"result"},
)

// MailQueueDepth tracks the number of emails waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of emails pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
