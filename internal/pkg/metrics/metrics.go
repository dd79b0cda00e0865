// Package metrics defines and registers all custom Prometheus metrics for the
// claims API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "claims"

// ── Submission metrics ───────────────────────────────────────────────────────

// ClaimsSubmittedTotal counts claims accepted from lecturers.
// Label:
//   - kind: "submit" or "resubmit"
var ClaimsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submitted_total",
		Help:      "Total number of claims submitted or resubmitted.",
	},
	[]string{"kind"},
)

// EvidenceBytesStored counts bytes of evidence written to storage.
var EvidenceBytesStored = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "evidence_bytes_stored_total",
		Help:      "Total bytes of evidence files written to storage.",
	},
)

// ── Workflow metrics ─────────────────────────────────────────────────────────

// TransitionsTotal counts reviewer actions by outcome.
// Labels:
//   - action: "approve" or "reject"
//   - role:   "coordinator" or "manager"
//   - result: "ok", "policy_violation", "invalid_transition", "forbidden", "not_found", "conflict", "error"
var TransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_total",
		Help:      "Total number of reviewer transitions attempted, by outcome.",
	},
	[]string{"action", "role", "result"},
)

// PolicyViolationsTotal counts approvals blocked by the validation gate.
// Labels:
//   - check: "hours", "rate", "amount_mismatch", "total_amount"
//   - role:  the approving role
var PolicyViolationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "policy_violations_total",
		Help:      "Total number of approvals blocked by the validation gate, by failing check.",
	},
	[]string{"check", "role"},
)

// PaymentReferenceCollisionsTotal counts generated references that were already taken.
var PaymentReferenceCollisionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_reference_collisions_total",
		Help:      "Total number of payment references regenerated after a collision.",
	},
)

// OperationDuration measures how long a claim use case takes end-to-end.
// Label:
//   - operation: e.g. "submit", "manager_approve"
var OperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_duration_seconds",
		Help:      "Duration of claim operations from load to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)
