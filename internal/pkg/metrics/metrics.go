// Package metrics declares the clinic API's Prometheus collectors. They are
// registered with the default registry on import and served from /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinic"

// ── Appointment metrics ───────────────────────────────────────────────────────

// AppointmentsCreatedTotal counts booked appointments.
var AppointmentsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointments_created_total",
		Help:      "Total number of appointments booked.",
	},
)

// AppointmentConflictsTotal counts rejected bookings.
// Label:
//   - party: "professional", "patient" or "lock" when the booking lock was busy
var AppointmentConflictsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointment_conflicts_total",
		Help:      "Total number of bookings rejected because the slot was taken.",
	},
	[]string{"party"},
)

// AppointmentsCancelledTotal counts cancellations that changed state.
var AppointmentsCancelledTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointments_cancelled_total",
		Help:      "Total number of appointments cancelled.",
	},
)

var AppointmentsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointments_deleted_total",
		Help:      "Total number of appointments deleted.",
	},
)

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

// ── Email metrics ─────────────────────────────────────────────────────────────

// EmailsTotal counts outbound email attempts.
// Labels:
//   - template: template name, or "raw" for direct sends
//   - result: "sent", "skipped" (disabled or not whitelisted) or "error"
var EmailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_total",
		Help:      "Total number of outbound emails, by template and result.",
	},
	[]string{"template", "result"},
)

// EmailSendDuration measures provider round trips.
var EmailSendDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "email_send_duration_seconds",
		Help:      "Duration of email provider calls.",
		Buckets:   prometheus.DefBuckets,
	},
)

// EmailQueueDepth tracks jobs waiting in each in-process mail worker channel.
// Label:
//   - worker_id: numeric worker index
var EmailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "email_queue_depth",
		Help:      "Current number of email jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EmailJobsDroppedTotal counts jobs rejected because the outbox was full or unreachable.
var EmailJobsDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "email_jobs_dropped_total",
		Help:      "Total number of email jobs that could not be queued.",
	},
	[]string{"reason"},
)

// ── Newsletter metrics ────────────────────────────────────────────────────────

// NewsletterSignupsTotal counts waitlist signups.
// Label:
//   - result: "new" or "repeat"
var NewsletterSignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "newsletter_signups_total",
		Help:      "Total number of newsletter signups by outcome.",
	},
	[]string{"result"},
)
