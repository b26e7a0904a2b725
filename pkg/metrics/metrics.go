package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evencio_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// PermissionChecks counts permission evaluations and their outcome (allowed|denied|error).
	PermissionChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evencio_permission_checks_total",
			Help: "Total number of permission checks",
		},
		[]string{"permission", "result"},
	)

	// AppointmentTransitions counts appointment status transitions by edge.
	AppointmentTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evencio_appointment_transitions_total",
			Help: "Appointment status transitions",
		},
		[]string{"from", "to"},
	)

	// EmailsSent counts outbound emails by kind (test|campaign) and result (success|failure).
	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evencio_emails_sent_total",
			Help: "Outbound emails dispatched through the mailer",
		},
		[]string{"kind", "result"},
	)

	// CampaignsDispatched counts campaign send runs by final status.
	CampaignsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evencio_campaigns_dispatched_total",
			Help: "Campaign dispatch runs grouped by final status",
		},
		[]string{"status"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evencio_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
