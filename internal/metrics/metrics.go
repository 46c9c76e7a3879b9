package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	CheckoutSessionsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_sessions_created_total",
			Help: "Number of checkout sessions created",
		},
		[]string{"payment_type"},
	)

	PaymentTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_status_transitions_total",
			Help: "Number of applied payment status transitions",
		},
		[]string{"status"},
	)

	SideEffectFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_side_effect_failures_total",
			Help: "Number of failed grants or bookings after a completed payment",
		},
		[]string{"payment_type"},
	)

	UnhandledPaymentTypes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_unhandled_payment_types_total",
			Help: "Completed payments whose type has no side effect",
		},
		[]string{"payment_type"},
	)

	ProgressUpdates = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lesson_progress_updates_total",
			Help: "Number of recorded lesson progress updates",
		},
	)

	ProgressConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lesson_progress_conflicts_total",
			Help: "Number of lost conditional updates on course progress",
		},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

var registerOnce sync.Once

func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			CheckoutSessionsCreated,
			PaymentTransitions,
			SideEffectFailures,
			UnhandledPaymentTypes,
			ProgressUpdates,
			ProgressConflicts,
			HTTPRequests,
			HTTPRequestDuration,
		)
	})
}
