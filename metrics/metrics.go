// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BookingAttempts counts booking requests by outcome: ok, FULL, CLOSED,
	// LOCKED, DAY_TAKEN, conflict or error.
	BookingAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymbook",
		Name:      "booking_attempts_total",
		Help:      "Booking attempts by result.",
	}, []string{"result"})

	Cancellations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymbook",
		Name:      "booking_cancellations_total",
		Help:      "Cancelled bookings by who cancelled.",
	}, []string{"by"})

	CheckIns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gymbook",
		Name:      "checkins_total",
		Help:      "Recorded check-ins.",
	})

	SlotsMaterialized = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gymbook",
		Name:      "slots_materialized_total",
		Help:      "Virtual slots persisted because they were booked or locked.",
	})

	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymbook",
		Name:      "notifications_sent_total",
		Help:      "Push messages by type and delivery result.",
	}, []string{"type", "result"})

	TokensPruned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gymbook",
		Name:      "device_tokens_pruned_total",
		Help:      "Device tokens removed after the push service rejected them.",
	})

	SweepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gymbook",
		Name:      "sweep_duration_seconds",
		Help:      "Duration of scheduled sweeps.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job"})

	SweepProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymbook",
		Name:      "sweep_items_processed_total",
		Help:      "Items a sweep claimed and notified.",
	}, []string{"job"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymbook",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gymbook",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)
