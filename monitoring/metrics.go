package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Bookings created, by pool and initial status",
		},
		[]string{"pool", "status"},
	)

	capacityRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capacity_rejections_total",
			Help: "Reservations rejected for insufficient capacity, by pool",
		},
		[]string{"pool"},
	)

	bookingCreateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "booking_create_duration_seconds",
			Help:    "Wall time of booking creation including capacity reservation",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		},
	)

	ticketScans = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_scans_total",
			Help: "Check-in and boarding scans, by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	manifestCompiles = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "manifest_compiles_total",
			Help: "Manifest compilations",
		},
	)

	reconciliations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconciliations_total",
			Help: "Reconcile actions, by outcome (applied or noop)",
		},
		[]string{"outcome"},
	)
)

func BookingCreated(pool, status string) {
	bookingsCreated.WithLabelValues(pool, status).Inc()
}

func CapacityRejected(pool string) {
	capacityRejections.WithLabelValues(pool).Inc()
}

func ObserveBookingCreate(d time.Duration) {
	bookingCreateDuration.Observe(d.Seconds())
}

func TicketScan(action, outcome string) {
	ticketScans.WithLabelValues(action, outcome).Inc()
}

func ManifestCompiled() {
	manifestCompiles.Inc()
}

func Reconciled(applied bool) {
	outcome := "noop"
	if applied {
		outcome = "applied"
	}
	reconciliations.WithLabelValues(outcome).Inc()
}
