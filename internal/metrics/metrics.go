package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	reservationCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "quadralivre",
			Name:      "reservation_created_total",
			Help:      "Count of reservations created.",
		},
	)

	reservationCancelled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quadralivre",
			Name:      "reservation_cancelled_total",
			Help:      "Count of reservations cancelled, by actor kind.",
		},
		[]string{"by"},
	)

	reservationExpired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "quadralivre",
			Name:      "reservation_expired_total",
			Help:      "Count of pending reservations lazily expired.",
		},
	)

	bookingRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quadralivre",
			Name:      "booking_rejected_total",
			Help:      "Count of booking attempts rejected, by reason.",
		},
		[]string{"reason"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quadralivre",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests, by endpoint.",
		},
		[]string{"endpoint"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			reservationCreated,
			reservationCancelled,
			reservationExpired,
			bookingRejected,
			httpRequests,
		)
	})
}

func IncReservationCreated() {
	reservationCreated.Inc()
}

func IncReservationCancelled(by string) {
	reservationCancelled.WithLabelValues(by).Inc()
}

func AddReservationsExpired(n int64) {
	if n > 0 {
		reservationExpired.Add(float64(n))
	}
}

func IncBookingRejected(reason string) {
	bookingRejected.WithLabelValues(reason).Inc()
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}
