package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Count of HTTP requests"},
		[]string{"path", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"},
	)
	LessonsBooked = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "lessons_booked_total", Help: "Lessons committed"},
	)
	BookingConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "lesson_booking_conflicts_total", Help: "Bookings refused for overlap"},
		[]string{"reason"},
	)
	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "auth_logins_total", Help: "Login attempts by outcome"},
		[]string{"result"},
	)
	Refreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "auth_refreshes_total", Help: "Refresh attempts by outcome"},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, LessonsBooked, BookingConflicts, Logins, Refreshes)
}
