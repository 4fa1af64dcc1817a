package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	admissionOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admission_outcomes_total",
			Help: "Registration admission outcomes by kind",
		},
		[]string{"outcome"},
	)

	waitlistPromotions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "waitlist_promotions_total",
			Help: "Waitlisted registrations promoted after a cancellation",
		},
	)

	cancellations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cancellations_total",
			Help: "Registrations cancelled",
		},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// ObserveAdmission records one admission outcome (already, confirmed,
// waitlist, soldout).
func ObserveAdmission(outcome string) {
	admissionOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveCancellation records a cancellation and whether it promoted a
// waitlisted registration.
func ObserveCancellation(promoted bool) {
	cancellations.Inc()
	if promoted {
		waitlistPromotions.Inc()
	}
}

// ObserveRequest records the duration of one HTTP request.
func ObserveRequest(method, path string, status int, duration time.Duration) {
	httpDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

// Handler returns the /metrics scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
