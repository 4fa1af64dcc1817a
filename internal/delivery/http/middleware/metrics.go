package middleware

import (
	"net/http"
	"time"

	"campusevents/internal/monitoring"
)

// Metrics records a duration histogram sample per request.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		monitoring.ObserveRequest(r.Method, r.URL.Path, wrapped.status, time.Since(start))
	})
}
