package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"campusevents/internal/delivery/http/controllers"
	"campusevents/internal/monitoring"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(eventController *controllers.EventController, registrationController *controllers.RegistrationController) *http.ServeMux {
	mux := http.NewServeMux()

	// Event catalog
	mux.HandleFunc("GET /{$}", eventController.ListEvents)

	// Registration core. The mutation paths are registered without a method
	// so non-POST submissions get the controller's 400, not the mux's 405.
	mux.HandleFunc("/events/{eventID}/register", registrationController.Register)
	mux.HandleFunc("/events/{eventID}/register-team", registrationController.RegisterTeam)
	mux.HandleFunc("/registrations/{regID}/cancel", registrationController.Cancel)

	// Ops
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", monitoring.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
