package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventstage/internal/delivery/http/controllers"
	"eventstage/internal/delivery/http/middleware"
	"eventstage/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Every application route requires a verified bearer token.
func NewRouter(
	eventController *controllers.EventController,
	scheduleController *controllers.ScheduleController,
	speakerController *controllers.SpeakerController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Events
	mux.HandleFunc("POST /events", auth(eventController.CreateEvent))
	mux.HandleFunc("GET /events", auth(eventController.ListMyEvents))
	mux.HandleFunc("GET /events/{eventID}", auth(eventController.GetEvent))
	mux.HandleFunc("PATCH /events/{eventID}", auth(eventController.UpdateEvent))
	mux.HandleFunc("POST /events/{eventID}/submit", auth(eventController.SubmitEvent))
	mux.HandleFunc("POST /events/{eventID}/approve", auth(eventController.ApproveEvent))
	mux.HandleFunc("POST /events/{eventID}/reject", auth(eventController.RejectEvent))
	mux.HandleFunc("POST /events/{eventID}/resubmit", auth(eventController.ResubmitEvent))
	mux.HandleFunc("POST /events/{eventID}/cancel", auth(eventController.CancelEvent))

	// Venues (read-only reference data)
	mux.HandleFunc("GET /venues", auth(eventController.ListVenues))

	// Sessions
	mux.HandleFunc("GET /events/{eventID}/sessions", auth(scheduleController.ListSessions))
	mux.HandleFunc("POST /events/{eventID}/sessions", auth(scheduleController.CreateSession))
	mux.HandleFunc("PATCH /events/{eventID}/sessions/{sessionID}", auth(scheduleController.UpdateSession))
	mux.HandleFunc("DELETE /events/{eventID}/sessions/{sessionID}", auth(scheduleController.DeleteSession))

	// Session speakers
	mux.HandleFunc("GET /events/{eventID}/sessions/{sessionID}/speakers", auth(speakerController.ListSessionSpeakers))
	mux.HandleFunc("POST /events/{eventID}/sessions/{sessionID}/speakers", auth(speakerController.AssignSpeaker))
	mux.HandleFunc("PATCH /events/{eventID}/sessions/{sessionID}/speakers/{speakerID}", auth(speakerController.UpdateSpeakerAssignment))
	mux.HandleFunc("DELETE /events/{eventID}/sessions/{sessionID}/speakers/{speakerID}", auth(speakerController.RemoveSpeaker))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
