package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"eventstage/internal/delivery/http/helpers"
	"eventstage/internal/domain"
)

// CreateSessionRequest is the request body for POST /events/{eventID}/sessions.
type CreateSessionRequest struct {
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Stage       *string   `json:"stage"`
}

// Validate implements Validator.
func (c CreateSessionRequest) Validate() []string {
	var errs []string
	if c.Title == "" {
		errs = append(errs, "title is required")
	}
	if c.StartsAt.IsZero() {
		errs = append(errs, "starts_at is required")
	}
	if c.EndsAt.IsZero() {
		errs = append(errs, "ends_at is required")
	}
	return errs
}

// UpdateSessionRequest is the request body for PATCH .../sessions/{sessionID}. All fields are optional.
type UpdateSessionRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Stage       *string    `json:"stage"`
}

// SessionSuccessResponse is the success envelope for single-session responses.
type SessionSuccessResponse struct {
	Data  *domain.Session   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type ScheduleController struct {
	Logger  *slog.Logger
	Service domain.ScheduleService
}

func NewScheduleController(logger *slog.Logger, svc domain.ScheduleService) *ScheduleController {
	return &ScheduleController{
		Logger:  logger,
		Service: svc,
	}
}

// ListSessions godoc
// @Summary List an event's sessions ordered by start time
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the session list"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/sessions [get]
func (c *ScheduleController) ListSessions(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	sessions, err := c.Service.ListSessions(r.Context(), eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sessions)
}

// CreateSession godoc
// @Summary Create a session within an event's booking window
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param session body CreateSessionRequest true "Session data"
// @Success 201 {object} controllers.SessionSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (schedule violation)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/sessions [post]
func (c *ScheduleController) CreateSession(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req CreateSessionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	now := time.Now()
	session := domain.NewSession(eventID, req.Title, req.Description, req.StartsAt, req.EndsAt, req.Stage, now, now)
	if err := c.Service.CreateSession(r.Context(), eventID, session); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, session)
}

// UpdateSession godoc
// @Summary Update a session (partial)
// @Description Recomputes the effective schedule from existing values for omitted fields, then revalidates against the event booking window.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param sessionID path string true "Session ID"
// @Param session body UpdateSessionRequest true "Fields to update"
// @Success 200 {object} controllers.SessionSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (schedule violation)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/sessions/{sessionID} [patch]
func (c *ScheduleController) UpdateSession(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	sessionID := r.PathValue("sessionID")
	if eventID == "" || sessionID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID or sessionID")
		return
	}
	var req UpdateSessionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	update := domain.SessionUpdate{
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Stage:       req.Stage,
	}
	session, err := c.Service.UpdateSession(r.Context(), eventID, sessionID, update)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, session)
}

// DeleteSession godoc
// @Summary Delete a session
// @Description Deletes the session and its speaker assignments, then cleans up peer-service invitations best-effort.
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param sessionID path string true "Session ID"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/sessions/{sessionID} [delete]
func (c *ScheduleController) DeleteSession(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	sessionID := r.PathValue("sessionID")
	if eventID == "" || sessionID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID or sessionID")
		return
	}
	if err := c.Service.DeleteSession(r.Context(), eventID, sessionID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
