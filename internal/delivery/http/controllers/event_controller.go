package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"eventstage/internal/delivery/http/helpers"
	"eventstage/internal/domain"
)

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	VenueID          string    `json:"venue_id"`
	BookingStartDate time.Time `json:"booking_start_date"`
	BookingEndDate   time.Time `json:"booking_end_date"`
}

// Validate implements Validator. Returns error messages for required and format rules.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if c.Name == "" {
		errs = append(errs, "name is required")
	}
	if c.BookingStartDate.IsZero() {
		errs = append(errs, "booking_start_date is required")
	}
	if c.BookingEndDate.IsZero() {
		errs = append(errs, "booking_end_date is required")
	}
	if !c.BookingStartDate.IsZero() && !c.BookingEndDate.IsZero() && !c.BookingStartDate.Before(c.BookingEndDate) {
		errs = append(errs, "booking_start_date must be before booking_end_date")
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}. All fields are optional.
type UpdateEventRequest struct {
	Name             *string    `json:"name"`
	Description      *string    `json:"description"`
	Category         *string    `json:"category"`
	VenueID          *string    `json:"venue_id"`
	BookingStartDate *time.Time `json:"booking_start_date"`
	BookingEndDate   *time.Time `json:"booking_end_date"`
}

// RejectEventRequest is the request body for POST /events/{eventID}/reject.
type RejectEventRequest struct {
	Reason string `json:"reason"`
}

// Validate implements Validator.
func (r RejectEventRequest) Validate() []string {
	var errs []string
	if r.Reason == "" {
		errs = append(errs, "reason is required")
	}
	return errs
}

// EventSuccessResponse is the success envelope for single-event responses.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Create a new draft event. The authenticated user becomes the owning speaker.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	now := time.Now()
	event := domain.NewEvent(req.Name, req.Description, req.Category, "", req.VenueID,
		req.BookingStartDate, req.BookingEndDate, now, now)
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// GetEvent godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListMyEvents godoc
// @Summary List the authenticated speaker's events
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the event list"
// @Router /events [get]
func (c *EventController) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListMyEvents(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// ListVenues godoc
// @Summary List venues available for events
// @Tags venues
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the venue list"
// @Router /venues [get]
func (c *EventController) ListVenues(w http.ResponseWriter, r *http.Request) {
	venues, err := c.Service.ListVenues(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, venues)
}

// UpdateEvent godoc
// @Summary Update event details
// @Description Partial update. Owners may edit only draft or rejected events; admins may edit any. Updating a published event notifies downstream consumers.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param event body UpdateEventRequest true "Fields to update"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	update := domain.EventUpdate{
		Name:             req.Name,
		Description:      req.Description,
		Category:         req.Category,
		VenueID:          req.VenueID,
		BookingStartDate: req.BookingStartDate,
		BookingEndDate:   req.BookingEndDate,
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, update)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// SubmitEvent godoc
// @Summary Submit a draft event for approval
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (illegal transition)"
// @Router /events/{eventID}/submit [post]
func (c *EventController) SubmitEvent(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.SubmitEvent)
}

// ApproveEvent godoc
// @Summary Approve a pending event (admin only)
// @Description Publishes the event and notifies downstream consumers. The approval fails if the notification cannot be delivered.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (illegal transition)"
// @Router /events/{eventID}/approve [post]
func (c *EventController) ApproveEvent(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.ApproveEvent)
}

// RejectEvent godoc
// @Summary Reject a pending event (admin only)
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param rejection body RejectEventRequest true "Rejection reason"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (missing reason)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (illegal transition)"
// @Router /events/{eventID}/reject [post]
func (c *EventController) RejectEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req RejectEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.RejectEvent(r.Context(), eventID, req.Reason)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ResubmitEvent godoc
// @Summary Resubmit a rejected event for approval
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (illegal transition)"
// @Router /events/{eventID}/resubmit [post]
func (c *EventController) ResubmitEvent(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.ResubmitEvent)
}

// CancelEvent godoc
// @Summary Cancel a published event (admin only)
// @Description Cancels the event and notifies downstream consumers. The cancellation fails if the notification cannot be delivered.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (illegal transition)"
// @Router /events/{eventID}/cancel [post]
func (c *EventController) CancelEvent(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.CancelEvent)
}

func (c *EventController) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, eventID string) (*domain.Event, error)) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	event, err := op(r.Context(), eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}
