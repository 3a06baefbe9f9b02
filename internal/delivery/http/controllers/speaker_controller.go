package controllers

import (
	"log/slog"
	"net/http"

	"eventstage/internal/delivery/http/helpers"
	"eventstage/internal/domain"
)

// AssignSpeakerRequest is the request body for POST .../sessions/{sessionID}/speakers.
type AssignSpeakerRequest struct {
	SpeakerID    string  `json:"speaker_id"`
	SpecialNotes *string `json:"special_notes"`
}

// Validate implements Validator.
func (a AssignSpeakerRequest) Validate() []string {
	var errs []string
	if a.SpeakerID == "" {
		errs = append(errs, "speaker_id is required")
	}
	return errs
}

// UpdateSpeakerAssignmentRequest is the request body for PATCH .../speakers/{speakerID}.
type UpdateSpeakerAssignmentRequest struct {
	MaterialsAssetID        *string                 `json:"materials_asset_id"`
	MaterialsStatus         *domain.MaterialsStatus `json:"materials_status"`
	SpeakerCheckinConfirmed *bool                   `json:"speaker_checkin_confirmed"`
	SpecialNotes            *string                 `json:"special_notes"`
}

// SessionSpeakerSuccessResponse is the success envelope for assignment responses.
type SessionSpeakerSuccessResponse struct {
	Data  *domain.SessionSpeaker `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

type SpeakerController struct {
	Logger  *slog.Logger
	Service domain.SpeakerAssignmentService
}

func NewSpeakerController(logger *slog.Logger, svc domain.SpeakerAssignmentService) *SpeakerController {
	return &SpeakerController{
		Logger:  logger,
		Service: svc,
	}
}

// ListSessionSpeakers godoc
// @Summary List a session's speaker assignments
// @Tags speakers
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param sessionID path string true "Session ID"
// @Success 200 {object} helpers.APIResponse "data contains the assignment list"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/sessions/{sessionID}/speakers [get]
func (c *SpeakerController) ListSessionSpeakers(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	sessionID := r.PathValue("sessionID")
	if eventID == "" || sessionID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID or sessionID")
		return
	}
	assignments, err := c.Service.ListSessionSpeakers(r.Context(), eventID, sessionID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, assignments)
}

// AssignSpeaker godoc
// @Summary Assign a speaker to a session
// @Description Checks the speaker's accepted commitments in the speaker-management service for overlapping sessions before assigning. The check is best-effort: if the peer service is unavailable the assignment proceeds.
// @Tags speakers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param sessionID path string true "Session ID"
// @Param assignment body AssignSpeakerRequest true "Speaker to assign"
// @Success 201 {object} controllers.SessionSpeakerSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (duplicate or overlapping assignment)"
// @Router /events/{eventID}/sessions/{sessionID}/speakers [post]
func (c *SpeakerController) AssignSpeaker(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	sessionID := r.PathValue("sessionID")
	if eventID == "" || sessionID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID or sessionID")
		return
	}
	var req AssignSpeakerRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	assignment, err := c.Service.AssignSpeaker(r.Context(), eventID, sessionID, req.SpeakerID, req.SpecialNotes)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, assignment)
}

// UpdateSpeakerAssignment godoc
// @Summary Update a speaker assignment (materials, check-in, notes)
// @Tags speakers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param sessionID path string true "Session ID"
// @Param speakerID path string true "Speaker ID"
// @Param assignment body UpdateSpeakerAssignmentRequest true "Fields to update"
// @Success 200 {object} controllers.SessionSpeakerSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/sessions/{sessionID}/speakers/{speakerID} [patch]
func (c *SpeakerController) UpdateSpeakerAssignment(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	sessionID := r.PathValue("sessionID")
	speakerID := r.PathValue("speakerID")
	if eventID == "" || sessionID == "" || speakerID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing path parameter")
		return
	}
	var req UpdateSpeakerAssignmentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	update := domain.SessionSpeakerUpdate{
		MaterialsAssetID:        req.MaterialsAssetID,
		MaterialsStatus:         req.MaterialsStatus,
		SpeakerCheckinConfirmed: req.SpeakerCheckinConfirmed,
		SpecialNotes:            req.SpecialNotes,
	}
	assignment, err := c.Service.UpdateAssignment(r.Context(), eventID, sessionID, speakerID, update)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, assignment)
}

// RemoveSpeaker godoc
// @Summary Remove a speaker from a session
// @Description Deletes the assignment, then deletes the corresponding peer-service invitation best-effort.
// @Tags speakers
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param sessionID path string true "Session ID"
// @Param speakerID path string true "Speaker ID"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/sessions/{sessionID}/speakers/{speakerID} [delete]
func (c *SpeakerController) RemoveSpeaker(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	sessionID := r.PathValue("sessionID")
	speakerID := r.PathValue("speakerID")
	if eventID == "" || sessionID == "" || speakerID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing path parameter")
		return
	}
	if err := c.Service.RemoveSpeaker(r.Context(), eventID, sessionID, speakerID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
