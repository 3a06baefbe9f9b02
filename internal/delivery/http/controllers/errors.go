package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventstage/internal/delivery/http/helpers"
	"eventstage/internal/domain"
	"eventstage/internal/requestctx"
)

// writeServiceError maps domain errors to the API error envelope. Validation,
// not-found, and conflict errors surface their messages; publish failures and
// everything else collapse to a generic failure after logging.
func writeServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidWindow),
		errors.Is(err, domain.ErrInvalidSchedule),
		errors.Is(err, domain.ErrOutsideWindow):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, requestctx.ErrNoUserContext):
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrSessionNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "session not found")
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrSpeakerAlreadyAssigned),
		errors.Is(err, domain.ErrSpeakerConflict):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
	case errors.Is(err, domain.ErrPublishFailed):
		logger.ErrorContext(r.Context(), "lifecycle publish failed", "path", r.URL.Path,
			"method", r.Method, "request_id", requestctx.RequestID(r.Context()), "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "operation failed")
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path,
			"method", r.Method, "request_id", requestctx.RequestID(r.Context()), "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
