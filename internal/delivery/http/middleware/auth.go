package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "eventstage/internal/delivery/http/helpers"
	"eventstage/internal/domain"
	"eventstage/internal/requestctx"
)

// RequireAuth returns a wrapper that validates the Bearer token and binds the
// request context bundle (identity plus correlation id) for the whole handler
// call graph. If the token is missing or invalid, it responds with 401 and
// does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			identity, err := verifier.Verify(token)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			rc := requestctx.RequestContext{
				UserID:    identity.UserID,
				UserEmail: identity.Email,
				UserRole:  identity.PrimaryRole(),
				RequestID: r.Header.Get(RequestIDHeader),
				Timestamp: time.Now(),
			}
			r = r.WithContext(requestctx.With(r.Context(), rc))
			next(w, r)
		}
	}
}
