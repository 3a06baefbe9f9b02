// Package requestctx carries the authenticated identity and correlation id of
// one inbound request through its whole call graph. The bundle rides on the
// request's context.Context, so every branch of a fan-out observes the same
// binding and an inner binding shadows an outer one only for its own subtree.
package requestctx

import (
	"context"
	"errors"
	"time"
)

// ErrNoUserContext is returned by the identity accessors when no request
// context is bound or the requested field is empty.
var ErrNoUserContext = errors.New("no user context available")

// UnknownRequestID is returned by RequestID outside any bound request context.
const UnknownRequestID = "unknown"

// RequestContext is the write-once-per-request identity and correlation bundle.
type RequestContext struct {
	UserID    string
	UserEmail string
	UserRole  string
	RequestID string
	Timestamp time.Time
}

type ctxKey struct{}

// With returns a context carrying rc. A later With on the returned context
// shadows this binding for the derived subtree only.
func With(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, rc)
}

// From returns the bound request context, if any.
func From(ctx context.Context) (RequestContext, bool) {
	rc, ok := ctx.Value(ctxKey{}).(RequestContext)
	return rc, ok
}

// Run executes fn with rc bound for the duration of the call. The caller's
// own context binding, if any, is untouched once Run returns.
func Run(ctx context.Context, rc RequestContext, fn func(ctx context.Context) error) error {
	return fn(With(ctx, rc))
}

// CurrentUserID returns the bound user id or ErrNoUserContext.
func CurrentUserID(ctx context.Context) (string, error) {
	rc, ok := From(ctx)
	if !ok || rc.UserID == "" {
		return "", ErrNoUserContext
	}
	return rc.UserID, nil
}

// CurrentUserRole returns the bound user role or ErrNoUserContext.
func CurrentUserRole(ctx context.Context) (string, error) {
	rc, ok := From(ctx)
	if !ok || rc.UserRole == "" {
		return "", ErrNoUserContext
	}
	return rc.UserRole, nil
}

// CurrentUserEmail returns the bound user email or ErrNoUserContext.
func CurrentUserEmail(ctx context.Context) (string, error) {
	rc, ok := From(ctx)
	if !ok || rc.UserEmail == "" {
		return "", ErrNoUserContext
	}
	return rc.UserEmail, nil
}

// RequestID returns the bound request id, or UnknownRequestID when unbound
// or empty. It never fails; correlation ids are best-effort by design.
func RequestID(ctx context.Context) string {
	rc, ok := From(ctx)
	if !ok || rc.RequestID == "" {
		return UnknownRequestID
	}
	return rc.RequestID
}
