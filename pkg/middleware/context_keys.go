// Package middleware holds values shared by the HTTP middleware subpackages.
package middleware

import "context"

// ContextKey is the type of context keys set by the middleware.
type ContextKey string

// RequestIDKey carries the request id in the request context and in router.Context values.
const RequestIDKey ContextKey = "request_id"

// WithRequestID returns a copy of ctx carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestIDFrom returns the id stored by WithRequestID, or "".
func RequestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
