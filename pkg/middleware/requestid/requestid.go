// Package requestid assigns a correlation id to every request.
package requestid

import (
	"context"

	"github.com/google/uuid"

	"github.com/nimburion/hrportal/pkg/middleware"
	"github.com/nimburion/hrportal/pkg/server/router"
)

// RequestIDHeader is read from the request and echoed on the response.
const RequestIDHeader = "X-Request-ID"

// maxLength bounds ids accepted from clients.
const maxLength = 128

// RequestID reuses a well-formed incoming X-Request-ID or generates a UUID. The id is echoed in
// the response and stored in the router context and the request context.
func RequestID() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			id := c.Request().Header.Get(RequestIDHeader)
			if !valid(id) {
				id = uuid.NewString()
			}
			c.Set(string(middleware.RequestIDKey), id)
			c.Response().Header().Set(RequestIDHeader, id)
			c.SetRequest(c.Request().WithContext(middleware.WithRequestID(c.Request().Context(), id)))
			return next(c)
		}
	}
}

// valid accepts non-empty printable ASCII without spaces, so ids can be logged verbatim.
func valid(id string) bool {
	if id == "" || len(id) > maxLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}

// GetRequestID returns the request id in ctx, or "".
func GetRequestID(ctx context.Context) string {
	return middleware.RequestIDFrom(ctx)
}
