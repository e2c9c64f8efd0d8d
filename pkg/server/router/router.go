// Package router is the HTTP routing seam of the portal. Every API is read-only, so a Router
// registers GET routes only, plus groups and middleware. Adapters live in the nethttp, gin and
// gorilla subpackages and are picked by the factory package.
package router

import "net/http"

// Router registers handlers and serves them.
type Router interface {
	http.Handler

	// GET registers handler for path. Path parameters use the ":name" syntax on every adapter.
	GET(path string, handler HandlerFunc, middleware ...MiddlewareFunc)
	// Group returns a router whose routes are prefixed with prefix and run middleware after
	// the parent's.
	Group(prefix string, middleware ...MiddlewareFunc) Router
	// Use appends middleware for routes registered afterwards.
	Use(middleware ...MiddlewareFunc)
}

// HandlerFunc answers one request. A returned error that left the response unwritten becomes
// an opaque 500.
type HandlerFunc func(Context) error

// MiddlewareFunc decorates a HandlerFunc.
type MiddlewareFunc func(HandlerFunc) HandlerFunc

// Context is the per-request view handed to handlers and middleware.
type Context interface {
	Request() *http.Request
	// SetRequest replaces the request, typically to attach context values.
	SetRequest(r *http.Request)
	Response() ResponseWriter
	SetResponse(w ResponseWriter)

	// Param returns the path parameter name, or "".
	Param(name string) string
	// Query returns the first value of the query parameter name, or "".
	Query(name string) string

	JSON(code int, v any) error
	String(code int, s string) error

	// Get returns the value stored under key by Set, or nil.
	Get(key string) any
	Set(key string, value any)
}

// ResponseWriter is an http.ResponseWriter that remembers what it wrote.
type ResponseWriter interface {
	http.ResponseWriter
	// Status is the code sent, or 200 before anything was written.
	Status() int
	Written() bool
}

// Chain wraps h in middleware; middleware[0] runs first.
func Chain(h HandlerFunc, middleware ...MiddlewareFunc) HandlerFunc {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}
