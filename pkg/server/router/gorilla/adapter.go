// Package gorilla adapts gorilla/mux to router.Router.
package gorilla

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/nimburion/hrportal/pkg/server/router"
)

// GorillaRouter is a router.Router on a mux.Router. Groups are mux subrouters.
type GorillaRouter struct {
	mux        *mux.Router
	middleware []router.MiddlewareFunc
	mu         *sync.RWMutex
}

// NewRouter returns a mux router whose unmatched routes answer with the JSON error envelope.
func NewRouter() *GorillaRouter {
	m := mux.NewRouter()
	m.NotFoundHandler = http.HandlerFunc(router.NotFound)
	m.MethodNotAllowedHandler = http.HandlerFunc(router.MethodNotAllowed)
	return &GorillaRouter{mux: m, mu: &sync.RWMutex{}}
}

// GET registers handler. Paths use the ":name" parameter syntax and are translated to mux's
// "{name}" form.
func (r *GorillaRouter) GET(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	h := router.Chain(handler, r.chain(middleware)...)
	r.mux.HandleFunc(muxPath(path), func(w http.ResponseWriter, req *http.Request) {
		c := &gorillaContext{request: req, response: router.NewResponseWriter(w)}
		router.Fail(c.response, h(c))
	}).Methods(http.MethodGet)
}

// Group returns a subrouter for prefix that inherits the current middleware.
func (r *GorillaRouter) Group(prefix string, middleware ...router.MiddlewareFunc) router.Router {
	return &GorillaRouter{
		mux:        r.mux.PathPrefix(prefix).Subrouter(),
		middleware: r.chain(middleware),
		mu:         r.mu,
	}
}

// Use adds middleware for routes registered afterwards.
func (r *GorillaRouter) Use(middleware ...router.MiddlewareFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware = append(r.middleware, middleware...)
}

// ServeHTTP implements http.Handler.
func (r *GorillaRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *GorillaRouter) chain(extra []router.MiddlewareFunc) []router.MiddlewareFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(append([]router.MiddlewareFunc{}, r.middleware...), extra...)
}

func muxPath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if name, ok := strings.CutPrefix(p, ":"); ok {
			parts[i] = "{" + name + "}"
		}
	}
	return strings.Join(parts, "/")
}

type gorillaContext struct {
	request  *http.Request
	response router.ResponseWriter
	mu       sync.RWMutex
	values   map[string]any
}

func (c *gorillaContext) Request() *http.Request             { return c.request }
func (c *gorillaContext) SetRequest(r *http.Request)          { c.request = r }
func (c *gorillaContext) Response() router.ResponseWriter     { return c.response }
func (c *gorillaContext) SetResponse(w router.ResponseWriter) { c.response = w }
func (c *gorillaContext) Param(name string) string            { return mux.Vars(c.request)[name] }
func (c *gorillaContext) Query(name string) string            { return c.request.URL.Query().Get(name) }

func (c *gorillaContext) JSON(code int, v any) error {
	return router.WriteJSON(c.response, code, v)
}

func (c *gorillaContext) String(code int, s string) error {
	return router.WriteString(c.response, code, s)
}

func (c *gorillaContext) Get(key string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[key]
}

func (c *gorillaContext) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[string]any)
	}
	c.values[key] = value
}
