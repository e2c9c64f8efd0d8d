// Package nethttp is a dependency-free router.Router with a segment matcher.
package nethttp

import (
	"net/http"
	"strings"
	"sync"

	"github.com/nimburion/hrportal/pkg/server/router"
)

// NetHTTPRouter implements router.Router using net/http and a simple segment matcher.
type NetHTTPRouter struct {
	routes     *[]route
	middleware []router.MiddlewareFunc
	prefix     string
	mu         *sync.RWMutex
}

type route struct {
	method  string
	pattern []string
	handler router.HandlerFunc
}

// NewRouter creates a new NetHTTPRouter.
func NewRouter() *NetHTTPRouter {
	routes := make([]route, 0)
	return &NetHTTPRouter{routes: &routes, mu: &sync.RWMutex{}}
}

// GET registers a GET route.
func (r *NetHTTPRouter) GET(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.addRoute(http.MethodGet, path, handler, middleware)
}

// Group creates a route group with common prefix and middleware.
func (r *NetHTTPRouter) Group(prefix string, middleware ...router.MiddlewareFunc) router.Router {
	r.mu.RLock()
	combined := append(append([]router.MiddlewareFunc{}, r.middleware...), middleware...)
	r.mu.RUnlock()
	return &NetHTTPRouter{
		routes:     r.routes,
		middleware: combined,
		prefix:     r.prefix + prefix,
		mu:         r.mu,
	}
}

// Use applies middleware to all routes registered afterwards.
func (r *NetHTTPRouter) Use(middleware ...router.MiddlewareFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware = append(r.middleware, middleware...)
}

// ServeHTTP implements http.Handler. Static segments win over parameters at the same
// position. A path registered only for other methods answers 405.
func (r *NetHTTPRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.RLock()
	var (
		best        *route
		bestParams  map[string]string
		bestScore   = -1
		otherMethod bool
	)
	segments := split(req.URL.Path)
	for i := range *r.routes {
		rt := &(*r.routes)[i]
		params, score, ok := match(rt.pattern, segments)
		if !ok {
			continue
		}
		if rt.method != req.Method {
			otherMethod = true
			continue
		}
		if score > bestScore {
			best, bestParams, bestScore = rt, params, score
		}
	}
	r.mu.RUnlock()

	switch {
	case best != nil:
		c := &netHTTPContext{request: req, response: router.NewResponseWriter(w), params: bestParams}
		router.Fail(c.response, best.handler(c))
	case otherMethod:
		router.MethodNotAllowed(w, req)
	default:
		router.NotFound(w, req)
	}
}

func (r *NetHTTPRouter) addRoute(method, path string, handler router.HandlerFunc, middleware []router.MiddlewareFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := append(append([]router.MiddlewareFunc{}, r.middleware...), middleware...)
	*r.routes = append(*r.routes, route{
		method:  method,
		pattern: split(r.prefix + path),
		handler: router.Chain(handler, all...),
	})
}

func split(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// match reports whether segments fit pattern; score counts static segment hits.
func match(pattern, segments []string) (map[string]string, int, bool) {
	if len(pattern) != len(segments) {
		return nil, 0, false
	}
	params := map[string]string{}
	score := 0
	for i, part := range pattern {
		if strings.HasPrefix(part, ":") {
			params[part[1:]] = segments[i]
			continue
		}
		if part != segments[i] {
			return nil, 0, false
		}
		score++
	}
	return params, score, true
}

type netHTTPContext struct {
	request  *http.Request
	response router.ResponseWriter
	params   map[string]string
	mu       sync.RWMutex
	values   map[string]any
}

func (c *netHTTPContext) Request() *http.Request             { return c.request }
func (c *netHTTPContext) SetRequest(r *http.Request)          { c.request = r }
func (c *netHTTPContext) Response() router.ResponseWriter     { return c.response }
func (c *netHTTPContext) SetResponse(w router.ResponseWriter) { c.response = w }
func (c *netHTTPContext) Param(name string) string            { return c.params[name] }
func (c *netHTTPContext) Query(name string) string            { return c.request.URL.Query().Get(name) }

func (c *netHTTPContext) JSON(code int, v any) error {
	return router.WriteJSON(c.response, code, v)
}

func (c *netHTTPContext) String(code int, s string) error {
	return router.WriteString(c.response, code, s)
}

func (c *netHTTPContext) Get(key string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[key]
}

func (c *netHTTPContext) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[string]any)
	}
	c.values[key] = value
}
