// Package gin adapts gin-gonic/gin to router.Router. It is the default router of the portal.
package gin

import (
	"net/http"
	"sync"

	ginpkg "github.com/gin-gonic/gin"

	"github.com/nimburion/hrportal/pkg/server/router"
)

// GinRouter is a router.Router on a gin engine. Groups share the engine and the lock.
type GinRouter struct {
	engine     *ginpkg.Engine
	group      *ginpkg.RouterGroup
	middleware []router.MiddlewareFunc
	mu         *sync.RWMutex
}

// NewRouter returns a release-mode gin engine whose unmatched routes answer with the JSON
// error envelope.
func NewRouter() *GinRouter {
	ginpkg.SetMode(ginpkg.ReleaseMode)
	engine := ginpkg.New()
	engine.HandleMethodNotAllowed = true
	engine.NoRoute(func(gc *ginpkg.Context) { router.NotFound(gc.Writer, gc.Request) })
	engine.NoMethod(func(gc *ginpkg.Context) { router.MethodNotAllowed(gc.Writer, gc.Request) })
	return &GinRouter{engine: engine, group: &engine.RouterGroup, mu: &sync.RWMutex{}}
}

// GET registers handler behind the router middleware and then the route middleware.
func (r *GinRouter) GET(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	h := router.Chain(handler, r.chain(middleware)...)
	r.group.GET(path, func(gc *ginpkg.Context) {
		c := &ginContext{gc: gc, response: router.NewResponseWriter(gc.Writer)}
		router.Fail(c.response, h(c))
	})
}

// Group returns a router for prefix that inherits the current middleware.
func (r *GinRouter) Group(prefix string, middleware ...router.MiddlewareFunc) router.Router {
	return &GinRouter{
		engine:     r.engine,
		group:      r.group.Group(prefix),
		middleware: r.chain(middleware),
		mu:         r.mu,
	}
}

// Use adds middleware for routes registered afterwards.
func (r *GinRouter) Use(middleware ...router.MiddlewareFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware = append(r.middleware, middleware...)
}

// ServeHTTP implements http.Handler.
func (r *GinRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.engine.ServeHTTP(w, req)
}

func (r *GinRouter) chain(extra []router.MiddlewareFunc) []router.MiddlewareFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(append([]router.MiddlewareFunc{}, r.middleware...), extra...)
}

// ginContext keeps per-request values in gin's own key store.
type ginContext struct {
	gc       *ginpkg.Context
	response router.ResponseWriter
}

func (c *ginContext) Request() *http.Request             { return c.gc.Request }
func (c *ginContext) SetRequest(r *http.Request)          { c.gc.Request = r }
func (c *ginContext) Response() router.ResponseWriter     { return c.response }
func (c *ginContext) SetResponse(w router.ResponseWriter) { c.response = w }
func (c *ginContext) Param(name string) string            { return c.gc.Param(name) }
func (c *ginContext) Query(name string) string            { return c.gc.Query(name) }

func (c *ginContext) JSON(code int, v any) error {
	return router.WriteJSON(c.response, code, v)
}

func (c *ginContext) String(code int, s string) error {
	return router.WriteString(c.response, code, s)
}

func (c *ginContext) Get(key string) any {
	v, _ := c.gc.Get(key)
	return v
}

func (c *ginContext) Set(key string, value any) { c.gc.Set(key, value) }
