// Package contract holds the conformance suite every router adapter must pass.
package contract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/nimburion/hrportal/pkg/server/router"
)

// expectation is one request against a router and what must come back.
type expectation struct {
	method string
	path   string
	code   int
	// body must match exactly unless empty.
	body string
	// contains must appear in the body unless empty.
	contains string
	// absent must not appear in the body unless empty.
	absent string
	// contentType must prefix the Content-Type header unless empty.
	contentType string
}

func text(s string) router.HandlerFunc {
	return func(c router.Context) error { return c.String(http.StatusOK, s) }
}

func tag(key, value string) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			c.Set(key, value)
			return next(c)
		}
	}
}

type ctxKey struct{}

// TestRouterContract runs the conformance suite against routers built by newRouter.
func TestRouterContract(t *testing.T, newRouter func() router.Router) {
	t.Helper()

	t.Run("routes", func(t *testing.T) {
		r := newRouter()
		r.GET("/api/v1/employees", text("list"))
		r.GET("/api/v1/employees/:id", func(c router.Context) error { return c.String(http.StatusOK, c.Param("id")) })
		r.GET("/api/v1/employees/:id/goals/:goalId", func(c router.Context) error {
			return c.String(http.StatusOK, c.Param("id")+"/"+c.Param("goalId")+"/"+c.Param("missing"))
		})

		verify(t, r,
			expectation{method: http.MethodGet, path: "/api/v1/employees", code: http.StatusOK, body: "list"},
			expectation{method: http.MethodGet, path: "/api/v1/employees/EMP-001", code: http.StatusOK, body: "EMP-001"},
			expectation{method: http.MethodGet, path: "/api/v1/employees/EMP-001/goals/G-9", code: http.StatusOK, body: "EMP-001/G-9/"},
			expectation{method: http.MethodGet, path: "/api/v1/payroll", code: http.StatusNotFound, contains: `"error":"not_found"`, contentType: "application/json"},
			expectation{method: http.MethodPost, path: "/api/v1/employees", code: http.StatusMethodNotAllowed, contains: `"error":"method_not_allowed"`},
		)
	})

	t.Run("groups", func(t *testing.T) {
		r := newRouter()
		api := r.Group("/api")
		api.GET("/health", text("api"))
		v1 := api.Group("/v1", tag("version", "v1"))
		v1.GET("/courses", func(c router.Context) error { return c.String(http.StatusOK, c.Get("version").(string)) })

		verify(t, r,
			expectation{method: http.MethodGet, path: "/api/health", code: http.StatusOK, body: "api"},
			expectation{method: http.MethodGet, path: "/api/v1/courses", code: http.StatusOK, body: "v1"},
			expectation{method: http.MethodGet, path: "/v1/courses", code: http.StatusNotFound},
		)
	})

	t.Run("query", func(t *testing.T) {
		r := newRouter()
		r.GET("/api/v1/goals", func(c router.Context) error { return c.String(http.StatusOK, c.Query("status")) })

		verify(t, r,
			expectation{method: http.MethodGet, path: "/api/v1/goals?status=active", code: http.StatusOK, body: "active"},
			expectation{method: http.MethodGet, path: "/api/v1/goals?status=active&status=done", code: http.StatusOK, body: "active"},
			expectation{method: http.MethodGet, path: "/api/v1/goals?status=on%20track", code: http.StatusOK, body: "on track"},
			expectation{method: http.MethodGet, path: "/api/v1/goals", code: http.StatusOK, body: ""},
		)
	})

	t.Run("middleware_order", func(t *testing.T) {
		r := newRouter()
		var order []string
		trace := func(name string) router.MiddlewareFunc {
			return func(next router.HandlerFunc) router.HandlerFunc {
				return func(c router.Context) error {
					order = append(order, name)
					return next(c)
				}
			}
		}
		r.Use(trace("first"), trace("second"))
		r.GET("/m", func(c router.Context) error {
			order = append(order, "handler")
			return c.String(http.StatusOK, "ok")
		}, trace("route"))

		verify(t, r, expectation{method: http.MethodGet, path: "/m", code: http.StatusOK})
		if want := []string{"first", "second", "route", "handler"}; !slices.Equal(order, want) {
			t.Fatalf("order = %v, want %v", order, want)
		}
	})

	t.Run("middleware_short_circuit", func(t *testing.T) {
		r := newRouter()
		called := false
		deny := func(router.HandlerFunc) router.HandlerFunc {
			return func(router.Context) error { return errors.New("denied") }
		}
		r.GET("/stop", func(c router.Context) error {
			called = true
			return nil
		}, deny)

		verify(t, r, expectation{method: http.MethodGet, path: "/stop", code: http.StatusInternalServerError})
		if called {
			t.Fatal("handler ran after middleware returned an error")
		}
	})

	t.Run("request_context", func(t *testing.T) {
		r := newRouter()
		r.Use(func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				ctx := context.WithValue(c.Request().Context(), ctxKey{}, "req-1")
				c.SetRequest(c.Request().WithContext(ctx))
				return next(c)
			}
		}, tag("stored", "yes"))
		r.GET("/ctx", func(c router.Context) error {
			id, _ := c.Request().Context().Value(ctxKey{}).(string)
			stored, _ := c.Get("stored").(string)
			if c.Get("missing") != nil {
				return errors.New("missing key returned a value")
			}
			return c.String(http.StatusOK, id+","+stored)
		})

		verify(t, r, expectation{method: http.MethodGet, path: "/ctx", code: http.StatusOK, body: "req-1,yes"})
	})

	t.Run("responses", func(t *testing.T) {
		r := newRouter()
		r.GET("/json", func(c router.Context) error {
			return c.JSON(http.StatusCreated, map[string]int{"totalMatched": 3})
		})
		r.GET("/text", func(c router.Context) error { return c.String(http.StatusAccepted, "queued") })
		r.GET("/header-only", func(c router.Context) error {
			rw := c.Response()
			if rw.Written() {
				return errors.New("written before any write")
			}
			rw.WriteHeader(http.StatusNoContent)
			if !rw.Written() || rw.Status() != http.StatusNoContent {
				return errors.New("status not tracked")
			}
			return nil
		})

		verify(t, r,
			expectation{method: http.MethodGet, path: "/json", code: http.StatusCreated, contains: `{"totalMatched":3}`, contentType: "application/json"},
			expectation{method: http.MethodGet, path: "/text", code: http.StatusAccepted, body: "queued", contentType: "text/plain"},
			expectation{method: http.MethodGet, path: "/header-only", code: http.StatusNoContent},
		)
	})

	t.Run("handler_errors", func(t *testing.T) {
		r := newRouter()
		r.GET("/api/v1/broken", func(router.Context) error { return errors.New("dial tcp 10.0.0.5:5432: password authentication failed") })
		r.GET("/api/v1/written", func(c router.Context) error {
			if err := c.String(http.StatusBadRequest, "bad page"); err != nil {
				return err
			}
			return errors.New("ignored")
		})

		verify(t, r,
			expectation{method: http.MethodGet, path: "/api/v1/broken", code: http.StatusInternalServerError, contains: "internal_server_error", absent: "password"},
			expectation{method: http.MethodGet, path: "/api/v1/written", code: http.StatusBadRequest, body: "bad page"},
		)
	})
}

func verify(t *testing.T, r router.Router, expectations ...expectation) {
	t.Helper()
	for _, e := range expectations {
		res := performRequest(r, e.method, e.path)
		got := res.Body.String()
		switch {
		case res.Code != e.code:
			t.Errorf("%s %s: status %d, want %d (body %q)", e.method, e.path, res.Code, e.code, got)
		case e.body != "" && got != e.body:
			t.Errorf("%s %s: body %q, want %q", e.method, e.path, got, e.body)
		case e.contains != "" && !strings.Contains(got, e.contains):
			t.Errorf("%s %s: body %q does not contain %q", e.method, e.path, got, e.contains)
		case e.absent != "" && strings.Contains(got, e.absent):
			t.Errorf("%s %s: body %q leaks %q", e.method, e.path, got, e.absent)
		case e.contentType != "" && !strings.HasPrefix(res.Header().Get("Content-Type"), e.contentType):
			t.Errorf("%s %s: Content-Type %q, want %q", e.method, e.path, res.Header().Get("Content-Type"), e.contentType)
		}
	}
}

func performRequest(r router.Router, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, http.NoBody)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
