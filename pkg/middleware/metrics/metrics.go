// Package metrics records Prometheus HTTP metrics for every request.
package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/nimburion/hrportal/pkg/observability/metrics"
	"github.com/nimburion/hrportal/pkg/server/router"
)

// PathLabel turns a request path into the value of the path label.
type PathLabel func(path string) string

// ResourcePath labels "/<resource>/<id>" as "/<resource>/:id" so that every record of a
// collection shares one series. Other paths are kept.
func ResourcePath(path string) string {
	rest, ok := strings.CutPrefix(path, "/")
	if !ok {
		return path
	}
	resource, id, found := strings.Cut(rest, "/")
	if !found || id == "" || strings.Contains(id, "/") {
		return path
	}
	return "/" + resource + "/:id"
}

// Option configures Metrics.
type Option func(*options)

type options struct {
	label PathLabel
}

// WithPathLabel replaces ResourcePath.
func WithPathLabel(label PathLabel) Option {
	return func(o *options) { o.label = label }
}

// Metrics records duration, count and in-flight requests on m. A handler error that left the
// response unwritten counts as 500.
func Metrics(m *metrics.HTTPMetrics, opts ...Option) router.MiddlewareFunc {
	o := options{label: ResourcePath}
	for _, opt := range opts {
		opt(&o)
	}
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			m.IncrementInFlight()
			defer m.DecrementInFlight()

			start := time.Now()
			err := next(c)
			elapsed := time.Since(start)

			status := c.Response().Status()
			if err != nil && !c.Response().Written() {
				status = http.StatusInternalServerError
			}
			m.Record(c.Request().Method, o.label(c.Request().URL.Path), status, elapsed)
			return err
		}
	}
}
