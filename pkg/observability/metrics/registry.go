// Package metrics provides Prometheus metrics for the HTTP surface and list queries.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nimburion/hrportal/pkg/version"
)

// Registry is a private Prometheus registry preloaded with Go runtime and process collectors.
// The portal keeps one per process and serves it from the management server.
type Registry struct {
	registry *prometheus.Registry
}

// NewRegistry returns an empty registry plus the runtime collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Registry{registry: reg}
}

// Register adds a collector.
func (r *Registry) Register(collector prometheus.Collector) error {
	return r.registry.Register(collector)
}

// MustRegister adds collectors and panics on conflicts.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.registry.MustRegister(cs...)
}

// RegisterBuildInfo exposes hrportal_build_info{service,version,commit} with value 1.
// Registering the same info twice is not an error.
func (r *Registry) RegisterBuildInfo(info version.Info) error {
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "hrportal_build_info",
		Help: "Build metadata of the running binary.",
	}, []string{"service", "version", "commit"})
	if err := r.registry.Register(gauge); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return err
		}
		gauge = already.ExistingCollector.(*prometheus.GaugeVec)
	}
	gauge.WithLabelValues(info.Service, info.Version, info.Commit).Set(1)
	return nil
}

// Handler serves the registry in the Prometheus and OpenMetrics text formats.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Gatherer exposes the registry for promhttp and testutil.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
