package server

import (
	"github.com/nimburion/hrportal/pkg/config"
	"github.com/nimburion/hrportal/pkg/middleware/logging"
	"github.com/nimburion/hrportal/pkg/middleware/metrics"
	"github.com/nimburion/hrportal/pkg/middleware/recovery"
	"github.com/nimburion/hrportal/pkg/middleware/requestid"
	"github.com/nimburion/hrportal/pkg/middleware/tracing"
	"github.com/nimburion/hrportal/pkg/observability/logger"
	obsmetrics "github.com/nimburion/hrportal/pkg/observability/metrics"
	"github.com/nimburion/hrportal/pkg/server/router"
)

// PublicAPIServer serves the HR list and detail endpoints.
type PublicAPIServer struct {
	*Server
}

// NewPublicAPIServer applies the public middleware stack to r, outermost first: request ID,
// tracing (when enabled), logging, metrics (when httpMetrics is not nil) and recovery, so
// recovered panics are logged and counted as 500s.
// Routes must be registered on r after this call.
func NewPublicAPIServer(
	cfg config.HTTPConfig,
	obsCfg config.ObservabilityConfig,
	r router.Router,
	log logger.Logger,
	httpMetrics *obsmetrics.HTTPMetrics,
) *PublicAPIServer {
	stack := []router.MiddlewareFunc{requestid.RequestID()}
	if obsCfg.TracingEnabled {
		stack = append(stack, tracing.Tracing(tracing.Config{TracerName: "hrportal-http"}))
	}
	logCfg := logging.DefaultConfig()
	logCfg.LogStart = obsCfg.LogRequestStart
	logCfg.SlowThreshold = obsCfg.SlowRequestThreshold
	stack = append(stack, logging.WithConfig(log, logCfg))
	if httpMetrics != nil {
		stack = append(stack, metrics.Metrics(httpMetrics))
	}
	r.Use(append(stack, recovery.Recovery(log))...)

	return &PublicAPIServer{
		Server: NewServer(Config{
			Port:            cfg.Port,
			ReadTimeout:     cfg.ReadTimeout,
			WriteTimeout:    cfg.WriteTimeout,
			IdleTimeout:     cfg.IdleTimeout,
			ShutdownTimeout: cfg.ShutdownTimeout,
		}, r, log),
	}
}
