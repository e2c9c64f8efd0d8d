package server

import (
	"net/http"
	"time"

	"github.com/nimburion/hrportal/pkg/config"
	"github.com/nimburion/hrportal/pkg/health"
	"github.com/nimburion/hrportal/pkg/middleware/logging"
	"github.com/nimburion/hrportal/pkg/middleware/recovery"
	"github.com/nimburion/hrportal/pkg/middleware/requestid"
	"github.com/nimburion/hrportal/pkg/observability/logger"
	"github.com/nimburion/hrportal/pkg/observability/metrics"
	"github.com/nimburion/hrportal/pkg/server/router"
	"github.com/nimburion/hrportal/pkg/version"
)

const managementIdleTimeout = 60 * time.Second

// ManagementServer serves the operational endpoints on their own port:
//
//	GET /health        liveness, always 200
//	GET /ready         every readiness check; 503 once one is unhealthy
//	GET /ready/:check  a single check by name
//	GET /metrics       Prometheus exposition
//	GET /version       build metadata
type ManagementServer struct {
	*Server
	checks  *health.Registry
	metrics *metrics.Registry
	info    version.Info
}

// NewManagementServer registers the management endpoints on r. Probes and scrapes are not
// request-logged.
func NewManagementServer(
	cfg config.ManagementConfig,
	r router.Router,
	log logger.Logger,
	checks *health.Registry,
	registry *metrics.Registry,
	info version.Info,
) *ManagementServer {
	r.Use(
		requestid.RequestID(),
		logging.WithConfig(log, logging.Config{Enabled: true, ExcludedPathPrefixes: []string{"/health", "/ready", "/metrics"}}),
		recovery.Recovery(log),
	)

	s := &ManagementServer{
		Server: NewServer(Config{
			Port:         cfg.Port,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  managementIdleTimeout,
		}, r, log),
		checks:  checks,
		metrics: registry,
		info:    info,
	}

	r.GET("/health", func(c router.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": string(health.StatusHealthy)})
	})
	r.GET("/ready", s.ready)
	r.GET("/ready/:check", s.readyOne)
	r.GET("/metrics", func(c router.Context) error {
		s.metrics.Handler().ServeHTTP(c.Response(), c.Request())
		return nil
	})
	r.GET("/version", func(c router.Context) error { return c.JSON(http.StatusOK, s.info) })
	return s
}

// readinessCode maps a status to the probe response code. Degraded still serves traffic.
func readinessCode(status health.Status) int {
	if status == health.StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

func (s *ManagementServer) ready(c router.Context) error {
	result := s.checks.Check(c.Request().Context())
	return c.JSON(readinessCode(result.Status), result)
}

func (s *ManagementServer) readyOne(c router.Context) error {
	result, err := s.checks.CheckOne(c.Request().Context(), c.Param("check"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not_found", "message": err.Error()})
	}
	return c.JSON(readinessCode(result.Status), result)
}
