// Package logging logs one structured event per HTTP request.
package logging

import (
	"net/http"
	"strings"
	"time"

	"github.com/nimburion/hrportal/pkg/middleware/requestid"
	"github.com/nimburion/hrportal/pkg/observability/logger"
	"github.com/nimburion/hrportal/pkg/server/router"
)

// Log field names.
const (
	FieldRequestID   = "request_id"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldQueryString = "query_string"
	FieldStatus      = "status"
	FieldDurationMS  = "duration_ms"
	FieldRemoteAddr  = "remote_addr"
	FieldError       = "error"
	FieldSlow        = "slow"
)

// Messages, one per outcome.
const (
	MsgStarted   = "request started"
	MsgCompleted = "request completed"
	MsgRejected  = "request rejected"
	MsgFailed    = "request failed"
)

// Config controls which requests are logged and at which level.
type Config struct {
	Enabled bool
	// LogStart also logs MsgStarted before the handler runs.
	LogStart bool
	// SlowThreshold raises successful requests that took longer to warn level. Zero disables it.
	SlowThreshold time.Duration
	// ExcludedPathPrefixes are never logged, e.g. probes and scrapes.
	ExcludedPathPrefixes []string
}

// DefaultConfig logs every request.
func DefaultConfig() Config {
	return Config{Enabled: true}
}

// Logging logs with DefaultConfig.
func Logging(log logger.Logger) router.MiddlewareFunc {
	return WithConfig(log, DefaultConfig())
}

// WithConfig logs each request when it ends: handler errors and 5xx at error level as
// MsgFailed, 4xx at warn level as MsgRejected, everything else at info level as MsgCompleted.
// Errors are passed through unchanged.
func WithConfig(log logger.Logger, cfg Config) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			req := c.Request()
			if !cfg.Enabled || cfg.excluded(req.URL.Path) {
				return next(c)
			}

			reqLog := log.With(
				FieldRequestID, requestid.GetRequestID(req.Context()),
				FieldMethod, req.Method,
				FieldPath, req.URL.Path,
				FieldQueryString, req.URL.RawQuery,
				FieldRemoteAddr, req.RemoteAddr,
			)
			if cfg.LogStart {
				reqLog.Info(MsgStarted)
			}

			start := time.Now()
			err := next(c)
			elapsed := time.Since(start)
			status := c.Response().Status()
			fields := []any{FieldStatus, status, FieldDurationMS, elapsed.Milliseconds()}

			switch {
			case err != nil:
				reqLog.Error(MsgFailed, append(fields, FieldError, err.Error())...)
			case status >= http.StatusInternalServerError:
				reqLog.Error(MsgFailed, fields...)
			case status >= http.StatusBadRequest:
				reqLog.Warn(MsgRejected, fields...)
			case cfg.SlowThreshold > 0 && elapsed > cfg.SlowThreshold:
				reqLog.Warn(MsgCompleted, append(fields, FieldSlow, true)...)
			default:
				reqLog.Info(MsgCompleted, fields...)
			}
			return err
		}
	}
}

func (c Config) excluded(path string) bool {
	for _, prefix := range c.ExcludedPathPrefixes {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
