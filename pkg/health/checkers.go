package health

import (
	"context"
	"time"
)

const (
	databaseTimeout = 5 * time.Second
	cacheTimeout    = 3 * time.Second
)

// Checkable is implemented by the store adapters.
type Checkable interface {
	HealthCheck(ctx context.Context) error
}

// CheckFunc reports a status and a message. A non-nil error is attached to the result.
type CheckFunc func(ctx context.Context) (Status, string, error)

// FuncChecker runs a CheckFunc, optionally under a timeout.
type FuncChecker struct {
	name    string
	timeout time.Duration
	check   CheckFunc
	meta    map[string]any
}

// NewFuncChecker wraps fn. It runs without a timeout of its own.
func NewFuncChecker(name string, fn CheckFunc) *FuncChecker {
	return &FuncChecker{name: name, check: fn}
}

// NewAdapterChecker reports adapter unhealthy when HealthCheck fails or exceeds timeout.
// A zero timeout means five seconds.
func NewAdapterChecker(name string, adapter Checkable, timeout time.Duration) *FuncChecker {
	if timeout <= 0 {
		timeout = databaseTimeout
	}
	return &FuncChecker{
		name:    name,
		timeout: timeout,
		meta:    map[string]any{"timeout": timeout.String()},
		check: func(ctx context.Context) (Status, string, error) {
			if err := adapter.HealthCheck(ctx); err != nil {
				return StatusUnhealthy, "", err
			}
			return StatusHealthy, "connection is healthy", nil
		},
	}
}

// NewDatabaseChecker checks the SQL data source.
func NewDatabaseChecker(name string, db Checkable) *FuncChecker {
	return NewAdapterChecker(name, db, databaseTimeout)
}

// NewCacheChecker checks the snapshot cache.
func NewCacheChecker(name string, cache Checkable) *FuncChecker {
	return NewAdapterChecker(name, cache, cacheTimeout)
}

func (c *FuncChecker) Name() string { return c.name }

func (c *FuncChecker) Check(ctx context.Context) CheckResult {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	status, message, err := c.check(ctx)
	res := CheckResult{
		Name:      c.name,
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
		Duration:  time.Since(start),
		Metadata:  c.meta,
	}
	if err != nil {
		res.Error = err.Error()
		if res.Status == "" || res.Status == StatusHealthy {
			res.Status = StatusUnhealthy
		}
	}
	return res
}
