package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nimburion/hrportal/pkg/config"
	"github.com/nimburion/hrportal/pkg/health"
	"github.com/nimburion/hrportal/pkg/observability/logger"
	"github.com/nimburion/hrportal/pkg/observability/metrics"
	"github.com/nimburion/hrportal/pkg/server/router"
	"github.com/nimburion/hrportal/pkg/server/router/factory"
	"github.com/nimburion/hrportal/pkg/version"
)

const defaultHookTimeout = 10 * time.Second

// LifecycleHook is a named action run before the servers start or after they stop.
type LifecycleHook struct {
	Name string
	Fn   func(context.Context) error
}

func (h LifecycleHook) name() string {
	if n := strings.TrimSpace(h.Name); n != "" {
		return n
	}
	return "unnamed"
}

// Options are the inputs for building and running the portal's HTTP servers.
type Options struct {
	Config *config.Config
	Logger logger.Logger

	HealthRegistry  *health.Registry
	MetricsRegistry *metrics.Registry
	HTTPMetrics     *metrics.HTTPMetrics

	// RegisterRoutes mounts the resource routes on the public router.
	RegisterRoutes func(router.Router) error

	// StartupHooks run in order; the first failure aborts the start.
	StartupHooks []LifecycleHook
	// ShutdownHooks all run in order once the servers stopped, each under ShutdownHookTimeout.
	ShutdownHooks       []LifecycleHook
	ShutdownHookTimeout time.Duration
}

func (o *Options) applyDefaults() {
	if o.Config == nil {
		o.Config = config.DefaultConfig()
	}
	if o.Logger == nil {
		o.Logger = logger.NewNopLogger()
	}
	if o.HealthRegistry == nil {
		o.HealthRegistry = health.NewRegistry()
	}
	if o.MetricsRegistry == nil {
		o.MetricsRegistry = metrics.NewRegistry()
	}
	if o.ShutdownHookTimeout <= 0 {
		o.ShutdownHookTimeout = defaultHookTimeout
	}
}

// HTTPServers groups the public and management servers. Management is nil when disabled.
type HTTPServers struct {
	Public     *PublicAPIServer
	Management *ManagementServer
}

func (s *HTTPServers) all() []interface{ Start(context.Context) error } {
	out := []interface{ Start(context.Context) error }{s.Public}
	if s.Management != nil {
		out = append(out, s.Management)
	}
	return out
}

// BuildHTTPServers creates routers of Config.RouterType, applies the middleware stacks and
// registers the routes.
func BuildHTTPServers(opts *Options) (*HTTPServers, error) {
	opts.applyDefaults()

	public, err := buildPublic(opts)
	if err != nil {
		return nil, err
	}
	servers := &HTTPServers{Public: public}
	if opts.Config.Management.Enabled {
		if servers.Management, err = buildManagement(opts); err != nil {
			return nil, err
		}
	}
	return servers, nil
}

func buildPublic(opts *Options) (*PublicAPIServer, error) {
	r, err := factory.NewRouter(opts.Config.RouterType)
	if err != nil {
		return nil, fmt.Errorf("public router: %w", err)
	}
	public := NewPublicAPIServer(opts.Config.HTTP, opts.Config.Observability, r, opts.Logger, opts.HTTPMetrics)
	if opts.RegisterRoutes != nil {
		if err := opts.RegisterRoutes(r); err != nil {
			return nil, fmt.Errorf("register routes: %w", err)
		}
	}
	return public, nil
}

func buildManagement(opts *Options) (*ManagementServer, error) {
	r, err := factory.NewRouter(opts.Config.RouterType)
	if err != nil {
		return nil, fmt.Errorf("management router: %w", err)
	}
	info := version.Current(opts.Config.Service.Name)
	if err := opts.MetricsRegistry.RegisterBuildInfo(info); err != nil {
		return nil, fmt.Errorf("register build info: %w", err)
	}
	return NewManagementServer(opts.Config.Management, r, opts.Logger, opts.HealthRegistry, opts.MetricsRegistry, info), nil
}

// RunHTTPServers runs the startup hooks and then every server until ctx is cancelled or one
// server fails, which stops the others. The shutdown hooks run on the way out.
func RunHTTPServers(ctx context.Context, servers *HTTPServers, opts *Options) error {
	if servers == nil || servers.Public == nil {
		return errors.New("servers and public server are required")
	}
	if opts.Logger == nil {
		return errors.New("logger is required")
	}
	opts.applyDefaults()

	info := version.Current(opts.Config.Service.Name)
	opts.Logger.Info("starting",
		"service", info.Service,
		"version", info.Version,
		"commit", info.Commit,
		"build_time", info.BuildTime,
	)

	if err := runStartupHooks(ctx, opts); err != nil {
		return err
	}
	defer func() {
		if err := runShutdownHooks(opts); err != nil {
			opts.Logger.Error("shutdown hooks completed with errors", "error", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers.all() {
		g.Go(func() error { return srv.Start(gctx) })
	}
	return g.Wait()
}

// RunHTTPServersWithSignals runs the servers until SIGINT or SIGTERM, or the given signals.
func RunHTTPServersWithSignals(servers *HTTPServers, opts *Options, signals ...os.Signal) error {
	if len(signals) == 0 {
		signals = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)
	defer stop()
	return RunHTTPServers(ctx, servers, opts)
}

func runStartupHooks(ctx context.Context, opts *Options) error {
	for _, hook := range opts.StartupHooks {
		if hook.Fn == nil {
			continue
		}
		if err := hook.Fn(ctx); err != nil {
			opts.Logger.Error("startup hook failed", "hook", hook.name(), "error", err)
			return fmt.Errorf("startup hook %q failed: %w", hook.name(), err)
		}
		opts.Logger.Debug("startup hook done", "hook", hook.name())
	}
	return nil
}

// runShutdownHooks runs every hook, even after a failure, and joins the errors.
func runShutdownHooks(opts *Options) error {
	var errs []error
	for _, hook := range opts.ShutdownHooks {
		if hook.Fn == nil {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), opts.ShutdownHookTimeout)
		err := hook.Fn(ctx)
		cancel()
		if err != nil {
			opts.Logger.Warn("shutdown hook failed", "hook", hook.name(), "error", err)
			errs = append(errs, fmt.Errorf("shutdown hook %q: %w", hook.name(), err))
			continue
		}
		opts.Logger.Debug("shutdown hook done", "hook", hook.name())
	}
	return errors.Join(errs...)
}
