package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nimburion/hrportal/pkg/config"
	"github.com/nimburion/hrportal/pkg/health"
	"github.com/nimburion/hrportal/pkg/hr"
	"github.com/nimburion/hrportal/pkg/observability/logger"
	"github.com/nimburion/hrportal/pkg/observability/metrics"
	"github.com/nimburion/hrportal/pkg/server"
	"github.com/nimburion/hrportal/pkg/store/postgres"
	redisstore "github.com/nimburion/hrportal/pkg/store/redis"
	"github.com/nimburion/hrportal/pkg/store/sqlite"
)

// database is what the catalog, migrations and seeding need from a SQL adapter.
type database interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	HealthCheck(ctx context.Context) error
	DB() *sql.DB
	Close() error
}

// applicationName identifies portal sessions in pg_stat_activity.
const applicationName = "hrportal"

// Connection constructors, replaced in tests.
var (
	openDatabase = func(driver string, cfg config.DatabaseConfig, log logger.Logger) (database, error) {
		// Typed nil adapters must not escape as non-nil interfaces.
		switch driver {
		case config.DataSourceSQLite:
			db, err := sqlite.NewSQLiteAdapter(sqlite.Config{DSN: cfg.URL}, log)
			if err != nil {
				return nil, err
			}
			return db, nil
		case config.DataSourcePostgres:
			db, err := postgres.NewPostgreSQLAdapter(postgres.Config{
				URL:             cfg.URL,
				MaxOpenConns:    cfg.MaxOpenConns,
				MaxIdleConns:    cfg.MaxIdleConns,
				ConnMaxLifetime: cfg.ConnMaxLifetime,
				ConnMaxIdleTime: cfg.ConnMaxIdleTime,
				QueryTimeout:    cfg.QueryTimeout,
				ApplicationName: applicationName,
			}, log)
			if err != nil {
				return nil, err
			}
			return db, nil
		default:
			return nil, fmt.Errorf("datasource %q has no database", driver)
		}
	}
	openCache = func(cfg config.CacheConfig, log logger.Logger) (*redisstore.RedisAdapter, error) {
		return redisstore.NewRedisAdapter(redisstore.Config{
			URL:              cfg.URL,
			MaxConns:         cfg.MaxConns,
			OperationTimeout: cfg.OperationTimeout,
		}, log)
	}
)

// Runtime holds the catalog and the connections it was built on.
type Runtime struct {
	Config      *config.Config
	Logger      logger.Logger
	Catalog     *hr.Catalog
	Health      *health.Registry
	Metrics     *metrics.Registry
	HTTPMetrics *metrics.HTTPMetrics

	db    database
	cache *redisstore.RedisAdapter
}

// NewRuntime opens the configured data source and snapshot cache and builds the catalog.
// Connections opened before a failure are closed again.
func NewRuntime(cfg *config.Config, log logger.Logger) (rt *Runtime, err error) {
	locale, err := cfg.LocaleTag()
	if err != nil {
		return nil, err
	}

	rt = &Runtime{
		Config:  cfg,
		Logger:  log,
		Health:  health.NewRegistry(),
		Metrics: metrics.NewRegistry(),
	}
	defer func() {
		if err != nil {
			_ = rt.Close()
		}
	}()
	rt.HTTPMetrics = metrics.NewHTTPMetrics(rt.Metrics)

	opts := hr.Options{
		Metrics: metrics.NewListQueryMetrics(rt.Metrics),
		Logger:  log,
		Locale:  locale,
	}

	switch cfg.DataSource.Type {
	case config.DataSourcePostgres, config.DataSourceSQLite:
		rt.db, err = openDatabase(cfg.DataSource.Type, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		rt.Health.Register(health.NewDatabaseChecker(cfg.DataSource.Type, rt.db))
		if err = rt.Metrics.Register(collectors.NewDBStatsCollector(rt.db.DB(), cfg.DataSource.Type)); err != nil {
			return nil, fmt.Errorf("register pool metrics: %w", err)
		}
		opts.DB = rt.db
	default:
		ds, loadErr := hr.LoadFixtures(cfg.DataSource.FixturesPath)
		if loadErr != nil {
			return nil, loadErr
		}
		opts.Dataset = ds
	}

	if cfg.Cache.Enabled {
		rt.cache, err = openCache(cfg.Cache, log)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		rt.Health.Register(health.NewCacheChecker("redis", rt.cache))
		opts.Snapshots = rt.cache
		opts.SnapshotTTL = cfg.Cache.TTL
	}

	rt.Catalog, err = hr.NewCatalog(opts)
	if err != nil {
		return nil, err
	}
	resources := len(rt.Catalog.Names())
	rt.Health.Register(health.NewFuncChecker("catalog", func(context.Context) (health.Status, string, error) {
		if resources == 0 {
			return health.StatusDegraded, "no resources registered", nil
		}
		return health.StatusHealthy, fmt.Sprintf("%d resources registered", resources), nil
	}))
	log.Info("catalog ready",
		"datasource", cfg.DataSource.Type,
		"cache_enabled", cfg.Cache.Enabled,
		"resources", resources,
	)
	return rt, nil
}

// ShutdownHooks closes the connections when the servers stop.
func (rt *Runtime) ShutdownHooks() []server.LifecycleHook {
	return []server.LifecycleHook{{
		Name: "close-connections",
		Fn:   func(context.Context) error { return rt.Close() },
	}}
}

// Close closes the database and cache connections.
func (rt *Runtime) Close() error {
	var errs []error
	if rt.cache != nil {
		errs = append(errs, rt.cache.Close())
		rt.cache = nil
	}
	if rt.db != nil {
		errs = append(errs, rt.db.Close())
		rt.db = nil
	}
	return errors.Join(errs...)
}
