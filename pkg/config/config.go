// Package config loads the service configuration from defaults, an optional YAML file, an
// optional secrets file, HRPORTAL_* environment variables and command-line flags.
package config

import "time"

// Data source type constants
const (
	// DataSourceFixtures serves the bundled or file-based YAML fixtures.
	DataSourceFixtures = "fixtures"
	// DataSourcePostgres reads every collection from its PostgreSQL table.
	DataSourcePostgres = "postgres"
	// DataSourceSQLite reads every collection from a SQLite file named by database.url.
	DataSourceSQLite = "sqlite"
)

// DefaultEnvPrefix prefixes every environment variable read by the loader.
const DefaultEnvPrefix = "HRPORTAL"

// Config is the root configuration structure of the service.
type Config struct {
	RouterType    string              `mapstructure:"router_type"`
	Service       ServiceConfig       `mapstructure:"service"`
	HTTP          HTTPConfig          `mapstructure:"http"`
	Management    ManagementConfig    `mapstructure:"management"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	DataSource    DataSourceConfig    `mapstructure:"datasource"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Listing       ListingConfig       `mapstructure:"listing"`
}

// ServiceConfig configures service identity metadata.
type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// HTTPConfig configures the public API server
type HTTPConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ManagementConfig configures the management server
type ManagementConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ObservabilityConfig configures logging, request logging and tracing.
type ObservabilityConfig struct {
	LogLevel        string `mapstructure:"log_level"`
	LogFormat       string `mapstructure:"log_format"` // json, text
	LogRequestStart bool   `mapstructure:"log_request_start"`
	// SlowRequestThreshold logs completed requests at warn level when they took longer.
	// Zero disables it.
	SlowRequestThreshold time.Duration `mapstructure:"slow_request_threshold"`
	TracingEnabled       bool          `mapstructure:"tracing_enabled"`
	TracingSampleRate    float64       `mapstructure:"tracing_sample_rate"`
	TracingEndpoint      string        `mapstructure:"tracing_endpoint"`
}

// DataSourceConfig selects where the HR collections come from.
type DataSourceConfig struct {
	Type string `mapstructure:"type"` // fixtures, postgres, sqlite
	// FixturesPath points to a YAML fixtures file; empty means the bundled fixtures.
	FixturesPath string `mapstructure:"fixtures_path"`
}

// DatabaseConfig configures the SQL connection of the postgres and sqlite data sources. For
// sqlite, URL is a file path or "file:" URI and the pool settings are ignored.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	QueryTimeout    time.Duration `mapstructure:"query_timeout"`
}

// CacheConfig configures the Redis snapshot cache in front of the data source.
type CacheConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	URL              string        `mapstructure:"url"`
	TTL              time.Duration `mapstructure:"ttl"`
	MaxConns         int           `mapstructure:"max_conns"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout"`
}

// ListingConfig configures list endpoints.
type ListingConfig struct {
	DefaultPageSize int    `mapstructure:"default_page_size"`
	MaxPageSize     int    `mapstructure:"max_page_size"`
	Locale          string `mapstructure:"locale"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		RouterType: "gin",
		Service: ServiceConfig{
			Name:        "hrportal",
			Environment: "development",
		},
		HTTP: HTTPConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Management: ManagementConfig{
			Enabled:      true,
			Port:         9090,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Observability: ObservabilityConfig{
			LogLevel:             "info",
			LogFormat:            "json",
			SlowRequestThreshold: time.Second,
			TracingSampleRate:    0.1,
			TracingEndpoint:      "localhost:4317",
		},
		DataSource: DataSourceConfig{
			Type: DataSourceFixtures,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
			QueryTimeout:    10 * time.Second,
		},
		Cache: CacheConfig{
			TTL:              time.Minute,
			MaxConns:         10,
			OperationTimeout: 2 * time.Second,
		},
		Listing: ListingConfig{
			DefaultPageSize: 10,
			MaxPageSize:     100,
			Locale:          "en",
		},
	}
}
