package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader defines the interface for loading configuration
type Loader interface {
	Load() (*Config, error)
}

// flagBindings maps command-line flag names onto configuration keys.
var flagBindings = map[string]string{
	"router-type":   "router_type",
	"http-port":     "http.port",
	"mgmt-port":     "management.port",
	"log-level":     "observability.log_level",
	"log-format":    "observability.log_format",
	"datasource":    "datasource.type",
	"fixtures-path": "datasource.fixtures_path",
}

// ViperLoader implements Loader using Viper for configuration management.
type ViperLoader struct {
	configFile string
	envPrefix  string
	flags      *pflag.FlagSet
	v          *viper.Viper
}

// NewViperLoader creates a new ViperLoader. configFile may be empty; envPrefix defaults to
// HRPORTAL.
func NewViperLoader(configFile, envPrefix string) *ViperLoader {
	if strings.TrimSpace(envPrefix) == "" {
		envPrefix = DefaultEnvPrefix
	}
	return &ViperLoader{
		configFile: configFile,
		envPrefix:  envPrefix,
		v:          viper.New(),
	}
}

// WithFlags binds the known flags of flags (see flagBindings). Flags override every other source.
func (l *ViperLoader) WithFlags(flags *pflag.FlagSet) *ViperLoader {
	l.flags = flags
	return l
}

// Load loads configuration with precedence: flags > ENV > secrets file > config file > defaults
func (l *ViperLoader) Load() (*Config, error) {
	v := viper.New()
	l.v = v
	l.setDefaults(v, DefaultConfig())

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", l.configFile, err)
		}
	}

	secretsFile, err := l.discoverSecretsFile()
	if err != nil {
		return nil, err
	}
	if secretsFile != "" {
		secrets := viper.New()
		secrets.SetConfigFile(secretsFile)
		if err := secrets.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read secrets file %s: %w", secretsFile, err)
		}
		if err := v.MergeConfigMap(secrets.AllSettings()); err != nil {
			return nil, fmt.Errorf("failed to merge secrets: %w", err)
		}
	}

	l.bindEnvVars(v)
	if err := l.bindFlags(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// AllSettings returns the merged settings of the last Load.
func (l *ViperLoader) AllSettings() map[string]any {
	return l.v.AllSettings()
}

func (l *ViperLoader) bindEnvVars(v *viper.Viper) {
	keys := []string{
		"router_type",
		"service.name", "service.environment",
		"http.port", "http.read_timeout", "http.write_timeout", "http.idle_timeout", "http.shutdown_timeout",
		"management.enabled", "management.port", "management.read_timeout", "management.write_timeout",
		"observability.log_level", "observability.log_format", "observability.log_request_start",
		"observability.slow_request_threshold",
		"observability.tracing_enabled", "observability.tracing_sample_rate", "observability.tracing_endpoint",
		"datasource.type", "datasource.fixtures_path",
		"database.url", "database.max_open_conns", "database.max_idle_conns",
		"database.conn_max_lifetime", "database.conn_max_idle_time", "database.query_timeout",
		"cache.enabled", "cache.url", "cache.ttl", "cache.max_conns", "cache.operation_timeout",
		"listing.default_page_size", "listing.max_page_size", "listing.locale",
	}
	for _, key := range keys {
		_ = v.BindEnv(key, l.envName(key))
	}
	// Short aliases kept for container environments.
	_ = v.BindEnv("management.port", l.envName("management.port"), l.prefixedEnv("MGMT_PORT"))
	_ = v.BindEnv("database.url", l.envName("database.url"), "DATABASE_URL")
}

func (l *ViperLoader) bindFlags(v *viper.Viper) error {
	if l.flags == nil {
		return nil
	}
	for name, key := range flagBindings {
		flag := l.flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// envName turns "http.read_timeout" into "HRPORTAL_HTTP_READ_TIMEOUT".
func (l *ViperLoader) envName(key string) string {
	return l.prefixedEnv(strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
}

func (l *ViperLoader) prefixedEnv(suffix string) string {
	return fmt.Sprintf("%s_%s", strings.ToUpper(strings.TrimSpace(l.envPrefix)), suffix)
}

// discoverSecretsFile finds the secrets file using these rules:
// 1. <ENV_PREFIX>_SECRETS_FILE, which must name a readable file
// 2. secrets.<ext> next to the config file
// Returns "" when there is none.
func (l *ViperLoader) discoverSecretsFile() (string, error) {
	secretsEnv := l.prefixedEnv("SECRETS_FILE")
	if raw, ok := os.LookupEnv(secretsEnv); ok {
		secretsFile := strings.TrimSpace(raw)
		if secretsFile == "" {
			return "", fmt.Errorf("%s is set but empty", secretsEnv)
		}
		info, err := os.Stat(secretsFile)
		if err != nil {
			return "", fmt.Errorf("%s points to an inaccessible file %s: %w", secretsEnv, secretsFile, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("%s must point to a file, got directory %s", secretsEnv, secretsFile)
		}
		return secretsFile, nil
	}

	if l.configFile != "" {
		secretsFile := filepath.Join(filepath.Dir(l.configFile), "secrets"+filepath.Ext(l.configFile))
		if info, err := os.Stat(secretsFile); err == nil && !info.IsDir() {
			return secretsFile, nil
		}
	}
	return "", nil
}

// setDefaults sets default values in Viper from the default config
func (l *ViperLoader) setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("router_type", cfg.RouterType)
	v.SetDefault("service.name", cfg.Service.Name)
	v.SetDefault("service.environment", cfg.Service.Environment)

	v.SetDefault("http.port", cfg.HTTP.Port)
	v.SetDefault("http.read_timeout", cfg.HTTP.ReadTimeout)
	v.SetDefault("http.write_timeout", cfg.HTTP.WriteTimeout)
	v.SetDefault("http.idle_timeout", cfg.HTTP.IdleTimeout)
	v.SetDefault("http.shutdown_timeout", cfg.HTTP.ShutdownTimeout)

	v.SetDefault("management.enabled", cfg.Management.Enabled)
	v.SetDefault("management.port", cfg.Management.Port)
	v.SetDefault("management.read_timeout", cfg.Management.ReadTimeout)
	v.SetDefault("management.write_timeout", cfg.Management.WriteTimeout)

	v.SetDefault("observability.log_level", cfg.Observability.LogLevel)
	v.SetDefault("observability.log_format", cfg.Observability.LogFormat)
	v.SetDefault("observability.log_request_start", cfg.Observability.LogRequestStart)
	v.SetDefault("observability.slow_request_threshold", cfg.Observability.SlowRequestThreshold)
	v.SetDefault("observability.tracing_enabled", cfg.Observability.TracingEnabled)
	v.SetDefault("observability.tracing_sample_rate", cfg.Observability.TracingSampleRate)
	v.SetDefault("observability.tracing_endpoint", cfg.Observability.TracingEndpoint)

	v.SetDefault("datasource.type", cfg.DataSource.Type)
	v.SetDefault("datasource.fixtures_path", cfg.DataSource.FixturesPath)

	v.SetDefault("database.url", cfg.Database.URL)
	v.SetDefault("database.max_open_conns", cfg.Database.MaxOpenConns)
	v.SetDefault("database.max_idle_conns", cfg.Database.MaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", cfg.Database.ConnMaxLifetime)
	v.SetDefault("database.conn_max_idle_time", cfg.Database.ConnMaxIdleTime)
	v.SetDefault("database.query_timeout", cfg.Database.QueryTimeout)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.url", cfg.Cache.URL)
	v.SetDefault("cache.ttl", cfg.Cache.TTL)
	v.SetDefault("cache.max_conns", cfg.Cache.MaxConns)
	v.SetDefault("cache.operation_timeout", cfg.Cache.OperationTimeout)

	v.SetDefault("listing.default_page_size", cfg.Listing.DefaultPageSize)
	v.SetDefault("listing.max_page_size", cfg.Listing.MaxPageSize)
	v.SetDefault("listing.locale", cfg.Listing.Locale)
}
