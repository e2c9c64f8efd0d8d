package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

var (
	validRouterTypes = []string{"nethttp", "gin", "gorilla"}
	validLogLevels   = []string{"debug", "info", "warn", "warning", "error"}
	validLogFormats  = []string{"json", "text", "console"}
	validDataSources = []string{DataSourceFixtures, DataSourcePostgres, DataSourceSQLite}
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(validRouterTypes, strings.ToLower(c.RouterType)) {
		errs = append(errs, fmt.Errorf("invalid router_type: %s (must be one of: %v)", c.RouterType, validRouterTypes))
	}
	if strings.TrimSpace(c.Service.Name) == "" {
		errs = append(errs, errors.New("service.name is required"))
	}

	errs = append(errs, validatePort("http.port", c.HTTP.Port))
	if c.Management.Enabled {
		errs = append(errs, validatePort("management.port", c.Management.Port))
		if c.Management.Port == c.HTTP.Port {
			errs = append(errs, fmt.Errorf("management.port must differ from http.port (%d)", c.HTTP.Port))
		}
	}

	if !slices.Contains(validLogLevels, strings.ToLower(c.Observability.LogLevel)) {
		errs = append(errs, fmt.Errorf("invalid observability.log_level: %s (must be one of: %v)", c.Observability.LogLevel, validLogLevels))
	}
	if !slices.Contains(validLogFormats, strings.ToLower(c.Observability.LogFormat)) {
		errs = append(errs, fmt.Errorf("invalid observability.log_format: %s (must be one of: %v)", c.Observability.LogFormat, validLogFormats))
	}
	if c.Observability.SlowRequestThreshold < 0 {
		errs = append(errs, errors.New("observability.slow_request_threshold must not be negative"))
	}
	if c.Observability.TracingEnabled {
		if c.Observability.TracingEndpoint == "" {
			errs = append(errs, errors.New("observability.tracing_endpoint is required when tracing is enabled"))
		}
		if c.Observability.TracingSampleRate < 0 || c.Observability.TracingSampleRate > 1 {
			errs = append(errs, errors.New("observability.tracing_sample_rate must be between 0 and 1"))
		}
	}

	if !slices.Contains(validDataSources, c.DataSource.Type) {
		errs = append(errs, fmt.Errorf("invalid datasource.type: %s (must be one of: %v)", c.DataSource.Type, validDataSources))
	}
	if c.DataSource.Type != DataSourceFixtures && c.Database.URL == "" {
		errs = append(errs, fmt.Errorf("database.url is required when datasource.type is %s", c.DataSource.Type))
	}

	if c.Cache.Enabled {
		if c.Cache.URL == "" {
			errs = append(errs, errors.New("cache.url is required when cache is enabled"))
		}
		if c.Cache.TTL <= 0 {
			errs = append(errs, errors.New("cache.ttl must be positive when cache is enabled"))
		}
	}

	if c.Listing.DefaultPageSize <= 0 {
		errs = append(errs, errors.New("listing.default_page_size must be positive"))
	}
	if c.Listing.MaxPageSize < 0 {
		errs = append(errs, errors.New("listing.max_page_size cannot be negative"))
	}
	if c.Listing.MaxPageSize > 0 && c.Listing.DefaultPageSize > c.Listing.MaxPageSize {
		errs = append(errs, fmt.Errorf("listing.default_page_size (%d) exceeds listing.max_page_size (%d)", c.Listing.DefaultPageSize, c.Listing.MaxPageSize))
	}
	if _, err := c.LocaleTag(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// LocaleTag parses listing.locale. An empty locale means English.
func (c *Config) LocaleTag() (language.Tag, error) {
	if strings.TrimSpace(c.Listing.Locale) == "" {
		return language.English, nil
	}
	tag, err := language.Parse(c.Listing.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid listing.locale %q: %w", c.Listing.Locale, err)
	}
	return tag, nil
}

func validatePort(key string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535, got %d", key, port)
	}
	return nil
}
