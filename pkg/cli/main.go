// Package cli builds the hrportal command line: serve, query, resources, migrate, seed,
// config and version.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/nimburion/hrportal/pkg/config"
	"github.com/nimburion/hrportal/pkg/observability/logger"
	"github.com/nimburion/hrportal/pkg/observability/tracing"
	"github.com/nimburion/hrportal/pkg/server"
	"github.com/nimburion/hrportal/pkg/server/router"
	"github.com/nimburion/hrportal/pkg/version"
)

const serviceName = "hrportal"

// secretSettings are masked by "config show" unless --show-secrets is given.
var secretSettings = []string{"database.url", "cache.url"}

type rootOptions struct {
	configFile string
	envPrefix  string
}

// NewRootCommand creates the hrportal command tree. Running it without a subcommand serves.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{envPrefix: config.DefaultEnvPrefix}

	rootCmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Read-only HR portal API: search, filter, sort and paginate HR records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config-file", "c", "", "config file path")
	flags.String("router-type", "", "router implementation (nethttp, gin, gorilla)")
	flags.Int("http-port", 0, "public API port")
	flags.Int("mgmt-port", 0, "management port")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (json, text)")
	flags.String("datasource", "", "data source (fixtures, postgres)")
	flags.String("fixtures-path", "", "YAML fixtures file, empty for the bundled fixtures")

	serveCmd := newServeCommand(opts)
	rootCmd.RunE = serveCmd.RunE
	rootCmd.AddCommand(
		serveCmd,
		newQueryCommand(opts),
		newResourcesCommand(opts),
		newMigrateCommand(opts),
		newSeedCommand(opts),
		newConfigCommand(opts),
		newVersionCommand(),
	)
	return rootCmd
}

// Execute runs the command and exits with status 1 on error.
func Execute(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// LoadConfigAndLogger loads the configuration (flags > env > secrets > file > defaults) and
// creates the zap logger it describes.
func LoadConfigAndLogger(configFile, envPrefix string, flags *pflag.FlagSet) (*config.Config, logger.Logger, error) {
	return loadConfigAndLogger(configFile, envPrefix, flags, os.Stdout)
}

func loadConfigAndLogger(configFile, envPrefix string, flags *pflag.FlagSet, out io.Writer) (*config.Config, logger.Logger, error) {
	cfg, err := config.NewViperLoader(configFile, envPrefix).WithFlags(flags).Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	level, err := logger.ParseLogLevel(cfg.Observability.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	format, err := logger.ParseLogFormat(cfg.Observability.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.NewZapLogger(logger.Config{Level: level, Format: format, Service: cfg.Service.Name, Output: out})
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	log.Debug("effective configuration", "config", fmt.Sprintf("%+v", *cfg))
	return cfg, log, nil
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the public API and management servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := LoadConfigAndLogger(opts.configFile, opts.envPrefix, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, log)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	info := version.Current(cfg.Service.Name)
	tp, err := tracing.NewTracerProvider(ctx, tracing.TracerConfig{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: info.Version,
		Environment:    cfg.Service.Environment,
		Endpoint:       cfg.Observability.TracingEndpoint,
		SampleRate:     cfg.Observability.TracingSampleRate,
		Enabled:        cfg.Observability.TracingEnabled,
	})
	if err != nil {
		return fmt.Errorf("initialize tracing: %w", err)
	}

	rt, err := NewRuntime(cfg, log)
	if err != nil {
		_ = tp.Shutdown(context.Background())
		return err
	}

	serverOpts := &server.Options{
		Config:          cfg,
		Logger:          log,
		HealthRegistry:  rt.Health,
		MetricsRegistry: rt.Metrics,
		HTTPMetrics:     rt.HTTPMetrics,
		RegisterRoutes: func(r router.Router) error {
			rt.Catalog.Register(r, listingOptions(cfg))
			return nil
		},
		ShutdownHooks: append(rt.ShutdownHooks(), server.LifecycleHook{
			Name: "tracing",
			Fn:   tp.Shutdown,
		}),
	}
	servers, err := server.BuildHTTPServers(serverOpts)
	if err != nil {
		_ = rt.Close()
		_ = tp.Shutdown(context.Background())
		return err
	}
	return server.RunHTTPServersWithSignals(servers, serverOpts)
}

func newVersionCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Current(serviceName)
			if output != "" {
				return writeOutput(cmd.OutOrStdout(), output, info)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Service:    %s\n", info.Service)
			fmt.Fprintf(out, "Version:    %s\n", info.Version)
			fmt.Fprintf(out, "Commit:     %s\n", info.Commit)
			fmt.Fprintf(out, "Build Time: %s\n", info.BuildTime)
			fmt.Fprintf(out, "Go:         %s\n", info.GoVersion)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format (json, yaml)")
	return cmd
}

func newConfigCommand(opts *rootOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.NewViperLoader(opts.configFile, opts.envPrefix).WithFlags(cmd.Flags()).Load(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "configuration is valid")
			return nil
		},
	})

	var showSecrets bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the merged configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := config.NewViperLoader(opts.configFile, opts.envPrefix).WithFlags(cmd.Flags())
			if _, err := loader.Load(); err != nil {
				return err
			}
			settings := loader.AllSettings()
			if !showSecrets {
				redactSettings(settings, secretSettings)
			}
			return writeOutput(cmd.OutOrStdout(), "yaml", settings)
		},
	}
	showCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show secret values")
	configCmd.AddCommand(showCmd)
	return configCmd
}

// redactSettings masks every non-empty value at the dotted paths.
func redactSettings(settings map[string]any, paths []string) {
	for _, path := range paths {
		keys := strings.Split(path, ".")
		node := settings
		for i, key := range keys {
			if i == len(keys)-1 {
				if v, ok := node[key]; ok && fmt.Sprint(v) != "" {
					node[key] = "***"
				}
				break
			}
			child, ok := node[key].(map[string]any)
			if !ok {
				break
			}
			node = child
		}
	}
}

func writeOutput(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "json", "":
		return writeJSON(w, v)
	default:
		return fmt.Errorf("unsupported output format %q (json, yaml)", format)
	}
}
