package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nimburion/hrportal/pkg/config"
	"github.com/nimburion/hrportal/pkg/hr"
	"github.com/nimburion/hrportal/pkg/migrate"
	"github.com/nimburion/hrportal/pkg/observability/logger"
	"github.com/nimburion/hrportal/pkg/repository"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "migrate [up|down|status] [steps]",
		Short: "Apply, revert or inspect the HR table migrations",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			command, err := migrate.ParseArgs(args)
			if err != nil {
				return err
			}
			cfg, log, err := loadConfigAndLogger(opts.configFile, opts.envPrefix, cmd.Flags(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return errors.New("database.url is required for migrations")
			}
			db, err := openDatabase(sqlDriver(cfg), cfg.Database, log)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			manager, err := migrate.NewSQLManager(db.DB(), hr.Migrations, hr.MigrationsDir)
			if err != nil {
				return err
			}
			status, err := migrate.Run(contextOrBackground(cmd), command, manager, log, 0)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, status)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format (json, yaml)")
	return cmd
}

func newSeedCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the fixtures into the HR tables, skipping rows that already exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfigAndLogger(opts.configFile, opts.envPrefix, cmd.Flags(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return errors.New("database.url is required for seeding")
			}
			ds, err := hr.LoadFixtures(cfg.DataSource.FixturesPath)
			if err != nil {
				return err
			}
			db, err := openDatabase(sqlDriver(cfg), cfg.Database, log)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			inserted, err := hr.Seed(contextOrBackground(cmd), db.DB(), ds)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			log.Info("fixtures seeded", "inserted", inserted)
			if cfg.Cache.Enabled && inserted > 0 {
				purgeSnapshots(contextOrBackground(cmd), cfg, log)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d rows\n", inserted)
			return nil
		},
	}
}

// purgeSnapshots drops cached collections so the next query reads the seeded tables. Cache
// failures are logged only; the snapshots then expire after cache.ttl.
func purgeSnapshots(ctx context.Context, cfg *config.Config, log logger.Logger) {
	cache, err := openCache(cfg.Cache, log)
	if err != nil {
		log.Warn("snapshot cache unavailable, stale snapshots expire on their own", "error", err)
		return
	}
	defer cache.Close()
	removed, err := cache.Purge(ctx, repository.SnapshotKeyPrefix)
	if err != nil {
		log.Warn("purge snapshots failed", "error", err)
		return
	}
	log.Info("snapshots purged", "removed", removed)
}

// sqlDriver picks the database for migrate and seed. The fixtures data source has no
// database of its own, so those commands target postgres.
func sqlDriver(cfg *config.Config) string {
	if cfg.DataSource.Type == config.DataSourceSQLite {
		return config.DataSourceSQLite
	}
	return config.DataSourcePostgres
}

func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
