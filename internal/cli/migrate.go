package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"todolist/internal/storage/sqlite"
)

// NewMigrateCommand applies pending schema migrations and exits.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}

			// Open migrates as part of connecting.
			store, err := sqlite.Open(cfg.Database.Path, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			version, err := store.SchemaVersion(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("database up to date", slog.String("path", cfg.Database.Path), slog.Int("schema_version", version))
			return nil
		},
	}
}

// NewSeedCommand replaces the tasks and categories with demo data.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo categories and tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}

			store, err := sqlite.Open(cfg.Database.Path, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			return store.Seed(cmd.Context())
		},
	}
}

// NewRollbackCommand reverts the most recent migrations.
func NewRollbackCommand(opts *RootOptions) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "rollback",
		Short: "Revert the most recent database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}

			store, err := sqlite.Connect(cfg.Database.Path, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			version, err := store.Rollback(cmd.Context(), steps)
			if err != nil {
				return err
			}
			logger.Info("rollback complete", slog.String("path", cfg.Database.Path), slog.Int("schema_version", version))
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to revert")
	return cmd
}
