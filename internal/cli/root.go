package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"todolist/internal/config"
)

// Version is reported by the version command and GET /.
var Version = "1.0.0"

const appName = "todolist"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigDir string
	EnvDir    string
	DBPath    string
	Port      int
}

// NewRootCommand creates the root command. Running it without a subcommand
// starts the HTTP server.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "todo",
		Short:         "To-do list API server",
		Long:          "HTTP CRUD backend for tasks and categories stored in SQLite.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", "config", "directory with <env>.yaml files")
	cmd.PersistentFlags().StringVar(&opts.EnvDir, "env-dir", ".", "directory with .env.<env>.local files")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "path to sqlite database file (overrides config)")
	cmd.PersistentFlags().IntVar(&opts.Port, "port", 0, "HTTP listen port (overrides PORT)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewRollbackCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// load resolves the configuration with flag overrides and builds the logger.
func (o *RootOptions) load(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.ConfigDir, o.EnvDir)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("config: %w", err)
	}
	if cmd.Flags().Changed("db") {
		cfg.Database.Path = o.DBPath
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = o.Port
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, fmt.Errorf("config: %w", err)
	}

	logger, err := cfg.Log.NewLogger(cmd.OutOrStdout())
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}
