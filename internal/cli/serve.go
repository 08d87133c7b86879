package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"todolist/internal/server"
	"todolist/internal/service"
	"todolist/internal/stats"
	"todolist/internal/storage/sqlite"
)

const shutdownTimeout = 5 * time.Second

func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

// runServe wires store, services and HTTP server and blocks until the
// command context is cancelled.
func runServe(cmd *cobra.Command, opts *RootOptions) error {
	cfg, logger, err := opts.load(cmd)
	if err != nil {
		return err
	}
	logger.Info("to-do list API", slog.String("version", Version), slog.String("env", cfg.Env))

	store, err := sqlite.Open(cfg.Database.Path, logger)
	if err != nil {
		logger.Error("unable to open database", slog.String("error", err.Error()))
		return err
	}
	defer store.Close()

	counter := &stats.Counter{}
	reporter, err := stats.NewReporter(counter, cfg.Stats.Interval, logger)
	if err != nil {
		return err
	}
	reporter.Start()
	defer reporter.Stop()

	srv := server.New(server.Options{
		Tasks:      service.NewTaskService(store),
		Categories: service.NewCategoryService(store),
		Health:     store,
		Counter:    counter,
		Logger:     logger,
		Name:       appName,
		Version:    Version,
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		logger.Info("api docs available", slog.String("path", "/api-docs"))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown server", slog.String("error", err.Error()))
			return err
		}
		return nil
	})

	err = g.Wait()
	logger.Info("server stopped")
	return err
}
