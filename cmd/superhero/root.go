package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/superhero-catalog/internal/config"
	"github.com/deppfellow/superhero-catalog/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "superhero",
		Short:         "Superhero catalog",
		Long:          "A catalog of superheroes: REST API, web UI and schema migrations.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newWebCommand())
	cmd.AddCommand(newMigrateCommand())

	return cmd
}

// deps is what every subcommand needs before doing real work.
type deps struct {
	cfg           *config.Config
	logger        zerolog.Logger
	loggerService *logger.LoggerService
}

func loadDeps() (*deps, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize New Relic: %w", err)
	}

	return &deps{
		cfg:           cfg,
		logger:        logger.NewLoggerWithService(cfg.Observability, loggerService),
		loggerService: loggerService,
	}, nil
}

// serveUntilSignal runs start until it fails or SIGINT/SIGTERM arrives, then
// calls shutdown with a bounded deadline.
func serveUntilSignal(log *zerolog.Logger, start func() error, shutdown func(context.Context) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if err := <-errCh; err != nil {
		return err
	}

	log.Info().Msg("server exited properly")
	return nil
}

// abort releases what was already opened when startup fails halfway and
// returns cause.
func abort(log *zerolog.Logger, shutdown func(context.Context) error, cause error) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to release resources after startup error")
	}
	return cause
}

func serverTimeout(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
