package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"pricelist/internal/app"
)

const shutdownTimeout = 10 * time.Second

// ServeAction runs the HTTP API until the context is cancelled.
func ServeAction(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := loadStorageConfig(cmd)
	if err != nil {
		return err
	}

	rt, err := app.Bootstrap(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	listenErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.AppPort).Str("env", cfg.Env).Msg("starting server")
		listenErr <- rt.App.Listen(cfg.AppPort)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	if err := rt.App.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
		return err
	}
	logger.Info().Msg("server gracefully stopped")
	return nil
}
