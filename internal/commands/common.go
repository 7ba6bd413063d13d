package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"pricelist/internal/config"
	"pricelist/internal/logger"
)

// EnvFlag is shared by every command.
func EnvFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "env",
		Usage: "path to an optional dotenv file",
		Value: ".env",
	}
}

// loadConfig reads the configuration named by --env and builds the process logger.
func loadConfig(cmd *cli.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cmd.String("env"))
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, logger.New(cfg.IsProduction(), cfg.LogLevel), nil
}

// loadStorageConfig is loadConfig for commands that open the catalog store.
func loadStorageConfig(cmd *cli.Command) (*config.Config, zerolog.Logger, error) {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return nil, log, err
	}
	if err := cfg.Database.Validate(); err != nil {
		return nil, log, fmt.Errorf("invalid database configuration: %w", err)
	}
	return cfg, log, nil
}
