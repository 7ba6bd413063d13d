package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"pricelist/internal/app"
	"pricelist/internal/config"
	"pricelist/internal/database"
	"pricelist/internal/services"
)

// MigrateAction applies the schema and exits.
func MigrateAction(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := loadStorageConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Database.Driver == config.DriverMemory {
		return fmt.Errorf("nothing to migrate for the %s driver", config.DriverMemory)
	}

	db, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(ctx, db, cfg.Database.Driver); err != nil {
		return err
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("schema is up to date")
	return nil
}

// SeedAction inserts the demonstration catalog when the catalog is empty.
func SeedAction(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := loadStorageConfig(cmd)
	if err != nil {
		return err
	}

	repo, closeRepo, err := app.OpenRepository(ctx, cfg.Database, true, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	n, err := database.Seed(ctx, services.NewProductService(repo, services.WithLogger(logger)), logger)
	if err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	fmt.Fprintf(cmd.Root().Writer, "seeded %d products\n", n)
	return nil
}
