package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"pricelist/internal/cache"
	"pricelist/internal/config"
	"pricelist/internal/database"
	"pricelist/internal/repositories"
	"pricelist/internal/services"
	"pricelist/pkg/rabbitmq"
)

// Runtime owns every long-lived resource of the server process.
type Runtime struct {
	App      *fiber.App
	Products *services.ProductService

	logger  zerolog.Logger
	closers []func() error
}

// OpenRepository returns the repository selected by cfg together with a function that
// releases it. SQL schemas are migrated first when migrate is true.
func OpenRepository(ctx context.Context, cfg config.DatabaseConfig, migrate bool, logger zerolog.Logger) (repositories.ProductRepository, func() error, error) {
	if cfg.Driver == config.DriverMemory {
		logger.Warn().Msg("using in-memory product storage, data is lost on exit")
		return repositories.NewMemoryProductRepository(), func() error { return nil }, nil
	}

	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if migrate {
		if err := database.Migrate(ctx, db, cfg.Driver); err != nil {
			database.Close(db)
			return nil, nil, err
		}
	}
	return repositories.NewGORMProductRepository(db), func() error { return database.Close(db) }, nil
}

// Bootstrap opens storage, the optional cache and event publisher, seeds the catalog if
// configured and assembles the HTTP application.
func Bootstrap(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Runtime, error) {
	rt := &Runtime{logger: logger}

	repo, closeRepo, err := OpenRepository(ctx, cfg.Database, cfg.Database.AutoMigrate, logger)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, closeRepo)

	opts := []services.Option{services.WithLogger(logger)}

	if cfg.Redis.URL != "" {
		client, err := cache.NewClient(ctx, cache.Config{URL: cfg.Redis.URL})
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, client.Close)
		opts = append(opts, services.WithCache(cache.NewRedisProductCache(client, cfg.Redis.TTL)))
		logger.Info().Dur("ttl", cfg.Redis.TTL).Msg("product list cache enabled")
	}

	if cfg.RabbitMQ.URL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue}, logger)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, mq.Close)
		opts = append(opts, services.WithEvents(mq))
	}

	rt.Products = services.NewProductService(repo, opts...)

	if cfg.Database.Seed {
		if _, err := database.Seed(ctx, rt.Products, logger); err != nil {
			rt.Close()
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
	}

	rt.App = New(rt.Products, Options{
		Logger:           logger,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
	})
	return rt, nil
}

// Close releases resources in reverse order of acquisition.
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	if err := errors.Join(errs...); err != nil {
		r.logger.Error().Err(err).Msg("failed to release resources")
		return err
	}
	return nil
}
