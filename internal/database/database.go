package database

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/eapache/go-resiliency/retrier"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"pricelist/internal/config"
	"pricelist/internal/models"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Open connects to the configured SQL database, sizes the pool and waits until the
// server answers a ping.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.URL)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.URL)
	default:
		return nil, fmt.Errorf("database driver %q has no SQL backend", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	if cfg.Driver == config.DriverSQLite {
		// SQLite serialises writers; a single connection also keeps in-memory databases alive.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	attempts := cfg.ConnectAttempts
	if attempts < 1 {
		attempts = 1
	}
	retry := retrier.New(retrier.ExponentialBackoff(attempts-1, 250*time.Millisecond), nil)
	err = retry.RunCtx(ctx, func(ctx context.Context) error {
		if err := sqlDB.PingContext(ctx); err != nil {
			logger.Warn().Err(err).Str("driver", cfg.Driver).Msg("database not reachable yet")
			return err
		}
		return nil
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info().Str("driver", cfg.Driver).Msg("database connection established")
	return db, nil
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate brings the schema up to date. PostgreSQL uses the versioned goose migrations;
// SQLite, used for development and tests, is synchronised from the model.
func Migrate(ctx context.Context, db *gorm.DB, driver string) error {
	switch driver {
	case config.DriverPostgres:
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to access connection pool: %w", err)
		}
		goose.SetBaseFS(migrations)
		if err := goose.SetDialect("postgres"); err != nil {
			return fmt.Errorf("failed to set postgres dialect: %w", err)
		}
		if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		return nil
	case config.DriverSQLite:
		if err := db.WithContext(ctx).AutoMigrate(&models.Product{}); err != nil {
			return fmt.Errorf("failed to auto-migrate database: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("database driver %q has no schema to migrate", driver)
	}
}
