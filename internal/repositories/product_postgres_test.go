package repositories_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pricelist/internal/config"
	"pricelist/internal/database"
	"pricelist/internal/repositories"
)

// TestProductRepository_Postgres runs the repository tests against a throwaway
// PostgreSQL container with the goose migrations applied.
func TestProductRepository_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker is not available: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker is not reachable: %v", err)
	}
	pool.MaxWait = 90 * time.Second

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=pricelist",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=pricelist",
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })
	require.NoError(t, resource.Expire(300))

	base := fmt.Sprintf("postgres://pricelist:secret@%s", resource.GetHostPort("5432/tcp"))
	ctx := context.Background()

	var admin *gorm.DB
	require.NoError(t, pool.Retry(func() error {
		admin, err = database.Open(ctx, postgresConfig(base+"/pricelist?sslmode=disable"), zerolog.Nop())
		return err
	}))
	t.Cleanup(func() { database.Close(admin) })

	n := 0
	runProductRepositoryTests(t, func(t *testing.T) repositories.ProductRepository {
		n++
		name := fmt.Sprintf("pricelist_%d", n)
		require.NoError(t, admin.Exec("CREATE DATABASE "+name).Error)

		db, err := database.Open(ctx, postgresConfig(base+"/"+name+"?sslmode=disable"), zerolog.Nop())
		require.NoError(t, err)
		t.Cleanup(func() { database.Close(db) })
		require.NoError(t, database.Migrate(ctx, db, config.DriverPostgres))
		return repositories.NewGORMProductRepository(db)
	})
}

func postgresConfig(url string) config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:          config.DriverPostgres,
		URL:             url,
		MaxOpenConns:    5,
		ConnMaxIdleTime: time.Minute,
		ConnectAttempts: 1,
	}
}
