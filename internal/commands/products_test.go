package commands

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"pricelist/internal/app"
	"pricelist/internal/client"
	"pricelist/internal/config"
	"pricelist/internal/database"
	"pricelist/internal/models"
	"pricelist/internal/repositories"
	"pricelist/internal/services"
	"pricelist/internal/view"
)

// useTestServer points the product commands at a seeded in-memory API.
func useTestServer(t *testing.T) *services.ProductService {
	t.Helper()
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("APP_ENV", "test")
	t.Setenv("LOG_LEVEL", "error")

	service := services.NewProductService(repositories.NewMemoryProductRepository())
	_, err := database.Seed(context.Background(), service, zerolog.Nop())
	require.NoError(t, err)

	a := app.New(service, app.Options{Logger: zerolog.Nop()})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = a.Listener(ln) }()
	t.Cleanup(func() { _ = a.Shutdown() })

	baseURL := fmt.Sprintf("http://%s/api", ln.Addr().String())
	previous := newCatalogAPI
	newCatalogAPI = func(config.ClientConfig) view.API {
		return client.New(baseURL, 5*time.Second)
	}
	t.Cleanup(func() { newCatalogAPI = previous })
	return service
}

func runProducts(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := &cli.Command{
		Name:   "pricelist",
		Writer: &out,
		Commands: []*cli.Command{
			{
				Name: "list",
				Flags: []cli.Flag{
					EnvFlag(),
					&cli.StringFlag{Name: "article"},
					&cli.StringFlag{Name: "name"},
					&cli.StringFlag{Name: "sort"},
					&cli.BoolFlag{Name: "desc"},
				},
				Action: ProductsListAction,
			},
			{
				Name:   "set",
				Flags:  []cli.Flag{EnvFlag()},
				Action: ProductsSetAction,
			},
		},
	}
	env := filepath.Join(t.TempDir(), "missing.env")
	full := append([]string{"pricelist", args[0], "--env", env}, args[1:]...)
	err := root.Run(context.Background(), full)
	return out.String(), err
}

func TestProductsList(t *testing.T) {
	useTestServer(t)

	out, err := runProducts(t, "list", "--article", "sony")
	require.NoError(t, err)
	assert.Contains(t, out, "SONY-DSLR-001")
	assert.NotContains(t, out, "LAPTOP-001")

	out, err = runProducts(t, "list", "--article", "no-such-article")
	require.NoError(t, err)
	assert.Contains(t, out, "no products")

	_, err = runProducts(t, "list", "--sort", "colour")
	assert.ErrorIs(t, err, view.ErrUnknownField)
}

func TestProductsList_NeedsNoDatabaseSettings(t *testing.T) {
	useTestServer(t)

	out, err := runProducts(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "SONY-DSLR-001")
}

func TestProductsSet(t *testing.T) {
	service := useTestServer(t)
	ctx := context.Background()

	found, err := service.SearchProducts(ctx, models.ProductFilter{ArticleNo: "SONY-DSLR-001"}, models.Page{})
	require.NoError(t, err)
	require.Len(t, found, 1)
	id := found[0].ID

	out, err := runProducts(t, "set", fmt.Sprint(id), "inStock", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "42")

	got, err := service.GetProductByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 42, got.InStock)

	_, err = runProducts(t, "set", fmt.Sprint(id), "inStock", "-1")
	assert.Error(t, err)

	_, err = runProducts(t, "set", "abc", "inStock", "1")
	assert.ErrorContains(t, err, "invalid product id")

	_, err = runProducts(t, "set", fmt.Sprint(id), "inStock")
	assert.ErrorContains(t, err, "usage")
}
