package commands

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v3"
)

func TestStorageCommands_RequireDatabaseSettings(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LOG_LEVEL", "error")

	for name, action := range map[string]cli.ActionFunc{
		"migrate": MigrateAction,
		"seed":    SeedAction,
		"serve":   ServeAction,
	} {
		t.Run(name, func(t *testing.T) {
			root := &cli.Command{
				Name:     "pricelist",
				Commands: []*cli.Command{{Name: name, Flags: []cli.Flag{EnvFlag()}, Action: action}},
			}
			env := filepath.Join(t.TempDir(), "missing.env")
			err := root.Run(context.Background(), []string{"pricelist", name, "--env", env})
			assert.ErrorContains(t, err, "DATABASE_URL is required")
		})
	}
}
