package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp_Commands(t *testing.T) {
	app := newApp()

	names := make([]string, 0, len(app.Commands))
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"serve", "migrate", "seed", "events", "products"}, names)

	products := app.Command("products")
	require.NotNil(t, products)
	assert.NotNil(t, products.Command("list"))
	assert.NotNil(t, products.Command("set"))

	for _, c := range app.Commands {
		if c.Action == nil {
			continue
		}
		found := false
		for _, f := range c.Flags {
			for _, n := range f.Names() {
				if n == "env" {
					found = true
				}
			}
		}
		assert.True(t, found, "%s must accept --env", c.Name)
	}
}
