package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"pricelist/internal/client"
	"pricelist/internal/config"
	"pricelist/internal/models"
	"pricelist/internal/view"
)

// newCatalogAPI is replaced in tests.
var newCatalogAPI = func(cfg config.ClientConfig) view.API {
	return client.New(cfg.BaseURL, cfg.Timeout)
}

// ProductsListAction prints the catalog, optionally searched and sorted.
func ProductsListAction(ctx context.Context, cmd *cli.Command) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	model := view.NewModel(newCatalogAPI(cfg.Client))
	model.SetSearch(cmd.String("article"), cmd.String("name"))
	if err := model.Search(ctx); err != nil {
		return fmt.Errorf("failed to fetch products: %w", err)
	}

	if name := cmd.String("sort"); name != "" {
		field, err := view.ParseField(name)
		if err != nil {
			return err
		}
		if err := model.SortBy(field); err != nil {
			return err
		}
		if cmd.Bool("desc") {
			if err := model.SortBy(field); err != nil {
				return err
			}
		}
	}

	rows := model.Rows()
	if len(rows) == 0 {
		fmt.Fprintln(cmd.Root().Writer, "no products")
		return nil
	}
	return renderProducts(cmd.Root().Writer, rows)
}

// ProductsSetAction edits one cell: products set <id> <field> <value>.
func ProductsSetAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 3 {
		return fmt.Errorf("usage: %s <id> <field> <value>", cmd.FullName())
	}
	id, err := strconv.ParseUint(cmd.Args().Get(0), 10, 64)
	if err != nil || id == 0 {
		return fmt.Errorf("invalid product id %q", cmd.Args().Get(0))
	}
	field, err := view.ParseField(cmd.Args().Get(1))
	if err != nil {
		return err
	}

	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	model := view.NewModel(newCatalogAPI(cfg.Client))
	if err := model.Load(ctx); err != nil {
		return fmt.Errorf("failed to fetch products: %w", err)
	}

	cell := view.Cell{ProductID: uint(id), Field: field}
	if err := model.Click(cell); err != nil {
		return err
	}
	if err := model.Input(cmd.Args().Get(2)); err != nil {
		return err
	}
	if err := model.Commit(ctx); err != nil {
		return err
	}

	for _, p := range model.Rows() {
		if p.ID == uint(id) {
			return renderProducts(cmd.Root().Writer, []models.Product{p})
		}
	}
	return nil
}

func renderProducts(w io.Writer, products []models.Product) error {
	table := tablewriter.NewWriter(w)
	header := []any{"ID"}
	for _, f := range view.Columns {
		header = append(header, string(f))
	}
	table.Header(header...)

	for _, p := range products {
		row := []any{view.Value(p, view.FieldID)}
		for _, f := range view.Columns {
			row = append(row, view.Value(p, f))
		}
		if err := table.Append(row...); err != nil {
			return err
		}
	}
	return table.Render()
}
