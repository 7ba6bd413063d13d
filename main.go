package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"pricelist/internal/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "pricelist",
		Usage: "price list catalog service and tools",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Flags:  []cli.Flag{commands.EnvFlag()},
				Action: commands.ServeAction,
			},
			{
				Name:   "migrate",
				Usage:  "apply database migrations",
				Flags:  []cli.Flag{commands.EnvFlag()},
				Action: commands.MigrateAction,
			},
			{
				Name:   "seed",
				Usage:  "insert the demonstration catalog if it is empty",
				Flags:  []cli.Flag{commands.EnvFlag()},
				Action: commands.SeedAction,
			},
			{
				Name:  "events",
				Usage: "log catalog events from RabbitMQ",
				Flags: []cli.Flag{
					commands.EnvFlag(),
					&cli.StringFlag{
						Name:  "queue",
						Usage: "queue to consume (defaults to RABBITMQ_QUEUE)",
					},
				},
				Action: commands.EventsAction,
			},
			{
				Name:  "products",
				Usage: "work with the catalog of a running API",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "print the catalog as a table",
						Flags: []cli.Flag{
							commands.EnvFlag(),
							&cli.StringFlag{
								Name:  "article",
								Usage: "article number contains",
							},
							&cli.StringFlag{
								Name:  "name",
								Usage: "product name contains",
							},
							&cli.StringFlag{
								Name:  "sort",
								Usage: "column to sort by (articleNo, productName, inPrice, price, unit, inStock, description, id)",
							},
							&cli.BoolFlag{
								Name:  "desc",
								Usage: "sort descending",
							},
						},
						Action: commands.ProductsListAction,
					},
					{
						Name:      "set",
						Usage:     "edit one cell",
						ArgsUsage: "<id> <field> <value>",
						Flags:     []cli.Flag{commands.EnvFlag()},
						Action:    commands.ProductsSetAction,
					},
				},
			},
		},
	}
}
