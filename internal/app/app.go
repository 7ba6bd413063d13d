package app

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pricelist/internal/handlers"
	"pricelist/internal/middleware"
)

// Options configures the HTTP application.
type Options struct {
	Logger           zerolog.Logger
	CORSAllowOrigins string
}

// New builds the Fiber application with middleware, the /api routes and the health check.
func New(catalog handlers.ProductCatalog, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "pricelist",
		DisableStartupMessage: true,
		ErrorHandler:          handlers.ErrorHandler(opts.Logger),
	})

	origins := opts.CORSAllowOrigins
	if origins == "" {
		origins = "*"
	}

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(middleware.RequestLogger(opts.Logger))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	api := app.Group("/api")
	handlers.NewProductHandler(catalog, opts.Logger).RegisterRoutes(api)

	app.Get("/health", handlers.HandleHealth)

	return app
}
