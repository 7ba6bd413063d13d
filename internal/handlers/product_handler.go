package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"pricelist/internal/apperr"
	"pricelist/internal/models"
	"pricelist/internal/validation"
)

// ProductCatalog is the product service as seen by the HTTP layer.
type ProductCatalog interface {
	GetAllProducts(ctx context.Context, page models.Page) ([]models.Product, error)
	GetProductByID(ctx context.Context, id uint) (*models.Product, error)
	SearchProducts(ctx context.Context, filter models.ProductFilter, page models.Page) ([]models.Product, error)
	CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uint, req models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
}

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  ProductCatalog
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service ProductCatalog, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validation.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	// Must precede /:id.
	productRoutes.Get("/search", h.HandleSearchProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts lists the catalog newest first.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	page, err := h.parsePage(c)
	if err != nil {
		return RespondError(c, h.logger, err)
	}

	products, err := h.service.GetAllProducts(c.UserContext(), page)
	if err != nil {
		return RespondError(c, h.logger, err)
	}
	return respondData(c, fiber.StatusOK, products)
}

// HandleSearchProducts filters by the articleNo and productName query parameters.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	var filter models.ProductFilter
	if err := c.QueryParser(&filter); err != nil {
		return RespondError(c, h.logger, apperr.Invalid("query", "is malformed"))
	}
	page, err := h.parsePage(c)
	if err != nil {
		return RespondError(c, h.logger, err)
	}

	products, err := h.service.SearchProducts(c.UserContext(), filter, page)
	if err != nil {
		return RespondError(c, h.logger, err)
	}
	return respondData(c, fiber.StatusOK, products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return RespondError(c, h.logger, err)
	}

	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return RespondError(c, h.logger, err)
	}
	return respondData(c, fiber.StatusOK, product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req models.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid create product body")
		return RespondError(c, h.logger, apperr.Invalid("body", "must be a valid JSON product"))
	}

	// articleNo and productName are checked here to reject the common omission without a database round trip.
	if err := validation.Struct(h.validate, req); err != nil {
		return RespondError(c, h.logger, err)
	}

	product, err := h.service.CreateProduct(c.UserContext(), req)
	if err != nil {
		return RespondError(c, h.logger, err)
	}
	return respondData(c, fiber.StatusCreated, product)
}

// HandleUpdateProduct applies a partial update to an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return RespondError(c, h.logger, err)
	}

	var req models.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid update product body")
		return RespondError(c, h.logger, apperr.Invalid("body", "must be a valid JSON product"))
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, req)
	if err != nil {
		return RespondError(c, h.logger, err)
	}
	return respondData(c, fiber.StatusOK, product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return RespondError(c, h.logger, err)
	}

	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return RespondError(c, h.logger, err)
	}
	return respondMessage(c, fiber.StatusOK, "Product deleted successfully")
}

func (h *ProductHandler) parsePage(c *fiber.Ctx) (models.Page, error) {
	var page models.Page
	if err := c.QueryParser(&page); err != nil {
		return models.Page{}, apperr.Invalid("limit", "and offset must be whole numbers")
	}
	if err := validation.Struct(h.validate, page); err != nil {
		return models.Page{}, err
	}
	return page, nil
}

// productID parses :id. Ids that cannot exist are reported as not found.
func productID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, apperr.NotFound("Product not found")
	}
	return uint(id), nil
}
