package services

import (
	"context"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"pricelist/internal/apperr"
	"pricelist/internal/models"
	"pricelist/internal/repositories"
	"pricelist/internal/validation"
)

// ProductCache stores the unpaged, newest-first product list.
type ProductCache interface {
	GetProducts(ctx context.Context) ([]models.Product, bool, error)
	SetProducts(ctx context.Context, products []models.Product) error
	Invalidate(ctx context.Context) error
}

// EventPublisher announces catalog mutations.
type EventPublisher interface {
	PublishProductEvent(ctx context.Context, event models.ProductEvent) error
}

// Option configures a ProductService.
type Option func(*ProductService)

// WithCache enables list caching.
func WithCache(cache ProductCache) Option {
	return func(s *ProductService) { s.cache = cache }
}

// WithEvents enables publication of catalog events.
func WithEvents(publisher EventPublisher) Option {
	return func(s *ProductService) { s.events = publisher }
}

// WithLogger sets the logger used for non-fatal cache and event failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *ProductService) { s.logger = logger }
}

// ProductService handles business logic related to products: defaults, normalisation,
// invariant checks, and the side effects of successful writes.
type ProductService struct {
	repo     repositories.ProductRepository
	validate *validator.Validate
	cache    ProductCache
	events   EventPublisher
	logger   zerolog.Logger

	// cacheMu orders cache fills against invalidations; generation counts writes.
	cacheMu    sync.Mutex
	generation uint64
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, opts ...Option) *ProductService {
	s := &ProductService{
		repo:     repo,
		validate: validation.New(),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAllProducts retrieves products newest first. A zero page returns the whole catalog.
func (s *ProductService) GetAllProducts(ctx context.Context, page models.Page) ([]models.Product, error) {
	if err := s.checkPage(page); err != nil {
		return nil, err
	}
	unpaged := page == models.Page{}

	if unpaged && s.cache != nil {
		products, ok, err := s.cache.GetProducts(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("product cache read failed")
		} else if ok {
			return products, nil
		}
	}

	gen := s.currentGeneration()
	products, err := s.repo.GetAll(ctx, page)
	if err != nil {
		return nil, err
	}

	if unpaged && s.cache != nil {
		s.fillCache(ctx, gen, products)
	}
	return products, nil
}

func (s *ProductService) currentGeneration() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.generation
}

// fillCache stores products unless a write happened since they were read at generation gen.
func (s *ProductService) fillCache(ctx context.Context, gen uint64, products []models.Product) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.generation != gen {
		return
	}
	if err := s.cache.SetProducts(ctx, products); err != nil {
		s.logger.Warn().Err(err).Msg("product cache write failed")
	}
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	if id == 0 {
		return nil, apperr.NotFound("Product not found")
	}
	return s.repo.GetByID(ctx, id)
}

// SearchProducts filters by article number and/or name. An empty filter behaves like GetAllProducts.
func (s *ProductService) SearchProducts(ctx context.Context, filter models.ProductFilter, page models.Page) ([]models.Product, error) {
	if filter.IsEmpty() {
		return s.GetAllProducts(ctx, page)
	}
	if err := s.checkPage(page); err != nil {
		return nil, err
	}
	return s.repo.Search(ctx, filter.Normalize(), page)
}

// CreateProduct validates the request, applies defaults and persists a new product.
func (s *ProductService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		ArticleNo:   req.ArticleNo,
		ProductName: req.ProductName,
		InPrice:     decimal.Zero,
		Price:       decimal.Zero,
		Unit:        models.DefaultUnit,
	}
	if req.InPrice != nil {
		product.InPrice = *req.InPrice
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.InStock != nil {
		product.InStock = *req.InStock
	}
	if req.Description != nil {
		product.Description = *req.Description
	}

	if err := s.normalizeAndValidate(product); err != nil {
		return nil, err
	}
	if err := s.ensureArticleNoFree(ctx, product.ArticleNo, 0); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, models.ProductCreated, *product)
	return product, nil
}

// UpdateProduct applies only the supplied fields, re-validates the merged record and persists it.
// Nothing is written when any field is invalid.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, req models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ExpectedUpdatedAt != nil && !repositories.SameVersion(product.UpdatedAt, *req.ExpectedUpdatedAt) {
		return nil, repositories.ErrStaleProduct(id)
	}
	if !req.HasChanges() {
		return product, nil
	}

	req.Apply(product)
	if err := s.normalizeAndValidate(product); err != nil {
		return nil, err
	}
	if req.ArticleNo != nil {
		if err := s.ensureArticleNoFree(ctx, product.ArticleNo, product.ID); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, product, req.ExpectedUpdatedAt); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, models.ProductUpdated, *product)
	return product, nil
}

// DeleteProduct deletes a product by its ID. Deleting an unknown or already deleted id fails NotFound.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.afterWrite(ctx, models.ProductDeleted, *product)
	return nil
}

// CountProducts returns the catalog size.
func (s *ProductService) CountProducts(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *ProductService) normalizeAndValidate(p *models.Product) error {
	p.ArticleNo = strings.TrimSpace(p.ArticleNo)
	p.ProductName = strings.TrimSpace(p.ProductName)
	p.Unit = strings.TrimSpace(p.Unit)
	p.InPrice = p.InPrice.Round(2)
	p.Price = p.Price.Round(2)
	return validation.Struct(s.validate, p)
}

func (s *ProductService) checkPage(page models.Page) error {
	return validation.Struct(s.validate, page)
}

func (s *ProductService) ensureArticleNoFree(ctx context.Context, articleNo string, excludeID uint) error {
	taken, err := s.repo.ExistsArticleNo(ctx, articleNo, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("article number %q already exists", articleNo)
	}
	return nil
}

// afterWrite invalidates the list cache and publishes the event. Failures are logged only.
func (s *ProductService) afterWrite(ctx context.Context, eventType models.ProductEventType, p models.Product) {
	if s.cache != nil {
		s.cacheMu.Lock()
		s.generation++
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("product cache invalidation failed")
		}
		s.cacheMu.Unlock()
	}
	if s.events != nil {
		if err := s.events.PublishProductEvent(ctx, models.NewProductEvent(eventType, p)); err != nil {
			s.logger.Warn().Err(err).Uint("product_id", p.ID).Str("event", string(eventType)).Msg("failed to publish product event")
		}
	}
}
