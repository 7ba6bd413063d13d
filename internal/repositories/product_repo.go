package repositories

import (
	"context"
	"time"

	"pricelist/internal/models"
)

// ProductRepository defines the interface for product data access.
//
// Lookups of an unknown id fail with an apperr.KindNotFound error, duplicate article
// numbers with apperr.KindConflict, and infrastructure failures with apperr.KindUnavailable.
type ProductRepository interface {
	// GetAll returns products newest first.
	GetAll(ctx context.Context, page models.Page) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	// Search matches case-insensitive substrings, ANDed when both patterns are set, newest first.
	Search(ctx context.Context, filter models.ProductFilter, page models.Page) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	// Update persists every field of product. When expectedUpdatedAt is non-nil the write
	// only happens if the stored updatedAt still matches it.
	Update(ctx context.Context, product *models.Product, expectedUpdatedAt *time.Time) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	ExistsArticleNo(ctx context.Context, articleNo string, excludeID uint) (bool, error)
}
