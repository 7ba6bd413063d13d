package repositories

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"pricelist/internal/models"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
// It backs the "memory" database driver and follows the SQL implementation's ordering,
// paging and conflict rules. Search folds case with Unicode rules, so it also matches
// non-ASCII letters that SQLite's ASCII-only LOWER leaves alone.
type MemoryProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	now      func() time.Time
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	}
}

// GetAll returns all products, newest first.
func (r *MemoryProductRepository) GetAll(_ context.Context, page models.Page) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(models.Product) bool { return true }, page), nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(_ context.Context, id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, errProductNotFound()
	}
	return &product, nil
}

// Search returns products matching the filter, newest first.
func (r *MemoryProductRepository) Search(_ context.Context, filter models.ProductFilter, page models.Page) ([]models.Product, error) {
	filter = filter.Normalize()
	article := strings.ToLower(filter.ArticleNo)
	name := strings.ToLower(filter.ProductName)

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.ArticleNo), article) &&
			strings.Contains(strings.ToLower(p.ProductName), name)
	}, page), nil
}

// Create adds a new product.
func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.articleTaken(product.ArticleNo, 0) {
		return errDuplicateArticleNo(product.ArticleNo)
	}
	now := r.now()
	product.ID = r.nextID
	product.CreatedAt = now
	product.UpdatedAt = now
	r.nextID++
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MemoryProductRepository) Update(_ context.Context, product *models.Product, expectedUpdatedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.products[product.ID]
	if !ok {
		return errProductNotFound()
	}
	if expectedUpdatedAt != nil && !SameVersion(current.UpdatedAt, *expectedUpdatedAt) {
		return ErrStaleProduct(product.ID)
	}
	if r.articleTaken(product.ArticleNo, product.ID) {
		return errDuplicateArticleNo(product.ArticleNo)
	}
	product.CreatedAt = current.CreatedAt
	product.UpdatedAt = r.now()
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MemoryProductRepository) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return errProductNotFound()
	}
	delete(r.products, id)
	return nil
}

// Count returns the number of stored products.
func (r *MemoryProductRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.products)), nil
}

// ExistsArticleNo reports whether a product other than excludeID uses articleNo.
func (r *MemoryProductRepository) ExistsArticleNo(_ context.Context, articleNo string, excludeID uint) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.articleTaken(articleNo, excludeID), nil
}

// articleTaken must be called with the lock held.
func (r *MemoryProductRepository) articleTaken(articleNo string, excludeID uint) bool {
	for id, p := range r.products {
		if id != excludeID && p.ArticleNo == articleNo {
			return true
		}
	}
	return false
}

// collect must be called with the read lock held.
func (r *MemoryProductRepository) collect(match func(models.Product) bool, page models.Page) []models.Product {
	out := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if match(p) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b models.Product) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})

	if page.Offset > 0 {
		if page.Offset >= len(out) {
			return []models.Product{}
		}
		out = out[page.Offset:]
	}
	if page.Limit > 0 && page.Limit < len(out) {
		out = out[:page.Limit]
	}
	return out
}
