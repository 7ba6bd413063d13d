package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"pricelist/internal/apperr"
	"pricelist/internal/models"
)

// updatableColumns are written by Update; id and created_at are immutable.
var updatableColumns = []string{
	"article_no", "product_name", "in_price", "price", "unit", "in_stock", "description", "updated_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
// The connection is expected to be opened with TranslateError enabled.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database, newest first.
func (r *GORMProductRepository) GetAll(ctx context.Context, page models.Page) ([]models.Product, error) {
	return r.find(ctx, r.db.WithContext(ctx), page)
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, classify(err, "failed to get product")
	}
	return &product, nil
}

// Search retrieves products whose article number and/or name contain the given patterns.
func (r *GORMProductRepository) Search(ctx context.Context, filter models.ProductFilter, page models.Page) ([]models.Product, error) {
	filter = filter.Normalize()
	q := r.db.WithContext(ctx)
	if filter.ArticleNo != "" {
		q = q.Where(`LOWER(article_no) LIKE ? ESCAPE '\'`, containsPattern(filter.ArticleNo))
	}
	if filter.ProductName != "" {
		q = q.Where(`LOWER(product_name) LIKE ? ESCAPE '\'`, containsPattern(filter.ProductName))
	}
	return r.find(ctx, q, page)
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	product.ID = 0
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errDuplicateArticleNo(product.ArticleNo)
		}
		return classify(err, "failed to create product")
	}
	return nil
}

// Update updates an existing product in the database and reloads it.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product, expectedUpdatedAt *time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Product
		if err := tx.First(&current, "id = ?", product.ID).Error; err != nil {
			return classify(err, "failed to load product for update")
		}
		if expectedUpdatedAt != nil && !SameVersion(current.UpdatedAt, *expectedUpdatedAt) {
			return ErrStaleProduct(product.ID)
		}

		product.CreatedAt = current.CreatedAt
		product.UpdatedAt = tx.NowFunc()
		res := tx.Model(&models.Product{ID: product.ID}).Select(updatableColumns).Updates(product)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return errDuplicateArticleNo(product.ArticleNo)
			}
			return classify(res.Error, "failed to update product")
		}
		if res.RowsAffected == 0 {
			return errProductNotFound()
		}
		return classify(tx.First(product, "id = ?", product.ID).Error, "failed to reload product")
	})
	if err == nil {
		return nil
	}
	if apperr.KindOf(err) == apperr.KindInternal {
		return apperr.Unavailable(err, "failed to update product")
	}
	return err
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return classify(res.Error, "failed to delete product")
	}
	if res.RowsAffected == 0 {
		return errProductNotFound()
	}
	return nil
}

// Count returns the number of stored products.
func (r *GORMProductRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error; err != nil {
		return 0, classify(err, "failed to count products")
	}
	return n, nil
}

// ExistsArticleNo reports whether another product already uses articleNo.
func (r *GORMProductRepository) ExistsArticleNo(ctx context.Context, articleNo string, excludeID uint) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.Product{}).Where("article_no = ?", articleNo)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, classify(err, "failed to check article number")
	}
	return n > 0, nil
}

func (r *GORMProductRepository) find(ctx context.Context, q *gorm.DB, page models.Page) ([]models.Product, error) {
	q = q.Order("created_at DESC").Order("id DESC")
	if page.Limit > 0 {
		q = q.Limit(page.Limit)
	}
	if page.Offset > 0 {
		q = q.Offset(page.Offset)
	}
	products := make([]models.Product, 0)
	if err := q.Find(&products).Error; err != nil {
		return nil, classify(err, "failed to list products")
	}
	return products, nil
}

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// classify maps driver errors onto the apperr taxonomy. Already classified errors pass through.
func classify(err error, message string) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errProductNotFound()
	}
	return apperr.Unavailable(err, message)
}
