package repositories

import (
	"time"

	"pricelist/internal/apperr"
)

func errProductNotFound() error {
	return apperr.NotFound("Product not found")
}

func errDuplicateArticleNo(articleNo string) error {
	return apperr.Conflict("article number %q already exists", articleNo)
}

// ErrStaleProduct reports an update whose expected version no longer matches the stored one.
func ErrStaleProduct(id uint) error {
	return apperr.Conflict("product %d was modified by someone else, reload and try again", id)
}

// SameVersion compares updatedAt values at the precision the database stores.
func SameVersion(a, b time.Time) bool {
	return a.Truncate(time.Microsecond).Equal(b.Truncate(time.Microsecond))
}
