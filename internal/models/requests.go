package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MaxPageSize bounds the limit accepted by list and search.
const MaxPageSize = 500

// CreateProductRequest is the body of POST /api/products.
type CreateProductRequest struct {
	ArticleNo   string           `json:"articleNo" validate:"required"`
	ProductName string           `json:"productName" validate:"required"`
	InPrice     *decimal.Decimal `json:"inPrice,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	InStock     *int             `json:"inStock,omitempty"`
	Description *string          `json:"description,omitempty"`
}

// UpdateProductRequest is the body of PUT /api/products/:id. Nil fields are left untouched.
type UpdateProductRequest struct {
	ArticleNo   *string          `json:"articleNo,omitempty"`
	ProductName *string          `json:"productName,omitempty"`
	InPrice     *decimal.Decimal `json:"inPrice,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	InStock     *int             `json:"inStock,omitempty"`
	Description *string          `json:"description,omitempty"`

	// ExpectedUpdatedAt, when set, makes the update conditional on the stored updatedAt.
	ExpectedUpdatedAt *time.Time `json:"expectedUpdatedAt,omitempty"`
}

// HasChanges reports whether at least one product field is supplied.
func (r UpdateProductRequest) HasChanges() bool {
	return r.ArticleNo != nil || r.ProductName != nil || r.InPrice != nil || r.Price != nil ||
		r.Unit != nil || r.InStock != nil || r.Description != nil
}

// Apply merges the supplied fields into p.
func (r UpdateProductRequest) Apply(p *Product) {
	if r.ArticleNo != nil {
		p.ArticleNo = *r.ArticleNo
	}
	if r.ProductName != nil {
		p.ProductName = *r.ProductName
	}
	if r.InPrice != nil {
		p.InPrice = *r.InPrice
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.Unit != nil {
		p.Unit = *r.Unit
	}
	if r.InStock != nil {
		p.InStock = *r.InStock
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
}

// ProductFilter holds the case-insensitive substring patterns of a search.
type ProductFilter struct {
	ArticleNo   string `query:"articleNo"`
	ProductName string `query:"productName"`
}

// Normalize trims surrounding whitespace from both patterns.
func (f ProductFilter) Normalize() ProductFilter {
	return ProductFilter{
		ArticleNo:   strings.TrimSpace(f.ArticleNo),
		ProductName: strings.TrimSpace(f.ProductName),
	}
}

// IsEmpty reports whether the filter matches every product.
func (f ProductFilter) IsEmpty() bool {
	n := f.Normalize()
	return n.ArticleNo == "" && n.ProductName == ""
}

// Page selects a window of an ordered result. A zero Limit means no limit.
type Page struct {
	Limit  int `json:"limit" query:"limit" validate:"gte=0,page_size"`
	Offset int `json:"offset" query:"offset" validate:"gte=0"`
}
