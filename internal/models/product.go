package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultUnit is assigned when a product is created without a unit.
const DefaultUnit = "piece"

// Product represents one row of the price list.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	ArticleNo   string          `json:"articleNo" gorm:"type:varchar(255);not null;uniqueIndex:idx_products_article_no" validate:"required,max=255"`
	ProductName string          `json:"productName" gorm:"type:varchar(255);not null" validate:"required,max=255"`
	InPrice     decimal.Decimal `json:"inPrice" gorm:"type:decimal(10,2);not null" validate:"gte=0,lte=99999999.99"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null" validate:"gte=0,lte=99999999.99"`
	Unit        string          `json:"unit" gorm:"type:varchar(255);not null" validate:"required,max=255"`
	InStock     int             `json:"inStock" gorm:"type:integer;not null" validate:"gte=0,lte=2147483647"`
	Description string          `json:"description" gorm:"type:text"`
	CreatedAt   time.Time       `json:"createdAt" gorm:"index:idx_products_created_at"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// TableName pins the relation name regardless of GORM naming strategy.
func (Product) TableName() string {
	return "products"
}
