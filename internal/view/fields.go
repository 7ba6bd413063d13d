package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"pricelist/internal/apperr"
	"pricelist/internal/models"
)

// Field names a product column by its JSON name.
type Field string

const (
	FieldID          Field = "id"
	FieldArticleNo   Field = "articleNo"
	FieldProductName Field = "productName"
	FieldInPrice     Field = "inPrice"
	FieldPrice       Field = "price"
	FieldUnit        Field = "unit"
	FieldInStock     Field = "inStock"
	FieldDescription Field = "description"
)

// Columns lists the visible columns in display order.
var Columns = []Field{
	FieldArticleNo,
	FieldProductName,
	FieldInPrice,
	FieldPrice,
	FieldUnit,
	FieldInStock,
	FieldDescription,
}

// ErrUnknownField is returned for a column name the catalog does not have.
var ErrUnknownField = errors.New("unknown field")

// ParseField resolves a column name, case-insensitively.
func ParseField(name string) (Field, error) {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, string(FieldID)) {
		return FieldID, nil
	}
	for _, f := range Columns {
		if strings.EqualFold(name, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Editable reports whether cells of the column can be edited in place.
func (f Field) Editable() bool {
	switch f {
	case FieldArticleNo, FieldProductName, FieldInPrice, FieldPrice, FieldUnit, FieldInStock, FieldDescription:
		return true
	}
	return false
}

// Numeric reports whether the column sorts numerically.
func (f Field) Numeric() bool {
	switch f {
	case FieldID, FieldInPrice, FieldPrice, FieldInStock:
		return true
	}
	return false
}

// Value renders the cell of p in column f as editable text.
func Value(p models.Product, f Field) string {
	switch f {
	case FieldID:
		return strconv.FormatUint(uint64(p.ID), 10)
	case FieldArticleNo:
		return p.ArticleNo
	case FieldProductName:
		return p.ProductName
	case FieldInPrice:
		return p.InPrice.StringFixed(2)
	case FieldPrice:
		return p.Price.StringFixed(2)
	case FieldUnit:
		return p.Unit
	case FieldInStock:
		return strconv.Itoa(p.InStock)
	case FieldDescription:
		return p.Description
	}
	return ""
}

// updateFor parses text typed into column f and builds the single-field update.
func updateFor(f Field, text string) (models.UpdateProductRequest, error) {
	var req models.UpdateProductRequest
	switch f {
	case FieldArticleNo:
		req.ArticleNo = &text
	case FieldProductName:
		req.ProductName = &text
	case FieldUnit:
		req.Unit = &text
	case FieldDescription:
		req.Description = &text
	case FieldInPrice, FieldPrice:
		d, err := decimal.NewFromString(strings.TrimSpace(text))
		if err != nil {
			return req, apperr.Invalid(string(f), "must be a number")
		}
		if f == FieldInPrice {
			req.InPrice = &d
		} else {
			req.Price = &d
		}
	case FieldInStock:
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return req, apperr.Invalid(string(f), "must be a whole number")
		}
		req.InStock = &n
	default:
		return req, fmt.Errorf("%w: %q is not editable", ErrUnknownField, f)
	}
	return req, nil
}
