package view

import (
	"cmp"
	"slices"
	"strings"

	"pricelist/internal/models"
)

// Direction is a sort direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Sort returns a copy of products ordered by field. Equal rows keep their relative
// order in both directions. An empty field leaves the order unchanged.
func Sort(products []models.Product, field Field, dir Direction) []models.Product {
	out := slices.Clone(products)
	if out == nil {
		out = []models.Product{}
	}
	if field == "" {
		return out
	}
	slices.SortStableFunc(out, func(a, b models.Product) int {
		c := compareBy(a, b, field)
		if dir == Descending {
			return -c
		}
		return c
	})
	return out
}

func compareBy(a, b models.Product, field Field) int {
	switch field {
	case FieldID:
		return cmp.Compare(a.ID, b.ID)
	case FieldInPrice:
		return a.InPrice.Cmp(b.InPrice)
	case FieldPrice:
		return a.Price.Cmp(b.Price)
	case FieldInStock:
		return cmp.Compare(a.InStock, b.InStock)
	}
	return strings.Compare(strings.ToLower(Value(a, field)), strings.ToLower(Value(b, field)))
}
