package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricelist/internal/models"
	"pricelist/internal/view"
)

func TestSort_StableInBothDirections(t *testing.T) {
	in := []models.Product{
		product(1, "B", "same", "7"),
		product(2, "a", "same", "7"),
		product(3, "C", "other", "1"),
	}

	asc := view.Sort(in, view.FieldPrice, view.Ascending)
	assert.Equal(t, []uint{3, 1, 2}, ids(asc))

	desc := view.Sort(in, view.FieldPrice, view.Descending)
	assert.Equal(t, []uint{1, 2, 3}, ids(desc))

	byArticle := view.Sort(in, view.FieldArticleNo, view.Ascending)
	assert.Equal(t, []uint{2, 1, 3}, ids(byArticle))

	// The input is not reordered.
	assert.Equal(t, []uint{1, 2, 3}, ids(in))
}

func TestSort_NumericNotLexical(t *testing.T) {
	in := []models.Product{
		product(1, "A", "x", "100"),
		product(2, "B", "x", "9.99"),
	}
	in[0].InStock = 10
	in[1].InStock = 9

	assert.Equal(t, []uint{2, 1}, ids(view.Sort(in, view.FieldPrice, view.Ascending)))
	assert.Equal(t, []uint{2, 1}, ids(view.Sort(in, view.FieldInStock, view.Ascending)))
}

func TestParseField(t *testing.T) {
	f, err := view.ParseField("PRICE")
	require.NoError(t, err)
	assert.Equal(t, view.FieldPrice, f)

	f, err = view.ParseField("id")
	require.NoError(t, err)
	assert.Equal(t, view.FieldID, f)

	_, err = view.ParseField("colour")
	assert.ErrorIs(t, err, view.ErrUnknownField)
}

func TestValue(t *testing.T) {
	p := product(7, "SONY-DSLR-001", "Sony", "1999.9")
	p.InStock = 3
	assert.Equal(t, "1999.90", view.Value(p, view.FieldPrice))
	assert.Equal(t, "3", view.Value(p, view.FieldInStock))
	assert.Equal(t, "7", view.Value(p, view.FieldID))
}
