package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"pricelist/internal/apperr"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("connection reset")

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(apperr.NotFound("Product not found")))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(fmt.Errorf("wrapped: %w", apperr.Conflict("dup"))))
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(apperr.Unavailable(cause, "db down")))
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(cause))
	assert.False(t, apperr.Is(nil, apperr.KindInternal))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := apperr.Unavailable(cause, "failed to list products")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to list products: connection reset", err.Error())
	assert.Equal(t, "failed to list products", apperr.MessageOf(err))
}

func TestValidation(t *testing.T) {
	err := apperr.Validation(
		apperr.FieldError{Field: "articleNo", Message: "must not be empty"},
		apperr.FieldError{Field: "price", Message: "must be greater than or equal to 0"},
	)

	assert.Equal(t, apperr.KindValidation, err.Kind)
	assert.Equal(t, "validation failed: articleNo must not be empty; price must be greater than or equal to 0", err.Error())
	assert.Len(t, apperr.FieldsOf(err), 2)

	assert.Equal(t, "validation failed", apperr.Validation().Message)
	assert.Nil(t, apperr.FieldsOf(errors.New("plain")))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "not_found", apperr.KindNotFound.String())
	assert.Equal(t, "internal", apperr.KindInternal.String())
}

type remoteError struct{ status int }

func (e remoteError) Error() string { return fmt.Sprintf("remote status %d", e.status) }

func (e remoteError) Kind() apperr.Kind {
	if e.status == 404 {
		return apperr.KindNotFound
	}
	return apperr.KindValidation
}

func TestKindOf_Classified(t *testing.T) {
	err := fmt.Errorf("loading product: %w", remoteError{status: 404})

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.True(t, apperr.Is(remoteError{status: 400}, apperr.KindValidation))
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(errors.New("plain")))
}
