package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"pricelist/internal/apperr"
	"pricelist/internal/models"
)

// New returns a validator that reports JSON field names and understands decimal.Decimal.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("page_size", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= models.MaxPageSize
	})

	return v
}

// Struct validates s and converts failures into an apperr validation error.
func Struct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal(err, "validation could not be performed")
	}
	return apperr.Validation(FieldErrors(verrs)...)
}

// FieldErrors renders each validator failure as a readable message.
func FieldErrors(verrs validator.ValidationErrors) []apperr.FieldError {
	out := make([]apperr.FieldError, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, apperr.FieldError{Field: e.Field(), Message: describe(e)})
	}
	return out
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "must not be empty"
	case "max":
		return fmt.Sprintf("must be at most %s characters", e.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "page_size":
		return fmt.Sprintf("must be less than or equal to %d", models.MaxPageSize)
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", e.Param())
	default:
		return fmt.Sprintf("failed on the '%s' rule", e.Tag())
	}
}
