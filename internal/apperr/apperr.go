package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an application error independently of the transport.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindConflict
	KindUnavailable
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// FieldError names a single offending field of a rejected request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified error carrying a message that is safe to show to API clients
// for the NotFound, Validation and Conflict kinds.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound creates a KindNotFound error.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a KindConflict error.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a KindValidation error enumerating every failing field.
func Validation(fields ...FieldError) *Error {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	msg := "validation failed"
	if len(parts) > 0 {
		msg += ": " + strings.Join(parts, "; ")
	}
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

// Invalid is a shorthand for a validation error on a single field.
func Invalid(field, message string) *Error {
	return Validation(FieldError{Field: field, Message: message})
}

// Unavailable wraps an infrastructure failure.
func Unavailable(err error, message string) *Error {
	return &Error{Kind: KindUnavailable, Message: message, Err: err}
}

// Internal wraps an unexpected failure.
func Internal(err error, message string) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// Classified is implemented by errors from other layers that know their kind,
// such as API errors decoded by a client.
type Classified interface {
	error
	Kind() Kind
}

// KindOf reports the kind of the first *Error or Classified in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var c Classified
	if errors.As(err, &c) {
		return c.Kind()
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the client-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// FieldsOf returns the field details of a validation error, if any.
func FieldsOf(err error) []FieldError {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
