package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"pricelist/internal/apperr"
)

// InternalErrorMessage is the only message clients see for unexpected failures.
const InternalErrorMessage = "internal server error"

// Envelope is the uniform body of every API response.
type Envelope struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
	Error   string              `json:"error,omitempty"`
	Fields  []apperr.FieldError `json:"fields,omitempty"`
}

func respondData(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(Envelope{Success: true, Data: data})
}

func respondMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Envelope{Success: true, Message: message})
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindValidation, apperr.KindConflict:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondError writes the failure envelope for err. Messages of unexpected and
// infrastructure errors are logged but never returned.
func RespondError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	status := StatusOf(err)
	body := Envelope{Success: false}

	if status == fiber.StatusInternalServerError {
		logger.Error().Err(err).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("request failed")
		body.Error = InternalErrorMessage
	} else {
		body.Error = apperr.MessageOf(err)
		body.Fields = apperr.FieldsOf(err)
	}
	return c.Status(status).JSON(body)
}

// ErrorHandler renders errors escaping the handlers (unknown routes, recovered panics,
// framework errors) in the response envelope.
func ErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			switch {
			case fe.Code == fiber.StatusNotFound:
				return c.Status(fe.Code).JSON(Envelope{Success: false, Error: "route not found"})
			case fe.Code < fiber.StatusInternalServerError:
				return c.Status(fe.Code).JSON(Envelope{Success: false, Error: fe.Message})
			}
		}
		return RespondError(c, logger, err)
	}
}
