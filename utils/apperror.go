package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorKind classifies user-visible failures so handlers can map every
// service error to a status code in one place.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota
	KindInvalidRequest
	KindInvalidState
	KindForbidden
)

type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string { return e.Message }

func NotFound(msg string) *AppError       { return &AppError{Kind: KindNotFound, Message: msg} }
func InvalidRequest(msg string) *AppError { return &AppError{Kind: KindInvalidRequest, Message: msg} }
func InvalidState(msg string) *AppError   { return &AppError{Kind: KindInvalidState, Message: msg} }
func Forbidden(msg string) *AppError      { return &AppError{Kind: KindForbidden, Message: msg} }

// HTTPStatus maps an error to its response status. Anything that is not an
// AppError is an internal failure.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindNotFound:
		return fiber.StatusNotFound
	case KindForbidden:
		return fiber.StatusForbidden
	default:
		// InvalidRequest and InvalidState are both caller mistakes
		return fiber.StatusBadRequest
	}
}

// JSONError writes the standard {"error": ...} body for err. Internal
// failures are not echoed back to the caller.
func JSONError(c *fiber.Ctx, err error) error {
	status := HTTPStatus(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "internal server error"
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
