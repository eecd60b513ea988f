package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, HTTPStatus(NotFound("x")))
	assert.Equal(t, fiber.StatusForbidden, HTTPStatus(Forbidden("x")))
	assert.Equal(t, fiber.StatusBadRequest, HTTPStatus(InvalidRequest("x")))
	assert.Equal(t, fiber.StatusBadRequest, HTTPStatus(InvalidState("x")))
	assert.Equal(t, fiber.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestHTTPStatusUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("loading match: %w", NotFound("match not found"))
	assert.Equal(t, fiber.StatusNotFound, HTTPStatus(wrapped))
}
