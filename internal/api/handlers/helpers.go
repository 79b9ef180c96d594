package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/postdrip/postdrip/internal/apperr"
)

// ErrorResponse maps the core's error kinds to HTTP statuses. Anything
// unclassified is a 500.
func ErrorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperr.KindValidation:
			status = fiber.StatusBadRequest
		case apperr.KindNotFound:
			status = fiber.StatusNotFound
		case apperr.KindConflict:
			status = fiber.StatusConflict
		case apperr.KindCollaborator:
			status = fiber.StatusBadGateway
		}
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
