package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/postdrip/postdrip/internal/service"
)

type PublishHandler struct {
	publisher service.PublisherService
}

func NewPublishHandler(publisher service.PublisherService) *PublishHandler {
	return &PublishHandler{publisher: publisher}
}

// RunScheduledPublish runs one batch publisher sweep. Meant for an external
// time trigger, not a user; it sits behind the same auth gate as the rest
// of the API.
func (h *PublishHandler) RunScheduledPublish(c *fiber.Ctx) error {
	result, err := h.publisher.RunScheduledPublish(c.Context())
	if err != nil {
		return ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
