package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/postdrip/postdrip/internal/service"
)

type ApiKeyHandler struct {
	s service.ApiKeyService
}

func NewApiKeyHandler(s service.ApiKeyService) *ApiKeyHandler {
	return &ApiKeyHandler{s: s}
}

func (h *ApiKeyHandler) CreateApiKey(c *fiber.Ctx) error {
	name := c.Query("name", "default")

	apiKey, err := h.s.Create(c.Context(), name)
	if err != nil {
		return ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(apiKey)
}

func (h *ApiKeyHandler) ListKeys(c *fiber.Ctx) error {
	apiKeys, err := h.s.List(c.Context())
	if err != nil {
		return ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(apiKeys)
}

func (h *ApiKeyHandler) RemoveAPIKey(c *fiber.Ctx) error {
	keyID := int64(c.QueryInt("id", 0))

	if err := h.s.Remove(c.Context(), keyID); err != nil {
		return ErrorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}
