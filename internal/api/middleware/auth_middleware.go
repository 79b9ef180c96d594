package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
	config "github.com/postdrip/postdrip/configs"
	"github.com/postdrip/postdrip/internal/service"
	"github.com/postdrip/postdrip/pkg/utils"
)

type AuthMiddleware struct {
	s   service.ApiKeyService
	cfg config.Config
}

func NewAuthMiddleware(cfg config.Config, service service.ApiKeyService) *AuthMiddleware {
	return &AuthMiddleware{s: service, cfg: cfg}
}

// AuthMiddleware admits requests carrying either a valid API key (external
// triggers, scripts) or a session cookie (the admin UI).
func (m *AuthMiddleware) AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(m.cfg.CookieName)
		apiKey := c.Query("api_key")
		if apiKey == "" {
			apiKey = c.Get("X-Api-Key")
		}

		if tokenString == "" && apiKey == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing API key or session cookie",
			})
		}

		if apiKey != "" {
			if err := m.s.Validate(c.Context(), apiKey); err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid API key",
				})
			}
			c.Locals("auth", "api_key")
		} else {
			claims, err := utils.ValidateToken(m.cfg.SecretKey, tokenString)
			if err != nil {
				c.Cookie(&fiber.Cookie{
					Name:   m.cfg.CookieName,
					Value:  "",
					Path:   "/",
					MaxAge: -1, // Delete cookie
				})

				log.Printf("Token validation failed: %v", err)
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid or expired token",
				})
			}
			c.Locals("auth", claims.Role)
		}

		return c.Next()
	}
}
