package middleware

import (
	"log"
	"strings"

	"family-ranking/models"
	"family-ranking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserContextMiddleware resolves the Bearer token to a user record and
// attaches it for handlers. Every secured route runs behind this; the
// services themselves never authenticate, they only authorize the
// already-resolved principal.
func UserContextMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing Authorization header",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			// no "Bearer " prefix, accept the raw token
			token = authHeader
		}

		userID, err := utils.ParseToken(token)
		if err != nil {
			log.Printf("❌ [AUTH] Invalid token for %s: %v", c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "user no longer exists",
			})
		}

		c.Locals("user", &user)
		return c.Next()
	}
}

// CurrentUser returns the principal resolved by UserContextMiddleware.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}
