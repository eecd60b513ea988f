package middleware

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
)

// AdminOnlyMiddleware guards the admin user-management routes with a shared
// token. When ADMIN_TOKEN is unset the routes are effectively disabled.
func AdminOnlyMiddleware() fiber.Handler {
	expectedToken := os.Getenv("ADMIN_TOKEN")
	if expectedToken == "" {
		log.Println("⚠️  ADMIN_TOKEN not set, admin routes are disabled")
	}

	return func(c *fiber.Ctx) error {
		if expectedToken == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin access is disabled",
			})
		}
		if c.Get("X-Admin-Token") != expectedToken {
			log.Printf("🚫 [ADMIN] Invalid admin token for %s", c.Path())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "invalid admin token",
			})
		}
		return c.Next()
	}
}
