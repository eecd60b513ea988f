package handlers

import (
	"family-ranking/middleware"
	"family-ranking/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupUserRoutes(app *fiber.App, db *gorm.DB, userService *services.UserService) {
	secured := app.Group("/users", middleware.UserContextMiddleware(db))

	secured.Get("/", userService.GetAllUsers)
	secured.Get("/me", userService.GetMe)
	secured.Put("/profile", userService.UpdateProfile)
	secured.Post("/avatar", userService.UploadAvatar)

	// Admin user management, shared-token gated on top of user auth
	admin := secured.Group("/", middleware.AdminOnlyMiddleware())
	admin.Post("/", userService.AdminCreateUser)
	admin.Put("/:id", userService.AdminUpdateUser)
	admin.Delete("/:id", userService.AdminDeleteUser)
}
