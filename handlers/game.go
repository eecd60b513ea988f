package handlers

import (
	"family-ranking/middleware"
	"family-ranking/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupGameRoutes(app *fiber.App, db *gorm.DB, gameService *services.GameService) {
	// Public catalog reads
	app.Get("/games", gameService.GetAllGames)
	app.Get("/games/:id", gameService.GetGameByID)

	// Catalog writes require a signed-in family member
	secured := app.Group("/games", middleware.UserContextMiddleware(db))
	secured.Post("/", gameService.CreateGame)
	secured.Put("/:id", gameService.UpdateGame)
	secured.Delete("/:id", gameService.DeleteGame)
}
