package handlers

import (
	"family-ranking/middleware"
	"family-ranking/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupMatchRoutes(app *fiber.App, db *gorm.DB, matchService *services.MatchService) {
	secured := app.Group("/matches", middleware.UserContextMiddleware(db))

	secured.Post("/create", matchService.CreateMatch)
	secured.Post("/:id/accept", matchService.AcceptMatch)
	secured.Post("/:id/reject", matchService.RejectMatch)
	secured.Post("/:id/settle-request", matchService.RequestBetSettlement)
	secured.Post("/:id/settle-confirm", matchService.ConfirmBetSettlement)
	secured.Get("/my", matchService.GetMyMatches)
	secured.Get("/ranking", matchService.GetRanking)
}
