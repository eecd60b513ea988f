package handlers

import (
	"family-ranking/middleware"
	"family-ranking/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupTeamRoutes(app *fiber.App, db *gorm.DB, teamService *services.TeamService) {
	secured := app.Group("/teams", middleware.UserContextMiddleware(db))

	secured.Post("/", teamService.CreateTeam)
	secured.Get("/", teamService.GetTeams)
}
