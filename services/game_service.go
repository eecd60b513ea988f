package services

import (
	"errors"
	"log"

	"family-ranking/models"
	"family-ranking/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type GameService struct {
	DB *gorm.DB
}

func NewGameService(db *gorm.DB) *GameService {
	return &GameService{DB: db}
}

type gameRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	WinPoint    int    `json:"win_point"`
	DrawPoint   int    `json:"draw_point"`
	LossPoint   int    `json:"loss_point"`
	TeamGame    bool   `json:"team_game"`
}

func (s *GameService) GetAllGames(c *fiber.Ctx) error {
	var games []models.Game
	if err := s.DB.Order("name ASC").Find(&games).Error; err != nil {
		return utils.JSONError(c, err)
	}
	return c.JSON(games)
}

func (s *GameService) GetGameByID(c *fiber.Ctx) error {
	var game models.Game
	if err := s.DB.First(&game, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.JSONError(c, utils.NotFound("game not found"))
		}
		return utils.JSONError(c, err)
	}
	return c.JSON(game)
}

func (s *GameService) CreateGame(c *fiber.Ctx) error {
	var req gameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Name == "" {
		return utils.JSONError(c, utils.InvalidRequest("name is required"))
	}

	var count int64
	if err := s.DB.Model(&models.Game{}).Where("name = ?", req.Name).Count(&count).Error; err != nil {
		return utils.JSONError(c, err)
	}
	if count > 0 {
		return utils.JSONError(c, utils.InvalidRequest("game with name '"+req.Name+"' already exists"))
	}

	game := models.Game{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Slug:        slug.Make(req.Name),
		Description: req.Description,
		WinPoint:    req.WinPoint,
		DrawPoint:   req.DrawPoint,
		LossPoint:   req.LossPoint,
		TeamGame:    req.TeamGame,
	}
	if err := s.DB.Create(&game).Error; err != nil {
		return utils.JSONError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(game)
}

func (s *GameService) UpdateGame(c *fiber.Ctx) error {
	var req gameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	var game models.Game
	if err := s.DB.First(&game, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.JSONError(c, utils.NotFound("game not found"))
		}
		return utils.JSONError(c, err)
	}

	var count int64
	if err := s.DB.Model(&models.Game{}).
		Where("name = ? AND id <> ?", req.Name, game.ID).
		Count(&count).Error; err != nil {
		return utils.JSONError(c, err)
	}
	if count > 0 {
		return utils.JSONError(c, utils.InvalidRequest("game with name '"+req.Name+"' already exists"))
	}

	game.Name = req.Name
	game.Slug = slug.Make(req.Name)
	game.Description = req.Description
	game.WinPoint = req.WinPoint
	game.DrawPoint = req.DrawPoint
	game.LossPoint = req.LossPoint
	game.TeamGame = req.TeamGame
	if err := s.DB.Save(&game).Error; err != nil {
		return utils.JSONError(c, err)
	}
	return c.JSON(game)
}

// DeleteGame removes the game and everything hanging off it: matches, teams
// (with memberships), and per-player stats. One transaction.
func (s *GameService) DeleteGame(c *fiber.Ctx) error {
	gameID := c.Params("id")

	var game models.Game
	if err := s.DB.First(&game, "id = ?", gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.JSONError(c, utils.NotFound("game not found"))
		}
		return utils.JSONError(c, err)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", gameID).Delete(&models.Match{}).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			"DELETE FROM team_members WHERE team_id IN (SELECT id FROM teams WHERE game_id = ?)",
			gameID,
		).Error; err != nil {
			return err
		}
		if err := tx.Where("game_id = ?", gameID).Delete(&models.Team{}).Error; err != nil {
			return err
		}
		if err := tx.Where("game_id = ?", gameID).Delete(&models.PlayerGameStats{}).Error; err != nil {
			return err
		}
		return tx.Delete(&game).Error
	})
	if err != nil {
		return utils.JSONError(c, err)
	}
	return c.JSON(fiber.Map{"message": "game deleted"})
}

// SeedDefaultGames inserts the family's starter games on a fresh database.
func SeedDefaultGames(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Game{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	games := []models.Game{
		{ID: uuid.NewString(), Name: "Xiangqi", Slug: slug.Make("Xiangqi"),
			Description: "Traditional Chinese chess", WinPoint: 3, DrawPoint: 1, LossPoint: 0},
		{ID: uuid.NewString(), Name: "Billiards", Slug: slug.Make("Billiards"),
			Description: "Three-cushion carom or pool", WinPoint: 3, DrawPoint: 0, LossPoint: 0},
		{ID: uuid.NewString(), Name: "Table Tennis", Slug: slug.Make("Table Tennis"),
			Description: "Singles or doubles", WinPoint: 3, DrawPoint: 1, LossPoint: 0, TeamGame: true},
		{ID: uuid.NewString(), Name: "Chess", Slug: slug.Make("Chess"),
			Description: "International chess", WinPoint: 3, DrawPoint: 1, LossPoint: 0},
	}
	if err := db.Create(&games).Error; err != nil {
		return err
	}
	log.Printf("✅ Seeded %d games", len(games))
	return nil
}
