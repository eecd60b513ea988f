package services

import (
	"errors"

	"family-ranking/models"
	"family-ranking/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeamService struct {
	DB *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{DB: db}
}

type teamRequest struct {
	Name      string   `json:"name"`
	GameID    string   `json:"game_id"`
	MemberIDs []string `json:"member_ids"`
}

func (s *TeamService) CreateTeam(c *fiber.Ctx) error {
	var req teamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Name == "" {
		return utils.JSONError(c, utils.InvalidRequest("name is required"))
	}

	var game models.Game
	if err := s.DB.First(&game, "id = ?", req.GameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.JSONError(c, utils.NotFound("game not found"))
		}
		return utils.JSONError(c, err)
	}

	members := make([]models.User, 0, len(req.MemberIDs))
	for _, memberID := range req.MemberIDs {
		var user models.User
		if err := s.DB.First(&user, "id = ?", memberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.JSONError(c, utils.NotFound("user not found: "+memberID))
			}
			return utils.JSONError(c, err)
		}
		members = append(members, user)
	}

	team := models.Team{
		ID:      uuid.NewString(),
		Name:    req.Name,
		GameID:  game.ID,
		Members: members,
	}
	if err := s.DB.Create(&team).Error; err != nil {
		return utils.JSONError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(team)
}

func (s *TeamService) GetTeams(c *fiber.Ctx) error {
	query := s.DB.Preload("Members")
	if gameID := c.Query("game_id"); gameID != "" {
		query = query.Where("game_id = ?", gameID)
	}

	var teams []models.Team
	if err := query.Order("name ASC").Find(&teams).Error; err != nil {
		return utils.JSONError(c, err)
	}
	return c.JSON(teams)
}
