package services

import (
	"errors"

	"family-ranking/models"
	"family-ranking/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthService struct {
	DB *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{DB: db}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *AuthService) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return utils.JSONError(c, utils.InvalidRequest("username, email and password are required"))
	}

	var count int64
	if err := s.DB.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		return utils.JSONError(c, err)
	}
	if count > 0 {
		return utils.JSONError(c, utils.InvalidRequest("username already taken"))
	}
	if err := s.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return utils.JSONError(c, err)
	}
	if count > 0 {
		return utils.JSONError(c, utils.InvalidRequest("email already registered"))
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return utils.JSONError(c, err)
	}

	user := models.User{
		ID:       uuid.NewString(),
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return utils.JSONError(c, err)
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		return utils.JSONError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":    token,
		"username": user.Username,
		"email":    user.Email,
	})
}

func (s *AuthService) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	var user models.User
	if err := s.DB.First(&user, "username = ?", req.Username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
		}
		return utils.JSONError(c, err)
	}

	ok, err := utils.CheckPassword(req.Password, user.Password)
	if err != nil || !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		return utils.JSONError(c, err)
	}
	return c.JSON(fiber.Map{
		"token":    token,
		"username": user.Username,
		"email":    user.Email,
	})
}
