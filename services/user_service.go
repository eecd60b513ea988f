package services

import (
	"errors"
	"path/filepath"

	"family-ranking/middleware"
	"family-ranking/models"
	"family-ranking/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

func (s *UserService) GetAllUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := s.DB.Order("username ASC").Find(&users).Error; err != nil {
		return utils.JSONError(c, err)
	}
	return c.JSON(users)
}

func (s *UserService) GetMe(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}

type profileUpdateRequest struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

func (s *UserService) UpdateProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req profileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}
	if req.Username != "" && req.Username != user.Username {
		var count int64
		if err := s.DB.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
			return utils.JSONError(c, err)
		}
		if count > 0 {
			return utils.JSONError(c, utils.InvalidRequest("username already taken"))
		}
		user.Username = req.Username
	}

	if err := s.DB.Save(user).Error; err != nil {
		return utils.JSONError(c, err)
	}
	return c.JSON(user)
}

// UploadAvatar stores the avatar image on R2 when configured, otherwise under
// the local uploads directory, then saves the public URL on the profile.
func (s *UserService) UploadAvatar(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	avatarFile, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is required"})
	}
	if avatarFile.Size > 5*1024*1024 { // 5MB
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file too large (max 5MB)"})
	}

	ext := filepath.Ext(avatarFile.Filename)
	if ext == "" {
		ext = ".png"
	}

	var avatarURL string
	if utils.R2Enabled() {
		key := "avatars/" + uuid.NewString() + ext
		avatarURL, err = utils.UploadFileToR2(avatarFile, key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": "failed to upload avatar"})
		}
	} else {
		localPath := utils.GetUploadPath("avatars/" + uuid.NewString() + ext)
		if err := utils.SaveFile(avatarFile, localPath); err != nil {
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": "failed to save avatar"})
		}
		avatarURL = "/" + localPath
	}

	user.Avatar = avatarURL
	if err := s.DB.Save(user).Error; err != nil {
		return utils.JSONError(c, err)
	}
	return c.JSON(user)
}

// ===== Admin user management =====

type adminUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *UserService) AdminCreateUser(c *fiber.Ctx) error {
	var req adminUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return utils.JSONError(c, utils.InvalidRequest("username, email and password are required"))
	}

	if taken, err := s.usernameTaken(req.Username, ""); err != nil {
		return utils.JSONError(c, err)
	} else if taken {
		return utils.JSONError(c, utils.InvalidRequest("username already taken"))
	}
	if taken, err := s.emailTaken(req.Email, ""); err != nil {
		return utils.JSONError(c, err)
	} else if taken {
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
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (s *UserService) AdminUpdateUser(c *fiber.Ctx) error {
	var user models.User
	if err := s.DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.JSONError(c, utils.NotFound("user not found"))
		}
		return utils.JSONError(c, err)
	}

	var req adminUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Username != "" && req.Username != user.Username {
		if taken, err := s.usernameTaken(req.Username, user.ID); err != nil {
			return utils.JSONError(c, err)
		} else if taken {
			return utils.JSONError(c, utils.InvalidRequest("username already taken"))
		}
		user.Username = req.Username
	}
	if req.Email != "" && req.Email != user.Email {
		if taken, err := s.emailTaken(req.Email, user.ID); err != nil {
			return utils.JSONError(c, err)
		} else if taken {
			return utils.JSONError(c, utils.InvalidRequest("email already registered"))
		}
		user.Email = req.Email
	}
	if req.Password != "" {
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			return utils.JSONError(c, err)
		}
		user.Password = hash
	}

	if err := s.DB.Save(&user).Error; err != nil {
		return utils.JSONError(c, err)
	}
	return c.JSON(user)
}

// AdminDeleteUser removes the user together with their matches, team
// memberships and per-game stats. One transaction.
func (s *UserService) AdminDeleteUser(c *fiber.Ctx) error {
	userID := c.Params("id")

	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.JSONError(c, utils.NotFound("user not found"))
		}
		return utils.JSONError(c, err)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("player1_id = ? OR player2_id = ? OR created_by_id = ?",
			userID, userID, userID).Delete(&models.Match{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM team_members WHERE user_id = ?", userID).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.PlayerGameStats{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return utils.JSONError(c, err)
	}
	return c.JSON(fiber.Map{"message": "user deleted"})
}

func (s *UserService) usernameTaken(username, excludeID string) (bool, error) {
	query := s.DB.Model(&models.User{}).Where("username = ?", username)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *UserService) emailTaken(email, excludeID string) (bool, error) {
	query := s.DB.Model(&models.User{}).Where("email = ?", email)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
