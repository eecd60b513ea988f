package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"family-ranking/models"
	"family-ranking/services"
	"family-ranking/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, utils.InitJWT())

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Game{},
		&models.Team{},
		&models.PlayerGameStats{},
		&models.Match{},
	))

	app := fiber.New()
	SetupAuthRoutes(app, services.NewAuthService(db))
	SetupUserRoutes(app, db, services.NewUserService(db))
	SetupGameRoutes(app, db, services.NewGameService(db))
	SetupTeamRoutes(app, db, services.NewTeamService(db))
	SetupMatchRoutes(app, db, services.NewMatchService(db))
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func registerUser(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/auth/register", "", fiber.Map{
		"username": username,
		"email":    username + "@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAuthAndMatchFlow(t *testing.T) {
	app, db := newTestApp(t)

	aliceToken := registerUser(t, app, "alice")
	bobToken := registerUser(t, app, "bob")

	// duplicate username is rejected
	resp, _ := doJSON(t, app, "POST", "/auth/register", "", fiber.Map{
		"username": "alice", "email": "other@example.com", "password": "x",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// login round-trip
	resp, body := doJSON(t, app, "POST", "/auth/login", "", fiber.Map{
		"username": "alice", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, body["token"])

	resp, _ = doJSON(t, app, "POST", "/auth/login", "", fiber.Map{
		"username": "alice", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// secured routes reject missing tokens
	resp, _ = doJSON(t, app, "GET", "/matches/my", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// a game created over the API
	resp, game := doJSON(t, app, "POST", "/games", aliceToken, fiber.Map{
		"name": "Chess", "win_point": 3, "draw_point": 1, "loss_point": 0,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "chess", game["slug"])

	var bob models.User
	require.NoError(t, db.First(&bob, "username = ?", "bob").Error)

	// alice challenges bob
	resp, match := doJSON(t, app, "POST", "/matches/create", aliceToken, fiber.Map{
		"game_id":     game["id"],
		"opponent_id": bob.ID,
		"score1":      5,
		"score2":      2,
		"bet_type":    "STAKE",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "PENDING", match["status"])

	matchID, _ := match["id"].(string)
	require.NotEmpty(t, matchID)
	uuidLike(t, matchID)

	// alice cannot accept her own challenge
	resp, _ = doJSON(t, app, "POST", "/matches/"+matchID+"/accept", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, accepted := doJSON(t, app, "POST", "/matches/"+matchID+"/accept", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "COMPLETED", accepted["status"])

	// losing side requests settlement, winner confirms
	resp, _ = doJSON(t, app, "POST", "/matches/"+matchID+"/settle-request", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, settled := doJSON(t, app, "POST", "/matches/"+matchID+"/settle-confirm", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, settled["bet_settled_confirmed"])

	// ranking reflects the scored match
	req := httptest.NewRequest("GET", "/matches/ranking?game_id="+game["id"].(string), nil)
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	rankResp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rankResp.StatusCode)

	var entries []services.RankingEntry
	require.NoError(t, json.NewDecoder(rankResp.Body).Decode(&entries))
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "alice", entries[0].Username)
	assert.Equal(t, 3, entries[0].Points)
}

func TestProfileUpdate(t *testing.T) {
	app, _ := newTestApp(t)

	aliceToken := registerUser(t, app, "alice")
	registerUser(t, app, "bob")

	resp, me := doJSON(t, app, "GET", "/users/me", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", me["username"])
	assert.Nil(t, me["password"])

	// taken username is rejected
	resp, _ = doJSON(t, app, "PUT", "/users/profile", aliceToken, fiber.Map{"username": "bob"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, updated := doJSON(t, app, "PUT", "/users/profile", aliceToken, fiber.Map{
		"username": "alice2",
		"avatar":   "https://cdn.example.com/a.png",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice2", updated["username"])
	assert.Equal(t, "https://cdn.example.com/a.png", updated["avatar"])
}

func TestAdminRoutesDisabledWithoutToken(t *testing.T) {
	app, _ := newTestApp(t)

	aliceToken := registerUser(t, app, "alice")

	resp, _ := doJSON(t, app, "POST", "/users", aliceToken, fiber.Map{
		"username": "eve", "email": "eve@example.com", "password": "pw",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDeleteGameCascades(t *testing.T) {
	app, db := newTestApp(t)

	aliceToken := registerUser(t, app, "alice")
	registerUser(t, app, "bob")

	resp, game := doJSON(t, app, "POST", "/games", aliceToken, fiber.Map{
		"name": "Billiards", "win_point": 3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	gameID := game["id"].(string)

	var bob models.User
	require.NoError(t, db.First(&bob, "username = ?", "bob").Error)

	resp, match := doJSON(t, app, "POST", "/matches/create", aliceToken, fiber.Map{
		"game_id": gameID, "opponent_id": bob.ID, "score1": 1, "score2": 0,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	bobToken := loginUser(t, app, "bob")
	resp, _ = doJSON(t, app, "POST", "/matches/"+match["id"].(string)+"/accept", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "DELETE", "/games/"+gameID, aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var matchCount, statsCount, gameCount int64
	require.NoError(t, db.Model(&models.Match{}).Where("game_id = ?", gameID).Count(&matchCount).Error)
	require.NoError(t, db.Model(&models.PlayerGameStats{}).Where("game_id = ?", gameID).Count(&statsCount).Error)
	require.NoError(t, db.Model(&models.Game{}).Where("id = ?", gameID).Count(&gameCount).Error)
	assert.Zero(t, matchCount)
	assert.Zero(t, statsCount)
	assert.Zero(t, gameCount)
}

func loginUser(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/auth/login", "", fiber.Map{
		"username": username, "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func uuidLike(t *testing.T, s string) {
	t.Helper()
	_, err := uuid.Parse(s)
	assert.NoError(t, err)
}
