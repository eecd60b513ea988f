package services

import (
	"errors"
	"time"

	"family-ranking/middleware"
	"family-ranking/models"
	"family-ranking/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MatchService struct {
	DB *gorm.DB
}

func NewMatchService(db *gorm.DB) *MatchService {
	return &MatchService{DB: db}
}

// CreateMatchRequest is the payload for creating a match. Either OpponentID
// (1v1) or Team1ID/Team2ID (team match) is set, matching TeamMatch.
type CreateMatchRequest struct {
	GameID         string          `json:"game_id"`
	TeamMatch      bool            `json:"team_match"`
	OpponentID     string          `json:"opponent_id"`
	Team1ID        string          `json:"team1_id"`
	Team2ID        string          `json:"team2_id"`
	BetType        models.BetType  `json:"bet_type"`
	BetDescription string          `json:"bet_description"`
	Score1         *int            `json:"score1"`
	Score2         *int            `json:"score2"`
	WinnerID       *string         `json:"winner_id"`
}

// RankingEntry is one leaderboard row for a game.
type RankingEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
	Points   int    `json:"points"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Draws    int    `json:"draws"`
}

// ===== Core operations =====

// Create records a new match in PENDING, owned by creator. The opposing side
// later accepts (scoring it) or rejects it.
func (s *MatchService) Create(creator *models.User, req *CreateMatchRequest) (*models.Match, error) {
	var game models.Game
	if err := s.DB.First(&game, "id = ?", req.GameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("game not found")
		}
		return nil, err
	}

	if req.TeamMatch != game.TeamGame {
		if game.TeamGame {
			return nil, utils.InvalidRequest("this game is played team vs team")
		}
		return nil, utils.InvalidRequest("this game is played 1v1")
	}

	betType := req.BetType
	if betType == "" {
		betType = models.BetFriendly
	}
	if !models.ValidBetType(betType) {
		return nil, utils.InvalidRequest("unknown bet type")
	}

	match := &models.Match{
		ID:             uuid.NewString(),
		GameID:         game.ID,
		TeamMatch:      req.TeamMatch,
		BetType:        betType,
		BetDescription: req.BetDescription,
		Score1:         req.Score1,
		Score2:         req.Score2,
		WinnerID:       req.WinnerID,
		Status:         models.MatchPending,
		CreatedByID:    &creator.ID,
	}

	if req.TeamMatch {
		var team1, team2 models.Team
		if err := s.DB.Preload("Members").First(&team1, "id = ?", req.Team1ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.NotFound("team 1 not found")
			}
			return nil, err
		}
		if err := s.DB.Preload("Members").First(&team2, "id = ?", req.Team2ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.NotFound("team 2 not found")
			}
			return nil, err
		}
		match.Team1ID = &team1.ID
		match.Team2ID = &team2.ID
	} else {
		var opponent models.User
		if err := s.DB.First(&opponent, "id = ?", req.OpponentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.NotFound("opponent not found")
			}
			return nil, err
		}
		if opponent.ID == creator.ID {
			return nil, utils.InvalidRequest("you cannot create a match against yourself")
		}
		match.Player1ID = &creator.ID
		match.Player2ID = &opponent.ID
	}

	if err := s.DB.Create(match).Error; err != nil {
		return nil, err
	}
	return s.loadMatch(s.DB, match.ID)
}

// Accept confirms the result as the opposing side. The state transition and
// every statistic write commit as one transaction; a concurrent accept on the
// same match loses the guarded status update and fails with InvalidState, so
// scoring can never double-apply.
func (s *MatchService) Accept(actor *models.User, matchID string) (*models.Match, error) {
	var accepted *models.Match
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		match, err := s.loadMatch(tx, matchID)
		if err != nil {
			return err
		}
		if err := assertOpponent(actor, match); err != nil {
			return err
		}

		// Guarded transition: only the one caller that still observes
		// PENDING moves the match forward.
		res := tx.Model(&models.Match{}).
			Where("id = ? AND status = ?", match.ID, models.MatchPending).
			Updates(map[string]interface{}{
				"status":                       models.MatchCompleted,
				"result_confirmed_by_opponent": true,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.InvalidState("match is not in PENDING status")
		}

		if err := s.applyPoints(tx, match); err != nil {
			return err
		}

		match.Status = models.MatchCompleted
		match.ResultConfirmedByOpponent = true
		accepted = match
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accepted, nil
}

// Reject declines a pending match as the opposing side. No scoring happens.
func (s *MatchService) Reject(actor *models.User, matchID string) (*models.Match, error) {
	var rejected *models.Match
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		match, err := s.loadMatch(tx, matchID)
		if err != nil {
			return err
		}
		if err := assertOpponent(actor, match); err != nil {
			return err
		}

		res := tx.Model(&models.Match{}).
			Where("id = ? AND status = ?", match.ID, models.MatchPending).
			Update("status", models.MatchRejected)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.InvalidState("match is not in PENDING status")
		}

		match.Status = models.MatchRejected
		rejected = match
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}

// RequestSettlement marks the bet as paid. Only the loser sends it; on a draw
// nobody is the winner, so any participant may send it.
func (s *MatchService) RequestSettlement(actor *models.User, matchID string) (*models.Match, error) {
	match, err := s.loadMatch(s.DB, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != models.MatchCompleted {
		return nil, utils.InvalidState("match is not in COMPLETED status")
	}
	if isWinner(actor, match) {
		return nil, utils.Forbidden("only the loser sends the bet settlement")
	}
	if !match.Pairing().Participant(actor.ID) {
		return nil, utils.Forbidden("you are not a participant in this match")
	}

	now := time.Now()
	match.BetSettledRequested = true
	match.BetSettledRequestedAt = &now
	if err := s.DB.Model(&models.Match{}).Where("id = ?", match.ID).Updates(map[string]interface{}{
		"bet_settled_requested":    true,
		"bet_settled_requested_at": now,
	}).Error; err != nil {
		return nil, err
	}
	return match, nil
}

// ConfirmSettlement acknowledges receipt of the bet. Only the winner can
// confirm, and only after the loser has requested.
func (s *MatchService) ConfirmSettlement(actor *models.User, matchID string) (*models.Match, error) {
	match, err := s.loadMatch(s.DB, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != models.MatchCompleted {
		return nil, utils.InvalidState("match is not in COMPLETED status")
	}
	if !match.BetSettledRequested {
		return nil, utils.InvalidState("settlement not sent yet")
	}
	if !isWinner(actor, match) {
		return nil, utils.Forbidden("only the winner can confirm settlement")
	}

	match.BetSettledConfirmed = true
	if err := s.DB.Model(&models.Match{}).Where("id = ?", match.ID).
		Update("bet_settled_confirmed", true).Error; err != nil {
		return nil, err
	}
	return match, nil
}

// MatchesFor lists every match the user appears in, newest first. gameID
// optionally narrows the list to one game.
func (s *MatchService) MatchesFor(user *models.User, gameID string) ([]models.Match, error) {
	q := s.withAssociations(s.DB).
		Where("(player1_id = ? OR player2_id = ? OR created_by_id = ?)", user.ID, user.ID, user.ID)
	if gameID != "" {
		q = q.Where("game_id = ?", gameID)
	}

	var matches []models.Match
	if err := q.Order("created_at DESC").Find(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}

// Ranking projects the game's per-player stats into a leaderboard, points
// descending with user id as the deterministic tie-break.
func (s *MatchService) Ranking(gameID string) ([]RankingEntry, error) {
	var game models.Game
	if err := s.DB.First(&game, "id = ?", gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("game not found")
		}
		return nil, err
	}

	var stats []models.PlayerGameStats
	if err := s.DB.Preload("User").
		Where("game_id = ?", game.ID).
		Order("points DESC, user_id ASC").
		Find(&stats).Error; err != nil {
		return nil, err
	}

	entries := make([]RankingEntry, 0, len(stats))
	for i, st := range stats {
		entry := RankingEntry{
			Rank:   i + 1,
			UserID: st.UserID,
			Points: st.Points,
			Wins:   st.Wins,
			Losses: st.Losses,
			Draws:  st.Draws,
		}
		if st.User != nil {
			entry.Username = st.User.Username
			entry.Avatar = st.User.Avatar
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ===== Scoring engine =====

// applyPoints settles a completed match into per-game and global statistics.
// Runs exactly once, inside the accept transaction.
func (s *MatchService) applyPoints(tx *gorm.DB, match *models.Match) error {
	game := match.Game
	winnerID := determineWinnerID(match)

	switch p := match.Pairing().(type) {
	case models.Individual:
		switch {
		case winnerID == "":
			// draw, or no result data at all; both score the same
			if err := s.addStats(tx, p.Player1, game, game.DrawPoint, 0, 0, 1); err != nil {
				return err
			}
			return s.addStats(tx, p.Player2, game, game.DrawPoint, 0, 0, 1)
		case winnerID == p.Player1.ID:
			if err := s.addStats(tx, p.Player1, game, game.WinPoint, 1, 0, 0); err != nil {
				return err
			}
			return s.addStats(tx, p.Player2, game, game.LossPoint, 0, 1, 0)
		default:
			if err := s.addStats(tx, p.Player2, game, game.WinPoint, 1, 0, 0); err != nil {
				return err
			}
			return s.addStats(tx, p.Player1, game, game.LossPoint, 0, 1, 0)
		}
	case models.TeamVs:
		// No draw branch for team matches: when no winner resolves, team1
		// is scored as the loser. Kept as-is from the original rules.
		team1Wins := winnerID != "" && winnerID == p.Team1.ID
		for i := range p.Team1.Members {
			member := &p.Team1.Members[i]
			pts, w, l := game.LossPoint, 0, 1
			if team1Wins {
				pts, w, l = game.WinPoint, 1, 0
			}
			if err := s.addStats(tx, member, game, pts, w, l, 0); err != nil {
				return err
			}
		}
		for i := range p.Team2.Members {
			member := &p.Team2.Members[i]
			pts, w, l := game.WinPoint, 1, 0
			if team1Wins {
				pts, w, l = game.LossPoint, 0, 1
			}
			if err := s.addStats(tx, member, game, pts, w, l, 0); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

// addStats applies one delta to the user's per-game row (created lazily) and
// to the denormalized totals on the user record. Both writes run in the
// caller's transaction so they commit or fail together.
func (s *MatchService) addStats(tx *gorm.DB, user *models.User, game *models.Game, pts, wins, losses, draws int) error {
	var stats models.PlayerGameStats
	err := tx.Where("user_id = ? AND game_id = ?", user.ID, game.ID).First(&stats).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		stats = models.PlayerGameStats{
			ID:     uuid.NewString(),
			UserID: user.ID,
			GameID: game.ID,
			Points: pts,
			Wins:   wins,
			Losses: losses,
			Draws:  draws,
		}
		if err := tx.Create(&stats).Error; err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		stats.Points += pts
		stats.Wins += wins
		stats.Losses += losses
		stats.Draws += draws
		if err := tx.Save(&stats).Error; err != nil {
			return err
		}
	}

	return tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"total_points": gorm.Expr("total_points + ?", pts),
		"wins":         gorm.Expr("wins + ?", wins),
		"losses":       gorm.Expr("losses + ?", losses),
		"draws":        gorm.Expr("draws + ?", draws),
	}).Error
}

// ===== Role and winner predicates =====

// determineWinnerID resolves the winning side: explicit winner first, then
// score comparison, otherwise "" (draw or undetermined).
func determineWinnerID(m *models.Match) string {
	if m.WinnerID != nil && *m.WinnerID != "" {
		return *m.WinnerID
	}
	if m.Score1 == nil || m.Score2 == nil {
		return ""
	}
	switch p := m.Pairing().(type) {
	case models.Individual:
		if *m.Score1 > *m.Score2 {
			return p.Player1.ID
		}
		if *m.Score2 > *m.Score1 {
			return p.Player2.ID
		}
	case models.TeamVs:
		if *m.Score1 > *m.Score2 {
			return p.Team1.ID
		}
		if *m.Score2 > *m.Score1 {
			return p.Team2.ID
		}
	}
	return ""
}

// assertOpponent enforces who may accept or reject. 1v1: only player2. Team
// match: any member of either team, except the creator who submitted the
// result.
func assertOpponent(actor *models.User, m *models.Match) error {
	switch p := m.Pairing().(type) {
	case models.Individual:
		if p.Player2 == nil || p.Player2.ID != actor.ID {
			return utils.Forbidden("only the opponent can perform this action")
		}
	case models.TeamVs:
		if m.CreatedByID != nil && *m.CreatedByID == actor.ID {
			return utils.Forbidden("only the opponent can perform this action")
		}
		if !p.Participant(actor.ID) {
			return utils.Forbidden("only the opponent can perform this action")
		}
	}
	return nil
}

// isWinner reports whether the user is on the winning side. Always false for
// draws, which makes settlement a dead end for drawn bets: anyone may
// request, nobody can confirm.
func isWinner(user *models.User, m *models.Match) bool {
	winnerID := determineWinnerID(m)
	if winnerID == "" {
		return false
	}
	switch p := m.Pairing().(type) {
	case models.Individual:
		return winnerID == user.ID
	case models.TeamVs:
		if p.Team1 != nil && winnerID == p.Team1.ID {
			return p.Team1.HasMember(user.ID)
		}
		if p.Team2 != nil && winnerID == p.Team2.ID {
			return p.Team2.HasMember(user.ID)
		}
	}
	return false
}

// ===== Loading =====

func (s *MatchService) withAssociations(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Game").
		Preload("Player1").
		Preload("Player2").
		Preload("Team1.Members").
		Preload("Team2.Members").
		Preload("CreatedBy")
}

func (s *MatchService) loadMatch(tx *gorm.DB, matchID string) (*models.Match, error) {
	var match models.Match
	err := s.withAssociations(tx).First(&match, "id = ?", matchID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFound("match not found")
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// ===== HTTP handlers =====

func (s *MatchService) CreateMatch(c *fiber.Ctx) error {
	var req CreateMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	match, err := s.Create(middleware.CurrentUser(c), &req)
	if err != nil {
		return utils.JSONError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(match)
}

func (s *MatchService) AcceptMatch(c *fiber.Ctx) error {
	match, err := s.Accept(middleware.CurrentUser(c), c.Params("id"))
	if err != nil {
		return utils.JSONError(c, err)
	}
	return c.JSON(match)
}

func (s *MatchService) RejectMatch(c *fiber.Ctx) error {
	match, err := s.Reject(middleware.CurrentUser(c), c.Params("id"))
	if err != nil {
		return utils.JSONError(c, err)
	}
	return c.JSON(match)
}

func (s *MatchService) RequestBetSettlement(c *fiber.Ctx) error {
	match, err := s.RequestSettlement(middleware.CurrentUser(c), c.Params("id"))
	if err != nil {
		return utils.JSONError(c, err)
	}
	return c.JSON(match)
}

func (s *MatchService) ConfirmBetSettlement(c *fiber.Ctx) error {
	match, err := s.ConfirmSettlement(middleware.CurrentUser(c), c.Params("id"))
	if err != nil {
		return utils.JSONError(c, err)
	}
	return c.JSON(match)
}

func (s *MatchService) GetMyMatches(c *fiber.Ctx) error {
	matches, err := s.MatchesFor(middleware.CurrentUser(c), c.Query("game_id"))
	if err != nil {
		return utils.JSONError(c, err)
	}
	return c.JSON(matches)
}

func (s *MatchService) GetRanking(c *fiber.Ctx) error {
	gameID := c.Query("game_id")
	if gameID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "game_id is required"})
	}
	entries, err := s.Ranking(gameID)
	if err != nil {
		return utils.JSONError(c, err)
	}
	return c.JSON(entries)
}
