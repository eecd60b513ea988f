package models

import "time"

type BetType string

const (
	BetFriendly BetType = "FRIENDLY"
	BetStake    BetType = "STAKE"
	BetOther    BetType = "OTHER"
)

// ValidBetType reports whether b is one of the known bet types.
func ValidBetType(b BetType) bool {
	switch b {
	case BetFriendly, BetStake, BetOther:
		return true
	}
	return false
}

type MatchStatus string

const (
	MatchPending MatchStatus = "PENDING"
	// MatchAccepted is only ever observed inside the accept transaction;
	// the persisted value after a successful accept is MatchCompleted.
	MatchAccepted  MatchStatus = "ACCEPTED"
	MatchRejected  MatchStatus = "REJECTED"
	MatchCompleted MatchStatus = "COMPLETED"
)

// Match records a single contest between two family members or two teams.
// Exactly one of (Player1, Player2) or (Team1, Team2) is populated,
// matching TeamMatch and the game's TeamGame flag.
type Match struct {
	ID     string `gorm:"primaryKey" json:"id"`
	GameID string `gorm:"index;not null" json:"game_id"`
	Game   *Game  `json:"game,omitempty" gorm:"foreignKey:GameID"`

	TeamMatch bool `json:"team_match" gorm:"default:false"`

	// 1v1
	Player1ID *string `gorm:"index" json:"player1_id,omitempty"`
	Player1   *User   `json:"player1,omitempty" gorm:"foreignKey:Player1ID"`
	Player2ID *string `gorm:"index" json:"player2_id,omitempty"`
	Player2   *User   `json:"player2,omitempty" gorm:"foreignKey:Player2ID"`

	// Team match
	Team1ID *string `gorm:"index" json:"team1_id,omitempty"`
	Team1   *Team   `json:"team1,omitempty" gorm:"foreignKey:Team1ID"`
	Team2ID *string `gorm:"index" json:"team2_id,omitempty"`
	Team2   *Team   `json:"team2,omitempty" gorm:"foreignKey:Team2ID"`

	BetType        BetType `json:"bet_type" gorm:"type:varchar(16);default:'FRIENDLY'"`
	BetDescription string  `json:"bet_description,omitempty"`

	Score1 *int `json:"score1,omitempty"`
	Score2 *int `json:"score2,omitempty"`

	// WinnerID holds a user id for 1v1 matches and a team id for team
	// matches. nil means draw or undetermined.
	WinnerID *string `json:"winner_id,omitempty"`

	Status                    MatchStatus `json:"status" gorm:"type:varchar(16);default:'PENDING';index"`
	ResultConfirmedByOpponent bool        `json:"result_confirmed_by_opponent" gorm:"default:false"`

	BetSettledRequested   bool       `json:"bet_settled_requested" gorm:"default:false"`
	BetSettledRequestedAt *time.Time `json:"bet_settled_requested_at,omitempty"`
	BetSettledConfirmed   bool       `json:"bet_settled_confirmed" gorm:"default:false"`

	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	CreatedByID *string   `gorm:"index" json:"created_by_id,omitempty"`
	CreatedBy   *User     `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID"`
}

// Pairing is the populated side of a match: Individual for 1v1 matches,
// TeamVs for team matches. Permission and winner predicates branch on the
// concrete type instead of re-checking the TeamMatch flag everywhere.
type Pairing interface {
	// Participant reports whether the user plays in the match.
	Participant(userID string) bool
}

// Individual is the 1v1 pairing.
type Individual struct {
	Player1 *User
	Player2 *User
}

func (p Individual) Participant(userID string) bool {
	return (p.Player1 != nil && p.Player1.ID == userID) ||
		(p.Player2 != nil && p.Player2.ID == userID)
}

// TeamVs is the team-vs-team pairing.
type TeamVs struct {
	Team1 *Team
	Team2 *Team
}

func (p TeamVs) Participant(userID string) bool {
	return p.Team1.HasMember(userID) || p.Team2.HasMember(userID)
}

// Pairing returns the match's populated side. Associations must be loaded.
func (m *Match) Pairing() Pairing {
	if m.TeamMatch {
		return TeamVs{Team1: m.Team1, Team2: m.Team2}
	}
	return Individual{Player1: m.Player1, Player2: m.Player2}
}
