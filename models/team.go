package models

import "time"

// Team belongs to exactly one game and groups the users who play on it.
type Team struct {
	ID     string `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"not null" json:"name"`
	GameID string `gorm:"index;not null" json:"game_id"`
	Game   *Game  `json:"-" gorm:"foreignKey:GameID"`

	Members []User `json:"members" gorm:"many2many:team_members"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// HasMember reports whether the user plays on this team.
func (t *Team) HasMember(userID string) bool {
	if t == nil {
		return false
	}
	for _, m := range t.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}
