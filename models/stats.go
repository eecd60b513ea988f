package models

// PlayerGameStats is the per-(user, game) running total. One row per pair,
// created lazily the first time a completed match scores that pair.
type PlayerGameStats struct {
	ID     string `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"uniqueIndex:idx_player_game;not null" json:"user_id"`
	GameID string `gorm:"uniqueIndex:idx_player_game;not null" json:"game_id"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Game *Game `json:"-" gorm:"foreignKey:GameID"`

	Points int `json:"points" gorm:"default:0"`
	Wins   int `json:"wins" gorm:"default:0"`
	Losses int `json:"losses" gorm:"default:0"`
	Draws  int `json:"draws" gorm:"default:0"`
}
