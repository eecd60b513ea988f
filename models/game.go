package models

import "time"

// Game defines how a single family competition is scored. Point values are
// read at scoring time, never copied into the match, so editing a game
// changes how future matches are settled.
type Game struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Slug        string `gorm:"index" json:"slug"`
	Description string `json:"description"`

	WinPoint  int `json:"win_point" gorm:"default:3"`
	DrawPoint int `json:"draw_point" gorm:"default:1"`
	LossPoint int `json:"loss_point" gorm:"default:0"`

	// TeamGame marks games played team-vs-team instead of 1v1.
	TeamGame bool `json:"team_game" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
