package models

import (
	"time"
)

// User is a family member. The four aggregate counters are denormalized
// totals across every game and are only ever written by the match scoring
// path, inside the same transaction as the per-game rows.
type User struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Avatar   string `json:"avatar,omitempty"`

	TotalPoints int `json:"total_points" gorm:"default:0"`
	Wins        int `json:"wins" gorm:"default:0"`
	Losses      int `json:"losses" gorm:"default:0"`
	Draws       int `json:"draws" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
