package workers

import (
	"context"
	"log"
	"time"

	"family-ranking/models"

	"gorm.io/gorm"
)

// StatsAuditor cross-checks the denormalized totals on each user against the
// sum of their per-game rows. The scoring path writes both inside one
// transaction, so any drift it finds means a bug or manual data edit.
type StatsAuditor struct {
	DB *gorm.DB
}

func NewStatsAuditor(db *gorm.DB) *StatsAuditor {
	return &StatsAuditor{DB: db}
}

type statsTotals struct {
	UserID string
	Points int
	Wins   int
	Losses int
	Draws  int
}

// AuditOnce returns the ids of users whose global aggregates disagree with
// their per-game stats. Read-only; drift is logged, never auto-repaired.
func (a *StatsAuditor) AuditOnce() ([]string, error) {
	var totals []statsTotals
	err := a.DB.Model(&models.PlayerGameStats{}).
		Select("user_id, SUM(points) AS points, SUM(wins) AS wins, SUM(losses) AS losses, SUM(draws) AS draws").
		Group("user_id").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	summed := make(map[string]statsTotals, len(totals))
	for _, t := range totals {
		summed[t.UserID] = t
	}

	var users []models.User
	if err := a.DB.Find(&users).Error; err != nil {
		return nil, err
	}

	var drifted []string
	for _, u := range users {
		t := summed[u.ID] // zero totals for users who never played
		if u.TotalPoints != t.Points || u.Wins != t.Wins || u.Losses != t.Losses || u.Draws != t.Draws {
			log.Printf("❌ [AUDIT] Aggregate drift for user %s (%s): user=%d/%d/%d/%d stats=%d/%d/%d/%d",
				u.ID, u.Username,
				u.TotalPoints, u.Wins, u.Losses, u.Draws,
				t.Points, t.Wins, t.Losses, t.Draws)
			drifted = append(drifted, u.ID)
		}
	}
	return drifted, nil
}

// Run audits on a fixed interval until ctx is cancelled.
func (a *StatsAuditor) Run(ctx context.Context, interval time.Duration) {
	log.Println("Starting stats audit worker...")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Stats audit worker stopped.")
			return
		case <-ticker.C:
			drifted, err := a.AuditOnce()
			if err != nil {
				log.Printf("❌ Error auditing stats: %v", err)
				continue
			}
			if len(drifted) == 0 {
				log.Println("✅ [AUDIT] User aggregates consistent with per-game stats")
			}
		}
	}
}
