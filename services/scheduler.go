package services

import (
	"log"
	"os"
	"strconv"
	"time"

	"family-ranking/models"

	"github.com/go-co-op/gocron/v2"
)

// StartReminderScheduler sweeps for matches stuck in PENDING and logs them so
// the opposing side can be nudged. PENDING_MATCH_MAX_AGE_DAYS overrides the
// default of 3 days.
func (s *MatchService) StartReminderScheduler() {
	maxAgeDays := 3
	if raw := os.Getenv("PENDING_MATCH_MAX_AGE_DAYS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			maxAgeDays = parsed
		}
	}

	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			cutoff := time.Now().AddDate(0, 0, -maxAgeDays)

			var stale []models.Match
			err := s.DB.Where("status = ? AND created_at <= ?", models.MatchPending, cutoff).
				Find(&stale).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}
			if len(stale) == 0 {
				return
			}

			log.Printf("⏰ %d match(es) pending for more than %d day(s)", len(stale), maxAgeDays)
			for _, m := range stale {
				log.Printf("[Scheduler] Match %s (game %s) still awaiting confirmation since %s",
					m.ID, m.GameID, m.CreatedAt.Format(time.RFC3339))
			}
		}),
	)
}
