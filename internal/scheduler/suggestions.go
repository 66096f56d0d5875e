package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"journalmate/internal/suggest"
)

// defaultPlanningTime is used when a user never set a daily planning time.
const defaultPlanningTime = "08:00"

// RefreshSuggestions generates today's suggestion list for every user whose
// planning time has passed and who has open tasks but no suggestions yet.
func (s *Scheduler) RefreshSuggestions(ctx context.Context) error {
	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)

	type planUser struct {
		ID                int     `db:"id"`
		DailyPlanningTime *string `db:"daily_planning_time"`
	}
	var users []planUser
	err := s.db.SelectContext(ctx, &users, `
		SELECT u.id, p.daily_planning_time
		FROM users u
		LEFT JOIN notification_preferences p ON p.user_id = u.id
		WHERE EXISTS (
		    SELECT 1 FROM tasks t
		    WHERE t.user_id = u.id AND NOT t.completed AND t.deleted_at IS NULL
		)
		AND NOT EXISTS (
		    SELECT 1 FROM scheduling_suggestions sg
		    WHERE sg.user_id = u.id AND sg.suggestion_date = $1
		)`, today)
	if err != nil {
		return err
	}

	for _, u := range users {
		planAt := defaultPlanningTime
		if u.DailyPlanningTime != nil && *u.DailyPlanningTime != "" {
			planAt = *u.DailyPlanningTime
		}
		if !planningTimePassed(now, planAt) {
			continue
		}
		if _, err := suggest.Generate(ctx, s.db, u.ID, today); err != nil {
			s.logger.Error("could not generate suggestions", zap.Int("user_id", u.ID), zap.Error(err))
		}
	}
	return nil
}

func planningTimePassed(now time.Time, hhmm string) bool {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return true
	}
	return now.Hour()*60+now.Minute() >= t.Hour()*60+t.Minute()
}
