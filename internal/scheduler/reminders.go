package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"journalmate/internal/notify"
)

type dueReminder struct {
	ID              int        `db:"id"`
	TaskID          int        `db:"task_id"`
	UserID          int        `db:"user_id"`
	RemindAt        time.Time  `db:"remind_at"`
	Message         string     `db:"message"`
	TaskTitle       string     `db:"task_title"`
	Enabled         *bool      `db:"enabled"`
	QuietHoursStart *string    `db:"quiet_hours_start"`
	QuietHoursEnd   *string    `db:"quiet_hours_end"`
}

// SweepReminders publishes every due, unsent reminder and marks it sent.
// Reminders inside the user's quiet hours are left unsent for a later sweep;
// reminders for users who disabled notifications are marked sent without
// publishing. A failed publish also stays unsent for the next sweep — there
// is deliberately no retry bookkeeping beyond that.
func (s *Scheduler) SweepReminders(ctx context.Context) (int, error) {
	var due []dueReminder
	err := s.db.SelectContext(ctx, &due, `
		SELECT r.id, r.task_id, r.user_id, r.remind_at, r.message,
		       t.title AS task_title,
		       p.enabled, p.quiet_hours_start, p.quiet_hours_end
		FROM task_reminders r
		JOIN tasks t ON t.id = r.task_id
		LEFT JOIN notification_preferences p ON p.user_id = r.user_id
		WHERE NOT r.sent AND r.remind_at <= NOW()
		ORDER BY r.remind_at
		LIMIT 200`)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	sent := 0
	for _, r := range due {
		if r.Enabled != nil && !*r.Enabled {
			if err := s.markSent(ctx, r.ID); err != nil {
				s.logger.Error("could not suppress reminder", zap.Int("reminder_id", r.ID), zap.Error(err))
			}
			continue
		}
		if inQuietHours(now, r.QuietHoursStart, r.QuietHoursEnd) {
			continue
		}

		event := notify.Event{
			ReminderID: r.ID,
			UserID:     r.UserID,
			TaskID:     r.TaskID,
			TaskTitle:  r.TaskTitle,
			Message:    r.Message,
			RemindAt:   r.RemindAt,
		}
		if err := s.notifier.Publish(ctx, event); err != nil {
			s.logger.Error("could not publish reminder", zap.Int("reminder_id", r.ID), zap.Error(err))
			continue
		}
		if err := s.markSent(ctx, r.ID); err != nil {
			s.logger.Error("could not mark reminder sent", zap.Int("reminder_id", r.ID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *Scheduler) markSent(ctx context.Context, reminderID int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE task_reminders SET sent = true, sent_at = NOW() WHERE id = $1`, reminderID)
	return err
}

// inQuietHours reports whether the clock time of now falls inside the
// [start, end) window. A window crossing midnight (22:00-07:00) works too.
// Missing or malformed bounds mean no quiet hours.
func inQuietHours(now time.Time, start, end *string) bool {
	if start == nil || end == nil || *start == "" || *end == "" {
		return false
	}
	st, err := time.Parse("15:04", *start)
	if err != nil {
		return false
	}
	en, err := time.Parse("15:04", *end)
	if err != nil {
		return false
	}

	cur := now.Hour()*60 + now.Minute()
	s := st.Hour()*60 + st.Minute()
	e := en.Hour()*60 + en.Minute()

	if s == e {
		return false
	}
	if s < e {
		return cur >= s && cur < e
	}
	return cur >= s || cur < e
}
