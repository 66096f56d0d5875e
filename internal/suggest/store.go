package suggest

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"journalmate/internal/models"
)

// Generate recomputes the suggestion list for one user and day and upserts it
// into scheduling_suggestions. Accepted rows keep their accepted state; only
// score and reason move.
func Generate(ctx context.Context, db *sqlx.DB, userID int, day time.Time) ([]models.SchedulingSuggestion, error) {
	rows, err := db.QueryxContext(ctx, `
		SELECT id, title, priority, due_date, scheduled_date, time_estimate_minutes, created_at
		FROM tasks
		WHERE user_id = $1 AND NOT completed AND deleted_at IS NULL`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load open tasks: %w", err)
	}
	defer rows.Close()

	var cands []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.TaskID, &c.Title, &c.Priority, &c.DueDate, &c.ScheduledDate, &c.EstimateMinutes, &c.CreatedAt); err != nil {
			return nil, err
		}
		cands = append(cands, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ranked := Rank(cands, day, DefaultDayMinutes, DefaultLimit)

	out := make([]models.SchedulingSuggestion, 0, len(ranked))
	for _, r := range ranked {
		var s models.SchedulingSuggestion
		err := db.QueryRowxContext(ctx, `
			INSERT INTO scheduling_suggestions (user_id, task_id, suggestion_date, score, reason)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id, suggestion_date, task_id)
			DO UPDATE SET score = EXCLUDED.score, reason = EXCLUDED.reason
			RETURNING id, user_id, task_id, suggestion_date, score, reason, accepted, accepted_at, created_at`,
			userID, r.TaskID, day, r.Score, r.Reason).StructScan(&s)
		if err != nil {
			return nil, fmt.Errorf("failed to save suggestion: %w", err)
		}
		out = append(out, s)
	}
	return out, nil
}
