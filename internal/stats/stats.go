// Package stats maintains the denormalized per-day progress rollup. The rows
// are recomputed from tasks on every completion toggle rather than
// incremented, so a missed write never leaves the rollup drifting.
package stats

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
)

type CategoryCount struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

type taskRow struct {
	Category  string `db:"category"`
	Completed bool   `db:"completed"`
}

// Breakdown folds task rows into overall and per-category counts.
func Breakdown(rows []taskRow) (completed, total int, byCategory map[string]CategoryCount) {
	byCategory = make(map[string]CategoryCount)
	for _, r := range rows {
		total++
		cc := byCategory[r.Category]
		cc.Total++
		if r.Completed {
			completed++
			cc.Completed++
		}
		byCategory[r.Category] = cc
	}
	return completed, total, byCategory
}

// Recompute rebuilds the progress_stats row for one user and day. A day's
// task set is whatever is due, scheduled, or was completed on that day.
func Recompute(ctx context.Context, db *sqlx.DB, userID int, day time.Time) error {
	var rows []taskRow
	err := db.SelectContext(ctx, &rows, `
		SELECT g.category, t.completed
		FROM tasks t
		JOIN goals g ON g.id = t.goal_id
		WHERE t.user_id = $1 AND t.deleted_at IS NULL
		  AND (t.due_date = $2 OR t.scheduled_date = $2
		       OR (t.completed AND t.completed_at::date = $2))`,
		userID, day)
	if err != nil {
		return err
	}

	completed, total, byCategory := Breakdown(rows)
	breakdown, err := json.Marshal(byCategory)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO progress_stats (user_id, stat_date, completed_count, total_count, category_breakdown, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id, stat_date)
		DO UPDATE SET
		  completed_count = EXCLUDED.completed_count,
		  total_count = EXCLUDED.total_count,
		  category_breakdown = EXCLUDED.category_breakdown,
		  updated_at = NOW()`,
		userID, day, completed, total, breakdown)
	return err
}
