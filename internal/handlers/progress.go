package handlers

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"journalmate/internal/cache"
	"journalmate/internal/models"
)

type ProgressHandler struct {
	db    *sqlx.DB
	cache *cache.Cache
}

func NewProgressHandler(db *sqlx.DB, c *cache.Cache) *ProgressHandler {
	return &ProgressHandler{db: db, cache: c}
}

type summaryResponse struct {
	Today     int `json:"today"`
	ThisWeek  int `json:"thisWeek"`
	ThisMonth int `json:"thisMonth"`
}

// GetSummary returns completed-task counts for today, this week, and this
// month, served from cache when warm.
func (h *ProgressHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	var res summaryResponse
	key := cache.ProgressKey(userID, "summary")
	if err := h.cache.Get(r.Context(), key, &res); err == nil {
		writeJSON(w, http.StatusOK, res)
		return
	}

	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	_ = h.db.Get(&res.Today, `SELECT COALESCE(SUM(completed_count),0) FROM progress_stats WHERE user_id=$1 AND stat_date=$2`, userID, today)
	_ = h.db.Get(&res.ThisWeek, `SELECT COALESCE(SUM(completed_count),0) FROM progress_stats WHERE user_id=$1 AND stat_date >= $2`, userID, weekStart(today))
	_ = h.db.Get(&res.ThisMonth, `SELECT COALESCE(SUM(completed_count),0) FROM progress_stats WHERE user_id=$1 AND stat_date >= $2`, userID, monthStart)

	_ = h.cache.Set(r.Context(), key, res)
	writeJSON(w, http.StatusOK, res)
}

// weekStart returns the Monday of day's week, matching date_trunc('week')
// used by the dashboard aggregates.
func weekStart(day time.Time) time.Time {
	return day.AddDate(0, 0, -((int(day.Weekday()) + 6) % 7))
}

// GetDaily returns the last 30 rollup rows.
func (h *ProgressHandler) GetDaily(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	rows := []models.ProgressStats{}
	err := h.db.Select(&rows, `SELECT id, user_id, stat_date, completed_count, total_count, category_breakdown, updated_at
		FROM progress_stats WHERE user_id=$1 ORDER BY stat_date DESC LIMIT 30`, userID)
	if err != nil {
		http.Error(w, "could not fetch report", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
