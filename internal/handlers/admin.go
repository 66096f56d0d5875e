package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"journalmate/internal/stats"
)

type AdminHandler struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewAdminHandler(db *sqlx.DB, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{db: db, logger: logger}
}

type adminOverview struct {
	TotalUsers          int `json:"total_users"`
	TotalGoals          int `json:"total_goals"`
	TotalJournalEntries int `json:"total_journal_entries"`
	ActiveUsersThisWeek int `json:"active_users_this_week"`
	PublicPlans         int `json:"public_plans"`
	RemindersPending    int `json:"reminders_pending"`
}

func (h *AdminHandler) mustBeAdmin(userID int) (bool, error) {
	var isAdmin bool
	if err := h.db.QueryRowx(`SELECT is_admin FROM users WHERE id=$1`, userID).Scan(&isAdmin); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return isAdmin, nil
}

// Overview returns administrative statistics (admin only).
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if ok, err := h.mustBeAdmin(userID); err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	} else if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var out adminOverview
	queries := []struct {
		dest  *int
		query string
	}{
		{&out.TotalUsers, `SELECT COUNT(*) FROM users`},
		{&out.TotalGoals, `SELECT COUNT(*) FROM goals WHERE deleted_at IS NULL`},
		{&out.TotalJournalEntries, `SELECT COUNT(*) FROM journal_entries`},
		{&out.ActiveUsersThisWeek, `SELECT COUNT(DISTINCT user_id) FROM journal_entries WHERE entry_date >= date_trunc('week', CURRENT_DATE) AND entry_date <= CURRENT_DATE`},
		{&out.PublicPlans, `SELECT COUNT(*) FROM goals WHERE is_public AND deleted_at IS NULL`},
		{&out.RemindersPending, `SELECT COUNT(*) FROM task_reminders WHERE NOT sent`},
	}
	for _, q := range queries {
		if err := h.db.QueryRowx(q.query).Scan(q.dest); err != nil {
			http.Error(w, "server error", http.StatusInternalServerError)
			return
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// RecomputeStats rebuilds today's progress rollup for every user. Run after
// manual data fixes; the rollup is otherwise maintained on write.
func (h *AdminHandler) RecomputeStats(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if ok, err := h.mustBeAdmin(userID); err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	} else if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var userIDs []int
	if err := h.db.Select(&userIDs, `SELECT id FROM users`); err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	day := time.Now().UTC().Truncate(24 * time.Hour)
	recomputed := 0
	for _, id := range userIDs {
		if err := stats.Recompute(r.Context(), h.db, id, day); err != nil {
			h.logger.Error("recompute failed", zap.Int("user_id", id), zap.Error(err))
			continue
		}
		recomputed++
	}
	writeJSON(w, http.StatusOK, map[string]int{"recomputed": recomputed})
}
