package handlers

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
)

type DashboardHandler struct {
	db *sqlx.DB
}

func NewDashboardHandler(db *sqlx.DB) *DashboardHandler { return &DashboardHandler{db: db} }

type trendPoint struct {
	Date      string `json:"date"`
	Completed int    `json:"completed"`
}

type dashboardResponse struct {
	ReferenceDate      string       `json:"reference_date"`
	HasTodayEntry      bool         `json:"has_today_entry"`
	CompletedToday     int          `json:"completed_today"`
	CompletedThisWeek  int          `json:"completed_this_week"`
	CompletedThisMonth int          `json:"completed_this_month"`
	OpenTasks          int          `json:"open_tasks"`
	JournalStreakDays  int          `json:"journal_streak_days"`
	Last7DaysTrend     []trendPoint `json:"last7_days_trend"`
}

// Get aggregates the metrics powering the home dashboard.
// Accepts optional query param: date=YYYY-MM-DD to use as the user's "today".
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	refDateStr := r.URL.Query().Get("date")
	var refDate time.Time
	var err error
	if refDateStr == "" {
		if err = h.db.QueryRowx("SELECT CURRENT_DATE").Scan(&refDate); err != nil {
			http.Error(w, "could not determine current date", http.StatusInternalServerError)
			return
		}
	} else {
		refDate, err = parseDate(refDateStr)
		if err != nil {
			http.Error(w, "invalid date format; expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}

	// 1) Completion aggregates in a single query using FILTER.
	aggQuery := `
		SELECT
			COALESCE(SUM(completed_count) FILTER (WHERE stat_date = $2), 0) AS day_count,
			COALESCE(SUM(completed_count) FILTER (WHERE stat_date >= date_trunc('week', $2::timestamp)::date AND stat_date <= $2), 0) AS week_count,
			COALESCE(SUM(completed_count) FILTER (WHERE date_trunc('month', stat_date) = date_trunc('month', $2::date)), 0) AS month_count
		FROM progress_stats
		WHERE user_id = $1`

	var resp dashboardResponse
	if err := h.db.QueryRowx(aggQuery, userID, refDate).Scan(&resp.CompletedToday, &resp.CompletedThisWeek, &resp.CompletedThisMonth); err != nil {
		http.Error(w, "could not fetch aggregates", http.StatusInternalServerError)
		return
	}

	// 2) Open task count.
	if err := h.db.QueryRowx(`SELECT COUNT(*) FROM tasks WHERE user_id=$1 AND NOT completed AND deleted_at IS NULL`, userID).Scan(&resp.OpenTasks); err != nil {
		http.Error(w, "could not count open tasks", http.StatusInternalServerError)
		return
	}

	// 3) Journal entry on reference date.
	if err := h.db.QueryRowx(`SELECT EXISTS (SELECT 1 FROM journal_entries WHERE user_id=$1 AND entry_date=$2)`, userID, refDate).Scan(&resp.HasTodayEntry); err != nil {
		http.Error(w, "could not check today's entry", http.StatusInternalServerError)
		return
	}

	// 4) Journal streak: consecutive days with an entry ending at refDate.
	streakQuery := `
		WITH d AS (
			SELECT entry_date FROM journal_entries WHERE user_id=$1 AND entry_date <= $2
		), g AS (
			SELECT entry_date, entry_date - (ROW_NUMBER() OVER (ORDER BY entry_date))::int AS grp FROM d
		), c AS (
			SELECT COUNT(*) AS cnt, MAX(entry_date) AS maxd FROM g GROUP BY grp
		)
		SELECT COALESCE((SELECT cnt FROM c WHERE maxd = $2), 0)`
	if err := h.db.QueryRowx(streakQuery, userID, refDate).Scan(&resp.JournalStreakDays); err != nil {
		http.Error(w, "could not compute streak", http.StatusInternalServerError)
		return
	}

	// 5) Last 7 days of completions ending at refDate (inclusive).
	trendRows, err := h.db.Queryx(`
		SELECT d::date AS stat_date, COALESCE(s.completed_count, 0) AS completed
		FROM generate_series($2::date - INTERVAL '6 days', $2::date, INTERVAL '1 day') AS d
		LEFT JOIN progress_stats s ON s.user_id=$1 AND s.stat_date = d::date
		ORDER BY d`, userID, refDate)
	if err != nil {
		http.Error(w, "could not fetch trend", http.StatusInternalServerError)
		return
	}
	defer trendRows.Close()
	for trendRows.Next() {
		var d time.Time
		var c int
		if err := trendRows.Scan(&d, &c); err == nil {
			resp.Last7DaysTrend = append(resp.Last7DaysTrend, trendPoint{Date: toDateString(d), Completed: c})
		}
	}

	resp.ReferenceDate = toDateString(refDate)
	writeJSON(w, http.StatusOK, resp)
}
