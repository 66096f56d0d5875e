package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"journalmate/internal/models"
	"journalmate/internal/suggest"
)

type SuggestionHandler struct {
	db *sqlx.DB
}

func NewSuggestionHandler(db *sqlx.DB) *SuggestionHandler {
	return &SuggestionHandler{db: db}
}

const suggestionColumns = `id, user_id, task_id, suggestion_date, score, reason, accepted, accepted_at, created_at`

// List returns the caller's suggestions for a day (default today), best first.
func (h *SuggestionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	day := time.Now().UTC().Truncate(24 * time.Hour)
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		var err error
		day, err = parseDate(dateStr)
		if err != nil {
			http.Error(w, "invalid date format; expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}

	suggestions := []models.SchedulingSuggestion{}
	err := h.db.Select(&suggestions, `SELECT `+suggestionColumns+` FROM scheduling_suggestions
		WHERE user_id=$1 AND suggestion_date=$2 ORDER BY score DESC`, userID, day)
	if err != nil {
		http.Error(w, "could not fetch suggestions", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

// Generate recomputes today's suggestion list on demand.
func (h *SuggestionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	day := time.Now().UTC().Truncate(24 * time.Hour)

	suggestions, err := suggest.Generate(r.Context(), h.db, userID, day)
	if err != nil {
		http.Error(w, "could not generate suggestions", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

// Accept stamps a suggestion accepted and schedules its task for the
// suggestion's day.
func (h *SuggestionHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	suggestionID, err := strconv.Atoi(chi.URLParam(r, "suggestionID"))
	if err != nil {
		http.Error(w, "invalid suggestion id", http.StatusBadRequest)
		return
	}

	var s models.SchedulingSuggestion
	err = h.db.QueryRowx(`UPDATE scheduling_suggestions
		SET accepted=true, accepted_at=COALESCE(accepted_at, NOW())
		WHERE id=$1 AND user_id=$2
		RETURNING `+suggestionColumns, suggestionID, userID).StructScan(&s)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	if _, err := h.db.Exec(`UPDATE tasks SET scheduled_date=$1, updated_at=NOW()
		WHERE id=$2 AND user_id=$3 AND deleted_at IS NULL`, s.SuggestionDate, s.TaskID, userID); err != nil {
		http.Error(w, "could not schedule task", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
