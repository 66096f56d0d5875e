package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"journalmate/internal/models"
	"journalmate/internal/services"
)

type JournalHandler struct {
	db     *sqlx.DB
	encSvc *services.EncryptionService
	logger *zap.Logger
}

func NewJournalHandler(db *sqlx.DB, encSvc *services.EncryptionService, logger *zap.Logger) *JournalHandler {
	return &JournalHandler{db: db, encSvc: encSvc, logger: logger}
}

type journalRequest struct {
	EntryDate      string   `json:"entry_date" validate:"required"` // YYYY-MM-DD
	Mood           string   `json:"mood" validate:"required,max=50"`
	Reflection     string   `json:"reflection"`
	CompletedTasks []string `json:"completed_tasks"`
	MissedTasks    []string `json:"missed_tasks"`
	Achievements   []string `json:"achievements"`
}

// UpsertEntry creates a new journal entry or updates the existing one for the
// same user and date.
func (h *JournalHandler) UpsertEntry(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	var req journalRequest
	if err := decodeValid(r, &req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	entryDate, err := parseDate(req.EntryDate)
	if err != nil {
		http.Error(w, "invalid entry_date format; expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	completed, _ := json.Marshal(orEmpty(req.CompletedTasks))
	missed, _ := json.Marshal(orEmpty(req.MissedTasks))
	achievements, _ := json.Marshal(orEmpty(req.Achievements))

	entry := models.JournalEntry{Reflection: req.Reflection}
	if err := h.encSvc.EncryptEntry(&entry); err != nil {
		http.Error(w, "could not encrypt reflection", http.StatusInternalServerError)
		return
	}

	var isInsert bool
	err = h.db.QueryRow(`INSERT INTO journal_entries (user_id, entry_date, mood, reflection, completed_tasks, missed_tasks, achievements, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (user_id, entry_date)
		DO UPDATE SET
		  mood = EXCLUDED.mood,
		  reflection = EXCLUDED.reflection,
		  completed_tasks = EXCLUDED.completed_tasks,
		  missed_tasks = EXCLUDED.missed_tasks,
		  achievements = EXCLUDED.achievements,
		  updated_at = NOW()
		RETURNING (xmax = 0)`,
		userID, entryDate, req.Mood, entry.Reflection, completed, missed, achievements).Scan(&isInsert)
	if err != nil {
		http.Error(w, "could not save", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Entry saved successfully",
		"entry_date": toDateString(entryDate),
		"is_update":  !isInsert,
	})
}

func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	q := r.URL.Query()

	where := "WHERE user_id=$1"
	args := []interface{}{userID}

	if startDateStr := q.Get("start_date"); startDateStr != "" {
		startDate, err := parseDate(startDateStr)
		if err != nil {
			http.Error(w, "invalid start_date format; expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		args = append(args, startDate)
		where += fmt.Sprintf(" AND entry_date >= $%d", len(args))
	}
	if endDateStr := q.Get("end_date"); endDateStr != "" {
		endDate, err := parseDate(endDateStr)
		if err != nil {
			http.Error(w, "invalid end_date format; expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		args = append(args, endDate)
		where += fmt.Sprintf(" AND entry_date <= $%d", len(args))
	}

	var entries []models.JournalEntry
	err := h.db.Select(&entries, `SELECT id, user_id, entry_date, mood, reflection, completed_tasks, missed_tasks, achievements, created_at, updated_at
		FROM journal_entries `+where+` ORDER BY entry_date DESC LIMIT 100`, args...)
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}

	for i := range entries {
		// Rows written before the key was configured fail to decrypt; they
		// are returned as stored rather than dropped.
		if err := h.encSvc.DecryptEntry(&entries[i]); err != nil {
			h.logger.Warn("could not decrypt reflection",
				zap.Int("entry_id", entries[i].ID), zap.Error(err))
		}
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Delete removes a journal entry for the authenticated user by entry_date.
func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	var body struct {
		EntryDate string `json:"entry_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.EntryDate == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	entryDate, err := parseDate(body.EntryDate)
	if err != nil {
		http.Error(w, "invalid entry_date format; expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	res, err := h.db.Exec(`DELETE FROM journal_entries WHERE user_id=$1 AND entry_date=$2`, userID, entryDate)
	if err != nil {
		http.Error(w, "could not delete", http.StatusInternalServerError)
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
