package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"journalmate/internal/models"
)

type ReminderHandler struct {
	db *sqlx.DB
}

func NewReminderHandler(db *sqlx.DB) *ReminderHandler {
	return &ReminderHandler{db: db}
}

const reminderColumns = `id, task_id, user_id, remind_at, message, sent, sent_at, created_at`

type reminderRequest struct {
	RemindAt time.Time `json:"remind_at" validate:"required"`
	Message  string    `json:"message" validate:"max=500"`
}

// Create schedules a one-shot reminder for one of the caller's tasks.
func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	taskID, err := strconv.Atoi(chi.URLParam(r, "taskID"))
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}

	var req reminderRequest
	if err := decodeValid(r, &req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.RemindAt.Before(time.Now()) {
		http.Error(w, "remind_at must be in the future", http.StatusBadRequest)
		return
	}

	var taskTitle string
	if err := h.db.Get(&taskTitle, `SELECT title FROM tasks WHERE id=$1 AND user_id=$2 AND deleted_at IS NULL`, taskID, userID); err != nil {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}
	if req.Message == "" {
		req.Message = "Reminder: " + taskTitle
	}

	var rem models.TaskReminder
	err = h.db.QueryRowx(`INSERT INTO task_reminders (task_id, user_id, remind_at, message)
		VALUES ($1, $2, $3, $4)
		RETURNING `+reminderColumns,
		taskID, userID, req.RemindAt.UTC(), req.Message).StructScan(&rem)
	if err != nil {
		http.Error(w, "could not create reminder", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, rem)
}

// List returns the caller's reminders, pending first.
func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	reminders := []models.TaskReminder{}
	err := h.db.Select(&reminders, `SELECT `+reminderColumns+` FROM task_reminders
		WHERE user_id=$1 ORDER BY sent, remind_at LIMIT 100`, userID)
	if err != nil {
		http.Error(w, "could not fetch reminders", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, reminders)
}

func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	reminderID, err := strconv.Atoi(chi.URLParam(r, "reminderID"))
	if err != nil {
		http.Error(w, "invalid reminder id", http.StatusBadRequest)
		return
	}

	res, err := h.db.Exec(`DELETE FROM task_reminders WHERE id=$1 AND user_id=$2`, reminderID, userID)
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
