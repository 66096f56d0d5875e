package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"journalmate/internal/cache"
	"journalmate/internal/models"
	"journalmate/internal/stats"
)

type TaskHandler struct {
	db     *sqlx.DB
	cache  *cache.Cache
	logger *zap.Logger
}

func NewTaskHandler(db *sqlx.DB, c *cache.Cache, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{db: db, cache: c, logger: logger}
}

type taskRequest struct {
	Title               string  `json:"title" validate:"required,max=200"`
	Priority            string  `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate             *string `json:"due_date"`
	ScheduledDate       *string `json:"scheduled_date"`
	TimeEstimateMinutes *int    `json:"time_estimate_minutes" validate:"omitempty,gt=0"`
	CompletionValue     *int    `json:"completion_value" validate:"omitempty,gt=0"`
}

const taskColumns = `id, goal_id, user_id, title, priority, completed, completed_at, due_date,
	time_estimate_minutes, scheduled_date, completion_value, created_at, updated_at, deleted_at`

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	goalID, err := strconv.Atoi(chi.URLParam(r, "goalID"))
	if err != nil {
		http.Error(w, "invalid goal id", http.StatusBadRequest)
		return
	}

	var req taskRequest
	if err := decodeValid(r, &req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.Priority == "" {
		req.Priority = string(models.PriorityMedium)
	}
	dueDate, err := parseDatePtr(req.DueDate)
	if err != nil {
		http.Error(w, "invalid due_date; expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	schedDate, err := parseDatePtr(req.ScheduledDate)
	if err != nil {
		http.Error(w, "invalid scheduled_date; expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	// The goal must belong to the caller.
	var ownerOK bool
	if err := h.db.Get(&ownerOK, `SELECT EXISTS (SELECT 1 FROM goals WHERE id=$1 AND user_id=$2 AND deleted_at IS NULL)`, goalID, userID); err != nil || !ownerOK {
		http.Error(w, "goal not found", http.StatusNotFound)
		return
	}

	var t models.Task
	err = h.db.QueryRowx(`INSERT INTO tasks (goal_id, user_id, title, priority, due_date, scheduled_date, time_estimate_minutes, completion_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+taskColumns,
		goalID, userID, req.Title, req.Priority, dueDate, schedDate, req.TimeEstimateMinutes, req.CompletionValue).StructScan(&t)
	if err != nil {
		http.Error(w, "could not create task", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *TaskHandler) ListByGoal(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	goalID, err := strconv.Atoi(chi.URLParam(r, "goalID"))
	if err != nil {
		http.Error(w, "invalid goal id", http.StatusBadRequest)
		return
	}

	tasks := []models.Task{}
	err = h.db.Select(&tasks, `SELECT `+taskColumns+` FROM tasks
		WHERE goal_id=$1 AND user_id=$2 AND deleted_at IS NULL
		ORDER BY completed, due_date NULLS LAST, created_at`, goalID, userID)
	if err != nil {
		http.Error(w, "could not fetch tasks", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	taskID, err := strconv.Atoi(chi.URLParam(r, "taskID"))
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}

	var body struct {
		Title               *string `json:"title"`
		Priority            *string `json:"priority"`
		DueDate             *string `json:"due_date"`
		ScheduledDate       *string `json:"scheduled_date"`
		TimeEstimateMinutes *int    `json:"time_estimate_minutes"`
		CompletionValue     *int    `json:"completion_value"`
	}
	if err := decodeValid(r, &body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	setClauses := []string{"updated_at=NOW()"}
	args := []interface{}{}
	argIdx := 1
	if body.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title=$%d", argIdx))
		args = append(args, *body.Title)
		argIdx++
	}
	if body.Priority != nil {
		if !models.Priority(*body.Priority).Valid() {
			http.Error(w, "invalid priority", http.StatusBadRequest)
			return
		}
		setClauses = append(setClauses, fmt.Sprintf("priority=$%d", argIdx))
		args = append(args, *body.Priority)
		argIdx++
	}
	if body.DueDate != nil {
		if *body.DueDate == "" {
			setClauses = append(setClauses, "due_date=NULL")
		} else {
			d, err := parseDate(*body.DueDate)
			if err != nil {
				http.Error(w, "invalid due_date; expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			setClauses = append(setClauses, fmt.Sprintf("due_date=$%d", argIdx))
			args = append(args, d)
			argIdx++
		}
	}
	if body.ScheduledDate != nil {
		if *body.ScheduledDate == "" {
			setClauses = append(setClauses, "scheduled_date=NULL")
		} else {
			d, err := parseDate(*body.ScheduledDate)
			if err != nil {
				http.Error(w, "invalid scheduled_date; expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			setClauses = append(setClauses, fmt.Sprintf("scheduled_date=$%d", argIdx))
			args = append(args, d)
			argIdx++
		}
	}
	if body.TimeEstimateMinutes != nil {
		setClauses = append(setClauses, fmt.Sprintf("time_estimate_minutes=$%d", argIdx))
		args = append(args, *body.TimeEstimateMinutes)
		argIdx++
	}
	if body.CompletionValue != nil {
		setClauses = append(setClauses, fmt.Sprintf("completion_value=$%d", argIdx))
		args = append(args, *body.CompletionValue)
		argIdx++
	}

	query := "UPDATE tasks SET " + strings.Join(setClauses, ", ") +
		fmt.Sprintf(" WHERE id=$%d AND user_id=$%d AND deleted_at IS NULL", argIdx, argIdx+1)
	args = append(args, taskID, userID)
	res, err := h.db.Exec(query, args...)
	if err != nil {
		http.Error(w, "could not update", http.StatusInternalServerError)
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	taskID, err := strconv.Atoi(chi.URLParam(r, "taskID"))
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}

	res, err := h.db.Exec(`UPDATE tasks SET deleted_at=NOW() WHERE id=$1 AND user_id=$2 AND deleted_at IS NULL`, taskID, userID)
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

// Complete marks a task done and recomputes the day's progress rollup.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.setCompleted(w, r, true)
}

// Reopen clears the completed flag and recomputes the day's progress rollup.
func (h *TaskHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	h.setCompleted(w, r, false)
}

func (h *TaskHandler) setCompleted(w http.ResponseWriter, r *http.Request, completed bool) {
	userID := userIDFrom(r)
	taskID, err := strconv.Atoi(chi.URLParam(r, "taskID"))
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}

	var query string
	if completed {
		query = `UPDATE tasks SET completed=true, completed_at=NOW(), updated_at=NOW()
			WHERE id=$1 AND user_id=$2 AND deleted_at IS NULL RETURNING ` + taskColumns
	} else {
		query = `UPDATE tasks SET completed=false, completed_at=NULL, updated_at=NOW()
			WHERE id=$1 AND user_id=$2 AND deleted_at IS NULL RETURNING ` + taskColumns
	}

	var t models.Task
	if err := h.db.QueryRowx(query, taskID, userID).StructScan(&t); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	day := time.Now().UTC().Truncate(24 * time.Hour)
	if err := stats.Recompute(r.Context(), h.db, userID, day); err != nil {
		// The rollup is derived data; the toggle itself succeeded.
		h.logger.Error("could not recompute progress stats", zap.Int("user_id", userID), zap.Error(err))
	}
	_ = h.cache.DeletePattern(r.Context(), cache.ProgressPattern(userID))

	writeJSON(w, http.StatusOK, t)
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
