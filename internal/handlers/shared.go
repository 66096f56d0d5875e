package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"journalmate/internal/models"
)

// SharedHandler serves the group-scoped goals and tasks. Every operation
// checks membership through the embedded group handler helpers.
type SharedHandler struct {
	db     *sqlx.DB
	groups *GroupHandler
}

func NewSharedHandler(db *sqlx.DB, groups *GroupHandler) *SharedHandler {
	return &SharedHandler{db: db, groups: groups}
}

const sharedGoalColumns = `id, group_id, title, description, category, priority, created_by, created_at, updated_at`
const sharedTaskColumns = `id, shared_goal_id, group_id, title, assigned_to, created_by, completed, completed_at, due_date, created_at`

type sharedGoalRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description"`
	Category    string  `json:"category" validate:"required,max=50"`
	Priority    string  `json:"priority" validate:"omitempty,oneof=low medium high"`
}

func (h *SharedHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	groupID, ok := h.groups.requireMember(w, r, userID)
	if !ok {
		return
	}

	var req sharedGoalRequest
	if err := decodeValid(r, &req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.Priority == "" {
		req.Priority = string(models.PriorityMedium)
	}

	var g models.SharedGoal
	err := h.db.QueryRowx(`INSERT INTO shared_goals (group_id, title, description, category, priority, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+sharedGoalColumns,
		groupID, req.Title, req.Description, req.Category, req.Priority, userID).StructScan(&g)
	if err != nil {
		http.Error(w, "could not create shared goal", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (h *SharedHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	groupID, ok := h.groups.requireMember(w, r, userID)
	if !ok {
		return
	}

	goals := []models.SharedGoal{}
	err := h.db.Select(&goals, `SELECT `+sharedGoalColumns+` FROM shared_goals
		WHERE group_id=$1 ORDER BY created_at DESC`, groupID)
	if err != nil {
		http.Error(w, "could not fetch shared goals", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

type sharedTaskRequest struct {
	Title      string  `json:"title" validate:"required,max=200"`
	AssignedTo *int    `json:"assigned_to"`
	DueDate    *string `json:"due_date"`
}

func (h *SharedHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	groupID, ok := h.groups.requireMember(w, r, userID)
	if !ok {
		return
	}
	sharedGoalID, err := strconv.Atoi(chi.URLParam(r, "sharedGoalID"))
	if err != nil {
		http.Error(w, "invalid shared goal id", http.StatusBadRequest)
		return
	}

	var req sharedTaskRequest
	if err := decodeValid(r, &req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	dueDate, err := parseDatePtr(req.DueDate)
	if err != nil {
		http.Error(w, "invalid due_date; expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	// The shared goal must live in this group.
	var goalOK bool
	if err := h.db.Get(&goalOK, `SELECT EXISTS (SELECT 1 FROM shared_goals WHERE id=$1 AND group_id=$2)`, sharedGoalID, groupID); err != nil || !goalOK {
		http.Error(w, "shared goal not found", http.StatusNotFound)
		return
	}
	// Assignment targets must be members.
	if req.AssignedTo != nil {
		if _, err := h.groups.memberRole(groupID, *req.AssignedTo); err != nil {
			http.Error(w, "assignee is not a member", http.StatusBadRequest)
			return
		}
	}

	var t models.SharedTask
	err = h.db.QueryRowx(`INSERT INTO shared_tasks (shared_goal_id, group_id, title, assigned_to, created_by, due_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+sharedTaskColumns,
		sharedGoalID, groupID, req.Title, req.AssignedTo, userID, dueDate).StructScan(&t)
	if err != nil {
		http.Error(w, "could not create shared task", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *SharedHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	groupID, ok := h.groups.requireMember(w, r, userID)
	if !ok {
		return
	}
	sharedGoalID, err := strconv.Atoi(chi.URLParam(r, "sharedGoalID"))
	if err != nil {
		http.Error(w, "invalid shared goal id", http.StatusBadRequest)
		return
	}

	tasks := []models.SharedTask{}
	err = h.db.Select(&tasks, `SELECT `+sharedTaskColumns+` FROM shared_tasks
		WHERE shared_goal_id=$1 AND group_id=$2
		ORDER BY completed, due_date NULLS LAST, created_at`, sharedGoalID, groupID)
	if err != nil {
		http.Error(w, "could not fetch shared tasks", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// UpdateTask handles assignment and completion changes on a shared task.
func (h *SharedHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	groupID, ok := h.groups.requireMember(w, r, userID)
	if !ok {
		return
	}
	taskID, err := strconv.Atoi(chi.URLParam(r, "taskID"))
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}

	var body struct {
		Title      *string `json:"title"`
		AssignedTo *int    `json:"assigned_to"`
		Unassign   *bool   `json:"unassign"`
		Completed  *bool   `json:"completed"`
		DueDate    *string `json:"due_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1
	if body.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title=$%d", argIdx))
		args = append(args, *body.Title)
		argIdx++
	}
	if body.Unassign != nil && *body.Unassign {
		setClauses = append(setClauses, "assigned_to=NULL")
	} else if body.AssignedTo != nil {
		if _, err := h.groups.memberRole(groupID, *body.AssignedTo); err != nil {
			http.Error(w, "assignee is not a member", http.StatusBadRequest)
			return
		}
		setClauses = append(setClauses, fmt.Sprintf("assigned_to=$%d", argIdx))
		args = append(args, *body.AssignedTo)
		argIdx++
	}
	if body.Completed != nil {
		if *body.Completed {
			setClauses = append(setClauses, "completed=true", "completed_at=NOW()")
		} else {
			setClauses = append(setClauses, "completed=false", "completed_at=NULL")
		}
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
	if len(setClauses) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	query := "UPDATE shared_tasks SET " + strings.Join(setClauses, ", ") +
		fmt.Sprintf(" WHERE id=$%d AND group_id=$%d RETURNING ", argIdx, argIdx+1) + sharedTaskColumns
	args = append(args, taskID, groupID)

	var t models.SharedTask
	if err := h.db.QueryRowx(query, args...).StructScan(&t); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *SharedHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	groupID, ok := h.groups.requireMember(w, r, userID)
	if !ok {
		return
	}
	taskID, err := strconv.Atoi(chi.URLParam(r, "taskID"))
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}

	res, err := h.db.Exec(`DELETE FROM shared_tasks WHERE id=$1 AND group_id=$2`, taskID, groupID)
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
