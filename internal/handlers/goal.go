package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gosimple/slug"
	"github.com/jmoiron/sqlx"

	"journalmate/internal/cache"
	"journalmate/internal/models"
)

type GoalHandler struct {
	db    *sqlx.DB
	cache *cache.Cache
}

func NewGoalHandler(db *sqlx.DB, c *cache.Cache) *GoalHandler {
	return &GoalHandler{db: db, cache: c}
}

type goalRequest struct {
	Title           string   `json:"title" validate:"required,max=200"`
	Description     *string  `json:"description"`
	Category        string   `json:"category" validate:"required,max=50"`
	Priority        string   `json:"priority" validate:"omitempty,oneof=low medium high"`
	EstimatedBudget *float64 `json:"estimated_budget" validate:"omitempty,gte=0"`
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	var req goalRequest
	if err := decodeValid(r, &req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.Priority == "" {
		req.Priority = string(models.PriorityMedium)
	}

	var g models.Goal
	err := h.db.QueryRowx(`INSERT INTO goals (user_id, title, description, category, priority, estimated_budget)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, title, description, category, priority, is_public, is_featured, slug,
		          estimated_budget, created_at, updated_at, deleted_at`,
		userID, req.Title, req.Description, req.Category, req.Priority, req.EstimatedBudget).StructScan(&g)
	if err != nil {
		http.Error(w, "could not create goal", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	q := r.URL.Query()

	where := "WHERE user_id=$1 AND deleted_at IS NULL"
	args := []interface{}{userID}
	if category := q.Get("category"); category != "" {
		args = append(args, category)
		where += fmt.Sprintf(" AND category=$%d", len(args))
	}

	goals := []models.Goal{}
	err := h.db.Select(&goals, `SELECT id, user_id, title, description, category, priority, is_public, is_featured, slug,
		estimated_budget, created_at, updated_at, deleted_at
		FROM goals `+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		http.Error(w, "could not fetch goals", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	goalID, err := strconv.Atoi(chi.URLParam(r, "goalID"))
	if err != nil {
		http.Error(w, "invalid goal id", http.StatusBadRequest)
		return
	}

	var g models.Goal
	err = h.db.Get(&g, `SELECT id, user_id, title, description, category, priority, is_public, is_featured, slug,
		estimated_budget, created_at, updated_at, deleted_at
		FROM goals WHERE id=$1 AND user_id=$2 AND deleted_at IS NULL`, goalID, userID)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	goalID, err := strconv.Atoi(chi.URLParam(r, "goalID"))
	if err != nil {
		http.Error(w, "invalid goal id", http.StatusBadRequest)
		return
	}

	var body struct {
		Title           *string  `json:"title"`
		Description     *string  `json:"description"`
		Category        *string  `json:"category"`
		Priority        *string  `json:"priority"`
		EstimatedBudget *float64 `json:"estimated_budget"`
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
	if body.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description=$%d", argIdx))
		args = append(args, *body.Description)
		argIdx++
	}
	if body.Category != nil {
		setClauses = append(setClauses, fmt.Sprintf("category=$%d", argIdx))
		args = append(args, *body.Category)
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
	if body.EstimatedBudget != nil {
		setClauses = append(setClauses, fmt.Sprintf("estimated_budget=$%d", argIdx))
		args = append(args, *body.EstimatedBudget)
		argIdx++
	}

	query := "UPDATE goals SET " + strings.Join(setClauses, ", ") +
		fmt.Sprintf(" WHERE id=$%d AND user_id=$%d AND deleted_at IS NULL", argIdx, argIdx+1)
	args = append(args, goalID, userID)
	res, err := h.db.Exec(query, args...)
	if err != nil {
		http.Error(w, "could not update", http.StatusInternalServerError)
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	_ = h.cache.Delete(r.Context(), cache.CommunityFeedKey())
	w.WriteHeader(http.StatusNoContent)
}

// Delete soft-deletes a goal by stamping deleted_at.
func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	goalID, err := strconv.Atoi(chi.URLParam(r, "goalID"))
	if err != nil {
		http.Error(w, "invalid goal id", http.StatusBadRequest)
		return
	}

	res, err := h.db.Exec(`UPDATE goals SET deleted_at=NOW(), is_public=false
		WHERE id=$1 AND user_id=$2 AND deleted_at IS NULL`, goalID, userID)
	if err != nil {
		http.Error(w, "could not delete", http.StatusInternalServerError)
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	_ = h.cache.Delete(r.Context(), cache.CommunityFeedKey())
	w.WriteHeader(http.StatusNoContent)
}

// Publish makes a goal discoverable as a community plan and assigns its slug.
func (h *GoalHandler) Publish(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	goalID, err := strconv.Atoi(chi.URLParam(r, "goalID"))
	if err != nil {
		http.Error(w, "invalid goal id", http.StatusBadRequest)
		return
	}

	var title string
	err = h.db.Get(&title, `SELECT title FROM goals WHERE id=$1 AND user_id=$2 AND deleted_at IS NULL`, goalID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	// Slug collisions get the goal id appended, which also keeps old links stable.
	goalSlug := slug.Make(title)
	var exists bool
	if err := h.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM goals WHERE slug=$1 AND id<>$2)`, goalSlug, goalID); err == nil && exists {
		goalSlug = fmt.Sprintf("%s-%d", goalSlug, goalID)
	}

	var g models.Goal
	err = h.db.QueryRowx(`UPDATE goals SET is_public=true, slug=$1, updated_at=NOW()
		WHERE id=$2 AND user_id=$3 AND deleted_at IS NULL
		RETURNING id, user_id, title, description, category, priority, is_public, is_featured, slug,
		          estimated_budget, created_at, updated_at, deleted_at`,
		goalSlug, goalID, userID).StructScan(&g)
	if err != nil {
		http.Error(w, "could not publish", http.StatusInternalServerError)
		return
	}

	_ = h.cache.Delete(r.Context(), cache.CommunityFeedKey())
	writeJSON(w, http.StatusOK, g)
}

// Unpublish removes a goal from community discovery.
func (h *GoalHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	goalID, err := strconv.Atoi(chi.URLParam(r, "goalID"))
	if err != nil {
		http.Error(w, "invalid goal id", http.StatusBadRequest)
		return
	}

	res, err := h.db.Exec(`UPDATE goals SET is_public=false, is_featured=false, updated_at=NOW()
		WHERE id=$1 AND user_id=$2 AND deleted_at IS NULL`, goalID, userID)
	if err != nil {
		http.Error(w, "could not unpublish", http.StatusInternalServerError)
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	_ = h.cache.Delete(r.Context(), cache.CommunityFeedKey())
	w.WriteHeader(http.StatusNoContent)
}
