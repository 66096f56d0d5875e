package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"journalmate/internal/models"
)

type UserHandler struct {
	db *sqlx.DB
}

func NewUserHandler(db *sqlx.DB) *UserHandler {
	return &UserHandler{db: db}
}

// GetMe returns the current user's profile
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	var u models.User
	if err := h.db.Get(&u, `SELECT id, email, password_hash, display_name, avatar_url, is_admin, onboarded_at, created_at
		FROM users WHERE id=$1`, userID); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// UpdateMe updates provided fields on the current user's profile
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	var body struct {
		DisplayName *string `json:"display_name"`
		AvatarURL   *string `json:"avatar_url"`
		Onboarded   *bool   `json:"onboarded"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1
	if body.DisplayName != nil {
		setClauses = append(setClauses, fmt.Sprintf("display_name=$%d", argIdx))
		args = append(args, *body.DisplayName)
		argIdx++
	}
	if body.AvatarURL != nil {
		setClauses = append(setClauses, fmt.Sprintf("avatar_url=$%d", argIdx))
		args = append(args, *body.AvatarURL)
		argIdx++
	}
	if body.Onboarded != nil {
		if *body.Onboarded {
			setClauses = append(setClauses, "onboarded_at=COALESCE(onboarded_at, NOW())")
		} else {
			setClauses = append(setClauses, "onboarded_at=NULL")
		}
	}
	if len(setClauses) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	query := "UPDATE users SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id=$%d", argIdx)
	args = append(args, userID)
	if _, err := h.db.Exec(query, args...); err != nil {
		http.Error(w, "could not update", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
