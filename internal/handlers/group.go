package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"journalmate/internal/models"
)

type GroupHandler struct {
	db *sqlx.DB
}

func NewGroupHandler(db *sqlx.DB) *GroupHandler {
	return &GroupHandler{db: db}
}

const groupColumns = `id, name, description, invite_code, created_by, created_at`

type groupRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description"`
}

// Create makes a group and enrolls the creator as its admin.
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	var req groupRequest
	if err := decodeValid(r, &req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	tx, err := h.db.Beginx()
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	defer tx.Rollback()

	var g models.Group
	err = tx.QueryRowx(`INSERT INTO groups (name, description, invite_code, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING `+groupColumns,
		req.Name, req.Description, uuid.NewString(), userID).StructScan(&g)
	if err != nil {
		http.Error(w, "could not create group", http.StatusInternalServerError)
		return
	}
	if _, err := tx.Exec(`INSERT INTO group_memberships (group_id, user_id, role) VALUES ($1, $2, 'admin')`, g.ID, userID); err != nil {
		http.Error(w, "could not create membership", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(); err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

// List returns the groups the caller belongs to.
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	groups := []models.Group{}
	err := h.db.Select(&groups, `SELECT g.id, g.name, g.description, g.invite_code, g.created_by, g.created_at
		FROM groups g
		JOIN group_memberships m ON m.group_id = g.id
		WHERE m.user_id=$1 ORDER BY g.created_at DESC`, userID)
	if err != nil {
		http.Error(w, "could not fetch groups", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	groupID, ok := h.requireMember(w, r, userID)
	if !ok {
		return
	}

	var g models.Group
	if err := h.db.Get(&g, `SELECT `+groupColumns+` FROM groups WHERE id=$1`, groupID); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// Join enrolls the caller into the group matching the invite code.
func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	var body struct {
		InviteCode string `json:"invite_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.InviteCode == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	var g models.Group
	err := h.db.Get(&g, `SELECT `+groupColumns+` FROM groups WHERE invite_code=$1`, strings.TrimSpace(body.InviteCode))
	if err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "invalid invite code", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	_, err = h.db.Exec(`INSERT INTO group_memberships (group_id, user_id, role) VALUES ($1, $2, 'member')`, g.ID, userID)
	if err != nil {
		if isUniqueViolation(err) {
			http.Error(w, "already a member", http.StatusConflict)
			return
		}
		http.Error(w, "could not join", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

type memberResponse struct {
	UserID      int     `db:"user_id" json:"user_id"`
	Email       string  `db:"email" json:"email"`
	DisplayName *string `db:"display_name" json:"display_name,omitempty"`
	Role        string  `db:"role" json:"role"`
}

func (h *GroupHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	groupID, ok := h.requireMember(w, r, userID)
	if !ok {
		return
	}

	members := []memberResponse{}
	err := h.db.Select(&members, `SELECT m.user_id, u.email, u.display_name, m.role
		FROM group_memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.group_id=$1 ORDER BY m.joined_at`, groupID)
	if err != nil {
		http.Error(w, "could not fetch members", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// UpdateMemberRole changes a member's role. Admin only.
func (h *GroupHandler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	groupID, ok := h.requireAdmin(w, r, userID)
	if !ok {
		return
	}
	memberID, err := strconv.Atoi(chi.URLParam(r, "memberID"))
	if err != nil {
		http.Error(w, "invalid member id", http.StatusBadRequest)
		return
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || !models.GroupRole(body.Role).Valid() {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}

	res, err := h.db.Exec(`UPDATE group_memberships SET role=$1 WHERE group_id=$2 AND user_id=$3`, body.Role, groupID, memberID)
	if err != nil {
		http.Error(w, "could not update role", http.StatusInternalServerError)
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		http.Error(w, "not a member", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveMember removes a member. Members may remove themselves (leave);
// removing someone else requires admin.
func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	groupID, err := strconv.Atoi(chi.URLParam(r, "groupID"))
	if err != nil {
		http.Error(w, "invalid group id", http.StatusBadRequest)
		return
	}
	memberID, err := strconv.Atoi(chi.URLParam(r, "memberID"))
	if err != nil {
		http.Error(w, "invalid member id", http.StatusBadRequest)
		return
	}

	if memberID != userID {
		role, err := h.memberRole(groupID, userID)
		if err != nil || role != models.RoleAdmin {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
	}

	res, err := h.db.Exec(`DELETE FROM group_memberships WHERE group_id=$1 AND user_id=$2`, groupID, memberID)
	if err != nil {
		http.Error(w, "could not remove member", http.StatusInternalServerError)
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		http.Error(w, "not a member", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GroupHandler) memberRole(groupID, userID int) (models.GroupRole, error) {
	var role models.GroupRole
	err := h.db.Get(&role, `SELECT role FROM group_memberships WHERE group_id=$1 AND user_id=$2`, groupID, userID)
	return role, err
}

// requireMember parses groupID from the URL and rejects non-members.
func (h *GroupHandler) requireMember(w http.ResponseWriter, r *http.Request, userID int) (int, bool) {
	groupID, err := strconv.Atoi(chi.URLParam(r, "groupID"))
	if err != nil {
		http.Error(w, "invalid group id", http.StatusBadRequest)
		return 0, false
	}
	if _, err := h.memberRole(groupID, userID); err != nil {
		http.Error(w, "forbidden", http.StatusForbidden)
		return 0, false
	}
	return groupID, true
}

func (h *GroupHandler) requireAdmin(w http.ResponseWriter, r *http.Request, userID int) (int, bool) {
	groupID, err := strconv.Atoi(chi.URLParam(r, "groupID"))
	if err != nil {
		http.Error(w, "invalid group id", http.StatusBadRequest)
		return 0, false
	}
	role, err := h.memberRole(groupID, userID)
	if err != nil || role != models.RoleAdmin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return 0, false
	}
	return groupID, true
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
