package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"journalmate/internal/models"
)

type ChatImportHandler struct {
	db *sqlx.DB
}

func NewChatImportHandler(db *sqlx.DB) *ChatImportHandler {
	return &ChatImportHandler{db: db}
}

type chatImportRequest struct {
	Source         string            `json:"source" validate:"required,max=50"`
	Title          string            `json:"title" validate:"max=200"`
	Messages       []json.RawMessage `json:"messages"`
	ExtractedGoals []string          `json:"extracted_goals"`
}

const chatImportColumns = `id, user_id, source, title, messages, extracted_goals, converted_at, created_at`

// Create stores a conversation from an external AI chat along with the goal
// strings extracted from it.
func (h *ChatImportHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	var req chatImportRequest
	if err := decodeValid(r, &req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	messages, _ := json.Marshal(req.Messages)
	if req.Messages == nil {
		messages = []byte("[]")
	}
	goals, _ := json.Marshal(orEmpty(req.ExtractedGoals))

	var ci models.ChatImport
	err := h.db.QueryRowx(`INSERT INTO chat_imports (user_id, source, title, messages, extracted_goals)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+chatImportColumns,
		userID, req.Source, req.Title, messages, goals).StructScan(&ci)
	if err != nil {
		http.Error(w, "could not save import", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, ci)
}

func (h *ChatImportHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	imports := []models.ChatImport{}
	err := h.db.Select(&imports, `SELECT `+chatImportColumns+` FROM chat_imports
		WHERE user_id=$1 ORDER BY created_at DESC LIMIT 50`, userID)
	if err != nil {
		http.Error(w, "could not fetch imports", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, imports)
}

func (h *ChatImportHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	importID, err := strconv.Atoi(chi.URLParam(r, "importID"))
	if err != nil {
		http.Error(w, "invalid import id", http.StatusBadRequest)
		return
	}

	var ci models.ChatImport
	err = h.db.Get(&ci, `SELECT `+chatImportColumns+` FROM chat_imports WHERE id=$1 AND user_id=$2`, importID, userID)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, ci)
}

func (h *ChatImportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	importID, err := strconv.Atoi(chi.URLParam(r, "importID"))
	if err != nil {
		http.Error(w, "invalid import id", http.StatusBadRequest)
		return
	}

	res, err := h.db.Exec(`DELETE FROM chat_imports WHERE id=$1 AND user_id=$2`, importID, userID)
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

// Convert materializes the extracted goal strings of an import as Goal rows.
// Converting twice is a 409; the import is stamped converted_at on success.
func (h *ChatImportHandler) Convert(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	importID, err := strconv.Atoi(chi.URLParam(r, "importID"))
	if err != nil {
		http.Error(w, "invalid import id", http.StatusBadRequest)
		return
	}

	var ci models.ChatImport
	err = h.db.Get(&ci, `SELECT `+chatImportColumns+` FROM chat_imports WHERE id=$1 AND user_id=$2`, importID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if ci.ConvertedAt != nil {
		http.Error(w, "already converted", http.StatusConflict)
		return
	}

	var titles []string
	if err := json.Unmarshal(ci.ExtractedGoals, &titles); err != nil {
		http.Error(w, "corrupt extracted goals", http.StatusInternalServerError)
		return
	}
	if len(titles) == 0 {
		http.Error(w, "no goals to convert", http.StatusBadRequest)
		return
	}

	tx, err := h.db.Beginx()
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	defer tx.Rollback()

	created := make([]models.Goal, 0, len(titles))
	for _, title := range titles {
		var g models.Goal
		err := tx.QueryRowx(`INSERT INTO goals (user_id, title, category, priority)
			VALUES ($1, $2, 'imported', 'medium')
			RETURNING id, user_id, title, description, category, priority, is_public, is_featured, slug,
			          estimated_budget, created_at, updated_at, deleted_at`,
			userID, title).StructScan(&g)
		if err != nil {
			http.Error(w, "could not create goals", http.StatusInternalServerError)
			return
		}
		created = append(created, g)
	}
	if _, err := tx.Exec(`UPDATE chat_imports SET converted_at=NOW() WHERE id=$1`, importID); err != nil {
		http.Error(w, "could not mark converted", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(); err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}
