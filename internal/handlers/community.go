package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"journalmate/internal/cache"
)

// CommunityHandler serves public goal discovery. These routes take no auth.
type CommunityHandler struct {
	db    *sqlx.DB
	cache *cache.Cache
}

func NewCommunityHandler(db *sqlx.DB, c *cache.Cache) *CommunityHandler {
	return &CommunityHandler{db: db, cache: c}
}

type communityPlan struct {
	ID          int     `db:"id" json:"id"`
	Title       string  `db:"title" json:"title"`
	Description *string `db:"description" json:"description,omitempty"`
	Category    string  `db:"category" json:"category"`
	Slug        *string `db:"slug" json:"slug,omitempty"`
	IsFeatured  bool    `db:"is_featured" json:"is_featured"`
	AuthorName  *string `db:"author_name" json:"author_name,omitempty"`
	TaskCount   int     `db:"task_count" json:"task_count"`
}

const communityPlanQuery = `
	SELECT g.id, g.title, g.description, g.category, g.slug, g.is_featured,
	       u.display_name AS author_name,
	       (SELECT COUNT(*) FROM tasks t WHERE t.goal_id = g.id AND t.deleted_at IS NULL) AS task_count
	FROM goals g
	JOIN users u ON u.id = g.user_id
	WHERE g.is_public AND g.deleted_at IS NULL`

// ListPlans returns the discovery feed, featured plans first. The feed is
// identical for everyone, so it caches under one key.
func (h *CommunityHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	var plans []communityPlan
	key := cache.CommunityFeedKey()
	if err := h.cache.Get(r.Context(), key, &plans); err == nil {
		writeJSON(w, http.StatusOK, plans)
		return
	}

	plans = []communityPlan{}
	err := h.db.Select(&plans, communityPlanQuery+`
		ORDER BY g.is_featured DESC, g.created_at DESC LIMIT 100`)
	if err != nil {
		http.Error(w, "could not fetch plans", http.StatusInternalServerError)
		return
	}

	_ = h.cache.Set(r.Context(), key, plans)
	writeJSON(w, http.StatusOK, plans)
}

// GetPlan fetches one public plan by slug.
func (h *CommunityHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	planSlug := chi.URLParam(r, "slug")

	var plan communityPlan
	err := h.db.Get(&plan, communityPlanQuery+` AND g.slug=$1`, planSlug)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}
