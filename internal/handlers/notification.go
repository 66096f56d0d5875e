package handlers

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"journalmate/internal/models"
)

type NotificationHandler struct {
	db *sqlx.DB
}

func NewNotificationHandler(db *sqlx.DB) *NotificationHandler {
	return &NotificationHandler{db: db}
}

const prefColumns = `user_id, enabled, quiet_hours_start, quiet_hours_end, reminder_lead_minutes, daily_planning_time, updated_at`

// GetPreferences returns the caller's settings, falling back to defaults if
// they never saved any.
func (h *NotificationHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	var prefs models.NotificationPreferences
	err := h.db.Get(&prefs, `SELECT `+prefColumns+` FROM notification_preferences WHERE user_id=$1`, userID)
	if err != nil {
		prefs = models.NotificationPreferences{
			UserID:              userID,
			Enabled:             true,
			ReminderLeadMinutes: 30,
		}
	}
	writeJSON(w, http.StatusOK, prefs)
}

type preferencesRequest struct {
	Enabled             bool    `json:"enabled"`
	QuietHoursStart     *string `json:"quiet_hours_start" validate:"omitempty,len=5"`
	QuietHoursEnd       *string `json:"quiet_hours_end" validate:"omitempty,len=5"`
	ReminderLeadMinutes int     `json:"reminder_lead_minutes" validate:"gte=0,lte=1440"`
	DailyPlanningTime   *string `json:"daily_planning_time" validate:"omitempty,len=5"`
}

// UpsertPreferences replaces the caller's settings wholesale.
func (h *NotificationHandler) UpsertPreferences(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	var req preferencesRequest
	if err := decodeValid(r, &req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	for _, t := range []*string{req.QuietHoursStart, req.QuietHoursEnd, req.DailyPlanningTime} {
		if t != nil && !validClock(*t) {
			http.Error(w, "times must be HH:MM", http.StatusBadRequest)
			return
		}
	}

	var prefs models.NotificationPreferences
	err := h.db.QueryRowx(`INSERT INTO notification_preferences
		(user_id, enabled, quiet_hours_start, quiet_hours_end, reminder_lead_minutes, daily_planning_time, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET
		  enabled = EXCLUDED.enabled,
		  quiet_hours_start = EXCLUDED.quiet_hours_start,
		  quiet_hours_end = EXCLUDED.quiet_hours_end,
		  reminder_lead_minutes = EXCLUDED.reminder_lead_minutes,
		  daily_planning_time = EXCLUDED.daily_planning_time,
		  updated_at = NOW()
		RETURNING `+prefColumns,
		userID, req.Enabled, req.QuietHoursStart, req.QuietHoursEnd, req.ReminderLeadMinutes, req.DailyPlanningTime).StructScan(&prefs)
	if err != nil {
		http.Error(w, "could not save preferences", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// validClock accepts the same HH:MM form the reminder sweep parses.
func validClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil && len(s) == 5
}
