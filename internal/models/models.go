package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type GroupRole string

const (
	RoleAdmin  GroupRole = "admin"
	RoleMember GroupRole = "member"
)

type User struct {
	ID           int        `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	DisplayName  *string    `db:"display_name" json:"display_name,omitempty"`
	AvatarURL    *string    `db:"avatar_url" json:"avatar_url,omitempty"`
	IsAdmin      bool       `db:"is_admin" json:"is_admin"`
	OnboardedAt  *time.Time `db:"onboarded_at" json:"onboarded_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

type Goal struct {
	ID              int        `db:"id" json:"id"`
	UserID          int        `db:"user_id" json:"user_id"`
	Title           string     `db:"title" json:"title"`
	Description     *string    `db:"description" json:"description,omitempty"`
	Category        string     `db:"category" json:"category"`
	Priority        Priority   `db:"priority" json:"priority"`
	IsPublic        bool       `db:"is_public" json:"is_public"`
	IsFeatured      bool       `db:"is_featured" json:"is_featured"`
	Slug            *string    `db:"slug" json:"slug,omitempty"`
	EstimatedBudget *float64   `db:"estimated_budget" json:"estimated_budget,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at" json:"-"`
}

type Task struct {
	ID                  int        `db:"id" json:"id"`
	GoalID              int        `db:"goal_id" json:"goal_id"`
	UserID              int        `db:"user_id" json:"user_id"`
	Title               string     `db:"title" json:"title"`
	Priority            Priority   `db:"priority" json:"priority"`
	Completed           bool       `db:"completed" json:"completed"`
	CompletedAt         *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	DueDate             *time.Time `db:"due_date" json:"due_date,omitempty"`
	TimeEstimateMinutes *int       `db:"time_estimate_minutes" json:"time_estimate_minutes,omitempty"`
	ScheduledDate       *time.Time `db:"scheduled_date" json:"scheduled_date,omitempty"`
	CompletionValue     *int       `db:"completion_value" json:"completion_value,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt           *time.Time `db:"deleted_at" json:"-"`
}

type JournalEntry struct {
	ID             int            `db:"id" json:"id"`
	UserID         int            `db:"user_id" json:"user_id"`
	EntryDate      time.Time      `db:"entry_date" json:"entry_date"`
	Mood           string         `db:"mood" json:"mood"`
	Reflection     string         `db:"reflection" json:"reflection"` // Encrypted in DB
	CompletedTasks types.JSONText `db:"completed_tasks" json:"completed_tasks"`
	MissedTasks    types.JSONText `db:"missed_tasks" json:"missed_tasks"`
	Achievements   types.JSONText `db:"achievements" json:"achievements"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

type ProgressStats struct {
	ID                int            `db:"id" json:"id"`
	UserID            int            `db:"user_id" json:"user_id"`
	StatDate          time.Time      `db:"stat_date" json:"stat_date"`
	CompletedCount    int            `db:"completed_count" json:"completed_count"`
	TotalCount        int            `db:"total_count" json:"total_count"`
	CategoryBreakdown types.JSONText `db:"category_breakdown" json:"category_breakdown"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

type ChatImport struct {
	ID             int            `db:"id" json:"id"`
	UserID         int            `db:"user_id" json:"user_id"`
	Source         string         `db:"source" json:"source"`
	Title          string         `db:"title" json:"title"`
	Messages       types.JSONText `db:"messages" json:"messages"`
	ExtractedGoals types.JSONText `db:"extracted_goals" json:"extracted_goals"`
	ConvertedAt    *time.Time     `db:"converted_at" json:"converted_at,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}

type Group struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	InviteCode  string    `db:"invite_code" json:"invite_code,omitempty"`
	CreatedBy   int       `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type GroupMembership struct {
	ID       int       `db:"id" json:"id"`
	GroupID  int       `db:"group_id" json:"group_id"`
	UserID   int       `db:"user_id" json:"user_id"`
	Role     GroupRole `db:"role" json:"role"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
}

type SharedGoal struct {
	ID          int       `db:"id" json:"id"`
	GroupID     int       `db:"group_id" json:"group_id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	Category    string    `db:"category" json:"category"`
	Priority    Priority  `db:"priority" json:"priority"`
	CreatedBy   int       `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type SharedTask struct {
	ID           int        `db:"id" json:"id"`
	SharedGoalID int        `db:"shared_goal_id" json:"shared_goal_id"`
	GroupID      int        `db:"group_id" json:"group_id"`
	Title        string     `db:"title" json:"title"`
	AssignedTo   *int       `db:"assigned_to" json:"assigned_to,omitempty"`
	CreatedBy    int        `db:"created_by" json:"created_by"`
	Completed    bool       `db:"completed" json:"completed"`
	CompletedAt  *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	DueDate      *time.Time `db:"due_date" json:"due_date,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

type NotificationPreferences struct {
	UserID              int       `db:"user_id" json:"user_id"`
	Enabled             bool      `db:"enabled" json:"enabled"`
	QuietHoursStart     *string   `db:"quiet_hours_start" json:"quiet_hours_start,omitempty"` // HH:MM
	QuietHoursEnd       *string   `db:"quiet_hours_end" json:"quiet_hours_end,omitempty"`     // HH:MM
	ReminderLeadMinutes int       `db:"reminder_lead_minutes" json:"reminder_lead_minutes"`
	DailyPlanningTime   *string   `db:"daily_planning_time" json:"daily_planning_time,omitempty"` // HH:MM
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

type TaskReminder struct {
	ID        int        `db:"id" json:"id"`
	TaskID    int        `db:"task_id" json:"task_id"`
	UserID    int        `db:"user_id" json:"user_id"`
	RemindAt  time.Time  `db:"remind_at" json:"remind_at"`
	Message   string     `db:"message" json:"message"`
	Sent      bool       `db:"sent" json:"sent"`
	SentAt    *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

type SchedulingSuggestion struct {
	ID             int        `db:"id" json:"id"`
	UserID         int        `db:"user_id" json:"user_id"`
	TaskID         int        `db:"task_id" json:"task_id"`
	SuggestionDate time.Time  `db:"suggestion_date" json:"suggestion_date"`
	Score          float64    `db:"score" json:"score"`
	Reason         string     `db:"reason" json:"reason"`
	Accepted       bool       `db:"accepted" json:"accepted"`
	AcceptedAt     *time.Time `db:"accepted_at" json:"accepted_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (r GroupRole) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}
