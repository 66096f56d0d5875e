// Command export writes a seed SQL file from a development database. Usage:
//
//	DATABASE_URL=... go run ./cmd/export [outfile]
//
// The default outfile is seed.sql.
package main

import (
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"journalmate/internal/export"
)

// exportTable describes one table pull: which columns to read and whether
// re-running the seed should update or skip existing rows.
type exportTable struct {
	name    string
	columns []string
	action  export.ConflictAction
}

var tables = []exportTable{
	{"users", []string{"id", "email", "password_hash", "display_name", "avatar_url", "is_admin", "onboarded_at", "created_at"}, export.OnConflictUpdate},
	{"goals", []string{"id", "user_id", "title", "description", "category", "priority", "is_public", "is_featured", "slug", "estimated_budget", "created_at", "updated_at", "deleted_at"}, export.OnConflictUpdate},
	{"tasks", []string{"id", "goal_id", "user_id", "title", "priority", "completed", "completed_at", "due_date", "time_estimate_minutes", "scheduled_date", "completion_value", "created_at", "updated_at", "deleted_at"}, export.OnConflictUpdate},
	{"journal_entries", []string{"id", "user_id", "entry_date", "mood", "reflection", "completed_tasks", "missed_tasks", "achievements", "created_at", "updated_at"}, export.OnConflictNothing},
	{"progress_stats", []string{"id", "user_id", "stat_date", "completed_count", "total_count", "category_breakdown", "updated_at"}, export.OnConflictNothing},
	{"chat_imports", []string{"id", "user_id", "source", "title", "messages", "extracted_goals", "converted_at", "created_at"}, export.OnConflictNothing},
	{"groups", []string{"id", "name", "description", "invite_code", "created_by", "created_at"}, export.OnConflictUpdate},
	{"group_memberships", []string{"id", "group_id", "user_id", "role", "joined_at"}, export.OnConflictNothing},
	{"shared_goals", []string{"id", "group_id", "title", "description", "category", "priority", "created_by", "created_at", "updated_at"}, export.OnConflictUpdate},
	{"shared_tasks", []string{"id", "shared_goal_id", "group_id", "title", "assigned_to", "created_by", "completed", "completed_at", "due_date", "created_at"}, export.OnConflictUpdate},
	{"notification_preferences", []string{"user_id", "enabled", "quiet_hours_start", "quiet_hours_end", "reminder_lead_minutes", "daily_planning_time", "updated_at"}, export.OnConflictNothing},
	{"task_reminders", []string{"id", "task_id", "user_id", "remind_at", "message", "sent", "sent_at", "created_at"}, export.OnConflictNothing},
	{"scheduling_suggestions", []string{"id", "user_id", "task_id", "suggestion_date", "score", "reason", "accepted", "accepted_at", "created_at"}, export.OnConflictNothing},
}

func main() {
	_ = godotenv.Load()
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	outfile := "seed.sql"
	if len(os.Args) > 1 {
		outfile = os.Args[1]
	}

	db, err := sqlx.Open("pgx", databaseURL)
	if err != nil {
		logger.Error("failed to open db", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	var statements []string
	for _, t := range tables {
		stmts, err := dumpTable(db, t)
		if err != nil {
			logger.Error("export failed", zap.String("table", t.name), zap.Error(err))
			os.Exit(1)
		}
		statements = append(statements, stmts...)
		if t.columns[0] == "id" {
			statements = append(statements, export.SequenceReset(t.name))
		}
		logger.Info("exported", zap.String("table", t.name), zap.Int("rows", len(stmts)))
	}

	if err := os.WriteFile(outfile, []byte(export.File(statements)), 0o644); err != nil {
		logger.Error("failed to write file", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("seed written", zap.String("file", outfile))
}

func dumpTable(db *sqlx.DB, t exportTable) ([]string, error) {
	query := "SELECT " + joinColumns(t.columns) + " FROM " + t.name + " ORDER BY " + t.columns[0]
	rows, err := db.Queryx(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}
		out = append(out, export.InsertStatement(t.name, t.columns, values, t.action))
	}
	return out, rows.Err()
}

func joinColumns(cols []string) string {
	out := cols[0]
	for _, c := range cols[1:] {
		out += ", " + c
	}
	return out
}
