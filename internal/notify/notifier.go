package notify

import (
	"context"
	"time"
)

// Event is a reminder notification handed to the delivery side. Delivery
// (push, email) lives outside this service; we only publish.
type Event struct {
	ReminderID int       `json:"reminder_id"`
	UserID     int       `json:"user_id"`
	TaskID     int       `json:"task_id"`
	TaskTitle  string    `json:"task_title"`
	Message    string    `json:"message"`
	RemindAt   time.Time `json:"remind_at"`
}

type Notifier interface {
	Publish(ctx context.Context, event Event) error
	Close()
}
