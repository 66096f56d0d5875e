package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNoopNotifierPublishes(t *testing.T) {
	n := NewNoopNotifier(zap.NewNop())
	defer n.Close()

	err := n.Publish(context.Background(), Event{
		ReminderID: 1,
		UserID:     42,
		TaskID:     7,
		TaskTitle:  "Water the plants",
		Message:    "Reminder: Water the plants",
		RemindAt:   time.Now(),
	})
	assert.NoError(t, err)
}
