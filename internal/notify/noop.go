package notify

import (
	"context"

	"go.uber.org/zap"
)

// NoopNotifier logs events instead of publishing. Used when NATS_URL is not
// configured and in tests.
type NoopNotifier struct {
	logger *zap.Logger
}

func NewNoopNotifier(logger *zap.Logger) *NoopNotifier {
	return &NoopNotifier{logger: logger}
}

func (n *NoopNotifier) Publish(_ context.Context, event Event) error {
	n.logger.Info("reminder (noop)",
		zap.Int("reminder_id", event.ReminderID),
		zap.Int("user_id", event.UserID),
		zap.Int("task_id", event.TaskID),
		zap.String("message", event.Message),
	)
	return nil
}

func (n *NoopNotifier) Close() {}

var _ Notifier = (*NoopNotifier)(nil)
