package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

type NATSNotifier struct {
	nc     *nats.Conn
	logger *zap.Logger
}

func NewNATSNotifier(url string, logger *zap.Logger) (*NATSNotifier, error) {
	nc, err := nats.Connect(url, nats.Name("journalmate-server"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	logger.Info("nats_connected", zap.String("url", url))
	return &NATSNotifier{nc: nc, logger: logger}, nil
}

// Publish sends the event to journalmate.reminders.{user_id}.
func (n *NATSNotifier) Publish(_ context.Context, event Event) error {
	subject := fmt.Sprintf("journalmate.reminders.%d", event.UserID)

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal reminder event: %w", err)
	}
	if err := n.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish reminder: %w", err)
	}
	return nil
}

func (n *NATSNotifier) Close() {
	if n.nc != nil {
		n.nc.Drain()
	}
}

var _ Notifier = (*NATSNotifier)(nil)
