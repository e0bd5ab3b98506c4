package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/GenturixHub/genturix-alerts/internal/logger"
	"github.com/nats-io/nats.go"
)

// Channel is the NATS-backed broadcast channel between the alert daemon and
// all currently-open foreground instances.
//
// Architecture:
//
//	alertd (background context)          player (foreground instance, xN)
//	───────────────────────────          ──────────────────────────────
//	Broadcast(PLAY_SOUND)
//	  └─► publish alerts.broadcast ────► subscription callback
//	                                       └─► decode Message
//	                                       └─► playback coordinator
//
// NATS core pub/sub gives exactly the contract the protocol wants: fan-out to
// every current subscriber, nothing retained for instances that connect later.
type Channel struct {
	nc     *nats.Conn
	logger *logger.Logger
}

// NewChannel creates a broadcast channel over an established NATS connection.
func NewChannel(nc *nats.Conn, logger *logger.Logger) *Channel {
	return &Channel{
		nc:     nc,
		logger: logger.WithComponent("broadcast"),
	}
}

// Broadcast publishes a control message to all open foreground instances.
func (c *Channel) Broadcast(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal broadcast message: %w", err)
	}

	if err := c.nc.Publish(Subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", Subject, err)
	}

	c.logger.Debug("broadcast published",
		slog.String("type", string(msg.Type)),
		slog.Int("data_fields", len(msg.Data)))

	return nil
}

// Subscribe attaches a handler to the broadcast subject. Malformed messages
// are logged and dropped; a bad payload from one publisher must not take the
// subscription down.
func (c *Channel) Subscribe(handler Handler) (*nats.Subscription, error) {
	sub, err := c.nc.Subscribe(Subject, func(m *nats.Msg) {
		var msg Message
		if err := json.Unmarshal(m.Data, &msg); err != nil {
			c.logger.Warn("received invalid broadcast message", slog.String("error", err.Error()))
			return
		}
		handler(msg)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", Subject, err)
	}

	c.logger.Info("subscribed to broadcast channel", slog.String("subject", Subject))
	return sub, nil
}
