package broadcast

import "context"

// Subject is the NATS subject the alert daemon publishes control messages on.
// Every open foreground instance subscribes to it.
const Subject = "alerts.broadcast"

// Type identifies one kind of control message.
type Type string

const (
	// TypePlaySound asks every foreground instance to start audible playback.
	TypePlaySound Type = "PLAY_SOUND"
	// TypeNotificationClicked reports that a user clicked the notification.
	TypeNotificationClicked Type = "NOTIFICATION_CLICKED"
	// TypeNotificationClosed reports that the notification was dismissed
	// without a click.
	TypeNotificationClosed Type = "NOTIFICATION_CLOSED"
	// TypeStopSound is an explicit stop signal, independent of any
	// notification interaction.
	TypeStopSound Type = "STOP_SOUND"
)

// Message is the tagged union carried on the broadcast channel. Data is the
// free-form payload of the originating push, so receivers can correlate the
// message with a specific alert.
type Message struct {
	Type Type              `json:"type"`
	Data map[string]string `json:"data,omitempty"`
}

// Publisher is the write side of the broadcast channel. Delivery is
// best-effort and non-durable: only instances open at the moment of delivery
// receive the message.
type Publisher interface {
	Broadcast(ctx context.Context, msg Message) error
}

// Handler consumes messages on the read side of the channel.
type Handler func(msg Message)
