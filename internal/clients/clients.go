package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GenturixHub/genturix-alerts/internal/logger"
	"github.com/nats-io/nats.go"
)

const (
	// pingSubject is where the daemon asks open foreground instances to
	// report themselves.
	pingSubject = "alerts.clients.ping"

	// focusSubjectPrefix addresses one specific instance for a
	// navigate-and-focus command.
	focusSubjectPrefix = "alerts.clients.focus."
)

// ClientInfo describes one open foreground instance.
type ClientInfo struct {
	InstanceID string    `json:"instance_id"`
	URL        string    `json:"url"`
	StartedAt  time.Time `json:"started_at"`
}

// FocusCommand asks an instance to navigate to a URL and take focus.
type FocusCommand struct {
	URL string `json:"url"`
}

// Directory is the daemon-side view of currently-open foreground instances.
// There is no membership state anywhere: List asks over NATS and whoever
// answers inside the window is, by definition, open right now.
type Directory struct {
	nc         *nats.Conn
	logger     *logger.Logger
	listWindow time.Duration
}

// NewDirectory creates a client directory over an established NATS connection.
func NewDirectory(nc *nats.Conn, listWindow time.Duration, logger *logger.Logger) *Directory {
	return &Directory{
		nc:         nc,
		logger:     logger.WithComponent("client-directory"),
		listWindow: listWindow,
	}
}

// List gathers presence replies from every open foreground instance. An empty
// result is not an error; it means no instance is open at this moment.
func (d *Directory) List(ctx context.Context) ([]ClientInfo, error) {
	inbox := d.nc.NewRespInbox()
	sub, err := d.nc.SubscribeSync(inbox)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to reply inbox: %w", err)
	}
	defer sub.Unsubscribe()

	if err := d.nc.PublishRequest(pingSubject, inbox, nil); err != nil {
		return nil, fmt.Errorf("failed to publish presence ping: %w", err)
	}

	// The gather window is short and fixed: every instance open right now
	// answers within it, and the deadline doubles as the termination signal.
	wctx, cancel := context.WithTimeout(ctx, d.listWindow)
	defer cancel()

	var infos []ClientInfo
	for {
		msg, err := sub.NextMsgWithContext(wctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				break
			}
			return infos, err
		}

		var info ClientInfo
		if err := json.Unmarshal(msg.Data, &info); err != nil {
			d.logger.Warn("received invalid presence reply", slog.String("error", err.Error()))
			continue
		}
		infos = append(infos, info)
	}

	d.logger.Debug("presence scan finished", slog.Int("open_instances", len(infos)))
	return infos, nil
}

// Focus sends a navigate-and-focus command to one instance. Fire and forget:
// if the instance closed between List and Focus, nobody is listening and the
// click falls back to nothing worse than an unfocused tab.
func (d *Directory) Focus(ctx context.Context, instanceID, url string) error {
	data, err := json.Marshal(FocusCommand{URL: url})
	if err != nil {
		return fmt.Errorf("failed to marshal focus command: %w", err)
	}

	if err := d.nc.Publish(focusSubjectPrefix+instanceID, data); err != nil {
		return fmt.Errorf("failed to publish focus command: %w", err)
	}

	d.logger.Info("focus command sent",
		slog.String("target_instance", instanceID),
		slog.String("url", url))
	return nil
}
