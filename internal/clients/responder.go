package clients

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/GenturixHub/genturix-alerts/internal/logger"
	"github.com/nats-io/nats.go"
)

// Responder is the foreground-instance side of the directory. It answers
// presence pings with this instance's identity and current route, and applies
// navigate-and-focus commands addressed to it.
type Responder struct {
	nc         *nats.Conn
	logger     *logger.Logger
	instanceID string
	startedAt  time.Time

	mu  sync.RWMutex
	url string

	subs []*nats.Subscription
}

// NewResponder creates a responder for this foreground instance. initialURL is
// the route the instance opened on.
func NewResponder(nc *nats.Conn, instanceID, initialURL string, logger *logger.Logger) *Responder {
	return &Responder{
		nc:         nc,
		logger:     logger.WithComponent("client-responder"),
		instanceID: instanceID,
		startedAt:  time.Now(),
		url:        initialURL,
	}
}

// Start subscribes to the presence and focus subjects. Call once at instance
// startup.
func (r *Responder) Start() error {
	pingSub, err := r.nc.Subscribe(pingSubject, r.handlePing)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", pingSubject, err)
	}
	r.subs = append(r.subs, pingSub)

	focusSub, err := r.nc.Subscribe(focusSubjectPrefix+r.instanceID, r.handleFocus)
	if err != nil {
		return fmt.Errorf("failed to subscribe to focus subject: %w", err)
	}
	r.subs = append(r.subs, focusSub)

	r.logger.Info("presence responder started", slog.String("instance_id", r.instanceID))
	return nil
}

// Stop drains the subscriptions. After Stop this instance no longer counts as
// open.
func (r *Responder) Stop() error {
	for _, sub := range r.subs {
		if err := sub.Drain(); err != nil {
			return fmt.Errorf("failed to drain subscription: %w", err)
		}
	}
	r.logger.Info("presence responder stopped")
	return nil
}

// CurrentURL returns the route this instance is showing.
func (r *Responder) CurrentURL() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.url
}

func (r *Responder) handlePing(msg *nats.Msg) {
	info := ClientInfo{
		InstanceID: r.instanceID,
		URL:        r.CurrentURL(),
		StartedAt:  r.startedAt,
	}

	data, err := json.Marshal(info)
	if err != nil {
		r.logger.Error("failed to marshal presence reply", slog.String("error", err.Error()))
		return
	}

	if err := msg.Respond(data); err != nil {
		r.logger.Error("failed to send presence reply", slog.String("error", err.Error()))
	}
}

func (r *Responder) handleFocus(msg *nats.Msg) {
	var cmd FocusCommand
	if err := json.Unmarshal(msg.Data, &cmd); err != nil {
		r.logger.Warn("received invalid focus command", slog.String("error", err.Error()))
		return
	}

	r.mu.Lock()
	r.url = cmd.URL
	r.mu.Unlock()

	r.logger.Info("navigated and focused", slog.String("url", cmd.URL))
}
