package interaction

import (
	"context"
	"log/slog"
	"strings"

	"github.com/GenturixHub/genturix-alerts/internal/broadcast"
	"github.com/GenturixHub/genturix-alerts/internal/clients"
	"github.com/GenturixHub/genturix-alerts/internal/logger"
	"github.com/GenturixHub/genturix-alerts/internal/push"
)

// Deep-link targets per notification type. Reservation and generic
// notifications may carry their own data.url instead.
const (
	pathSecurityAlerts = "/security-alerts"
	pathHistory        = "/resident/history"
	pathPendingVisits  = "/guard/pending-visits"
	pathReservations   = "/resident/reservations"
	pathRoot           = "/"
)

// staticRoutes covers the types whose target never depends on the payload.
var staticRoutes = map[string]string{
	push.TypePanicAlert:             pathSecurityAlerts,
	push.TypeVisitorArrival:         pathHistory,
	push.TypeVisitorExit:            pathHistory,
	push.TypeVisitorPreregistration: pathPendingVisits,
}

// InstanceDirectory lists and focuses open foreground instances.
type InstanceDirectory interface {
	List(ctx context.Context) ([]clients.ClientInfo, error)
	Focus(ctx context.Context, instanceID, url string) error
}

// Router handles user interaction with a shown notification: it resolves the
// deep-link target, brings a foreground instance to it, and broadcasts the
// acknowledgment so playback stops everywhere, not only in the focused
// instance. The alert may be ringing in a tab the user is not even looking at.
type Router struct {
	directory InstanceDirectory
	opener    clients.Opener
	publisher broadcast.Publisher
	logger    *logger.Logger
	appOrigin string
}

// NewRouter creates an interaction router.
func NewRouter(
	directory InstanceDirectory,
	opener clients.Opener,
	publisher broadcast.Publisher,
	appOrigin string,
	logger *logger.Logger,
) *Router {
	return &Router{
		directory: directory,
		opener:    opener,
		publisher: publisher,
		logger:    logger.WithComponent("interaction-router"),
		appOrigin: strings.TrimRight(appOrigin, "/"),
	}
}

// HandleClick processes a click on a notification or one of its action
// buttons. The notification itself is already closed by the platform when the
// callback arrives.
func (r *Router) HandleClick(ctx context.Context, action string, data map[string]string) {
	log := r.logger.WithContext(ctx)

	// Dismiss abandons the alert without acknowledging it. No navigation, no
	// broadcast; the distinction from acknowledgment is deliberate.
	if action == "dismiss" {
		log.Info("notification dismissed via action", slog.String("type", data["type"]))
		return
	}

	target := r.ResolveTarget(data)
	r.bringToForeground(ctx, target)

	// Every open instance gets the acknowledgment, not just the focused one.
	if err := r.publisher.Broadcast(ctx, broadcast.Message{
		Type: broadcast.TypeNotificationClicked,
		Data: data,
	}); err != nil {
		log.Error("failed to broadcast click acknowledgment", slog.String("error", err.Error()))
	}
}

// HandleClose processes a notification dismissed without a click.
func (r *Router) HandleClose(ctx context.Context, data map[string]string) {
	log := r.logger.WithContext(ctx)
	log.Info("notification closed", slog.String("type", data["type"]))

	if err := r.publisher.Broadcast(ctx, broadcast.Message{
		Type: broadcast.TypeNotificationClosed,
		Data: data,
	}); err != nil {
		log.Error("failed to broadcast close acknowledgment", slog.String("error", err.Error()))
	}
}

// StopAll broadcasts an explicit stop signal to every open instance.
func (r *Router) StopAll(ctx context.Context, data map[string]string) error {
	return r.publisher.Broadcast(ctx, broadcast.Message{
		Type: broadcast.TypeStopSound,
		Data: data,
	})
}

// ResolveTarget maps a notification's data to the absolute URL a click should
// land on.
func (r *Router) ResolveTarget(data map[string]string) string {
	typ := data["type"]

	if path, ok := staticRoutes[typ]; ok {
		return r.appOrigin + path
	}

	switch typ {
	case push.TypeReservationApproved, push.TypeReservationRejected, push.TypeReservationPending:
		return r.join(data["url"], pathReservations)
	default:
		return r.join(data["url"], pathRoot)
	}
}

// join prefers a payload-supplied URL over the fallback path. Relative URLs
// are anchored on the app origin; anything absolute is used as-is.
func (r *Router) join(url, fallbackPath string) string {
	if url == "" {
		return r.appOrigin + fallbackPath
	}
	if strings.HasPrefix(url, "/") {
		return r.appOrigin + url
	}
	return url
}

// bringToForeground focuses the first open instance on the app's own origin,
// or opens a new one when none is open. Both outcomes are best-effort; a
// failure here must not block the acknowledgment broadcast.
func (r *Router) bringToForeground(ctx context.Context, target string) {
	log := r.logger.WithContext(ctx)

	infos, err := r.directory.List(ctx)
	if err != nil {
		log.Warn("failed to list open instances", slog.String("error", err.Error()))
		infos = nil
	}

	for _, info := range infos {
		if !strings.HasPrefix(info.URL, r.appOrigin) {
			continue
		}
		if err := r.directory.Focus(ctx, info.InstanceID, target); err != nil {
			log.Warn("failed to focus instance",
				slog.String("instance_id", info.InstanceID),
				slog.String("error", err.Error()))
			continue
		}
		return
	}

	if err := r.opener.Open(ctx, target); err != nil {
		log.Warn("failed to open new instance",
			slog.String("url", target),
			slog.String("error", err.Error()))
	}
}
