package notify

import (
	"context"
	"fmt"
	"log/slog"

	"firebase.google.com/go/v4/messaging"
	"github.com/GenturixHub/genturix-alerts/internal/logger"
	"github.com/GenturixHub/genturix-alerts/internal/push"
)

// Presenter displays a system notification on the user's devices. Show blocks
// until the platform has accepted the notification; the caller relies on that
// to sequence the follow-up broadcast after the display settles.
type Presenter interface {
	Show(ctx context.Context, d push.Descriptor, opts Options) error
}

// TokenStore provides the device tokens the presenter delivers to.
type TokenStore interface {
	ActiveTokens(ctx context.Context) ([]string, error)
	Revoke(ctx context.Context, token string) error
}

// FCMPresenter sends WebPush notifications through Firebase Cloud Messaging
// to every registered device.
type FCMPresenter struct {
	client *messaging.Client
	tokens TokenStore
	logger *logger.Logger
}

// NewFCMPresenter creates a presenter over an initialized messaging client.
func NewFCMPresenter(client *messaging.Client, tokens TokenStore, logger *logger.Logger) *FCMPresenter {
	return &FCMPresenter{
		client: client,
		tokens: tokens,
		logger: logger.WithComponent("fcm-presenter"),
	}
}

// Show delivers the notification to all active device tokens. Tokens FCM
// reports as unregistered are revoked so they are not retried on the next
// alert. Show fails only when every delivery failed; a partially reached
// device set still counts as displayed.
func (p *FCMPresenter) Show(ctx context.Context, d push.Descriptor, opts Options) error {
	log := p.logger.WithContext(ctx)

	tokens, err := p.tokens.ActiveTokens(ctx)
	if err != nil {
		return fmt.Errorf("failed to load device tokens: %w", err)
	}
	if len(tokens) == 0 {
		return fmt.Errorf("no registered devices")
	}

	msg := p.buildMessage(d, opts)

	successCount := 0
	for _, token := range tokens {
		msg.Token = token

		response, err := p.client.Send(ctx, msg)
		if err != nil {
			if messaging.IsUnregistered(err) {
				log.Warn("device token no longer registered, revoking",
					slog.String("token_prefix", tokenPrefix(token)))
				if revokeErr := p.tokens.Revoke(ctx, token); revokeErr != nil {
					log.Warn("failed to revoke stale token",
						slog.String("token_prefix", tokenPrefix(token)),
						slog.String("error", revokeErr.Error()))
				}
				continue
			}
			log.Error("failed to send notification to device",
				slog.String("token_prefix", tokenPrefix(token)),
				slog.String("error", err.Error()))
			continue
		}

		successCount++
		log.Debug("notification sent",
			slog.String("token_prefix", tokenPrefix(token)),
			slog.String("response", response))
	}

	log.Info("notification displayed",
		slog.String("tag", d.Tag),
		slog.String("type", d.Type()),
		slog.Int("devices", len(tokens)),
		slog.Int("delivered", successCount))

	if successCount == 0 {
		return fmt.Errorf("all %d notification deliveries failed", len(tokens))
	}
	return nil
}

// buildMessage maps the descriptor and options onto the FCM WebPush surface.
// The tag plus renotify is what makes successive alerts with the same tag
// replace each other instead of stacking.
func (p *FCMPresenter) buildMessage(d push.Descriptor, opts Options) *messaging.Message {
	actions := make([]*messaging.WebpushNotificationAction, 0, len(opts.Actions))
	for _, a := range opts.Actions {
		actions = append(actions, &messaging.WebpushNotificationAction{
			Action: a.Action,
			Title:  a.Title,
		})
	}

	return &messaging.Message{
		Data: d.Data,
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title:              d.Title,
				Body:               d.Body,
				Icon:               d.Icon,
				Badge:              d.Badge,
				Tag:                d.Tag,
				Renotify:           opts.Renotify,
				RequireInteraction: opts.RequireInteraction,
				Silent:             opts.Silent,
				Vibrate:            opts.Vibrate,
				Actions:            actions,
			},
		},
	}
}

func tokenPrefix(token string) string {
	if len(token) > 10 {
		return token[:10] + "..."
	}
	return token
}
