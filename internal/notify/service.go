package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/GenturixHub/genturix-alerts/internal/broadcast"
	"github.com/GenturixHub/genturix-alerts/internal/logger"
	"github.com/GenturixHub/genturix-alerts/internal/push"
)

// Service turns incoming push messages into displayed notifications and, for
// urgent alerts, a PLAY_SOUND broadcast to every open foreground instance.
//
// Each push is processed on its own goroutine, detached from the HTTP request
// that delivered it, and tracked in a wait group. Shutdown drains the group so
// the daemon cannot be recycled while a display or broadcast is still in
// flight.
type Service struct {
	presenter       Presenter
	publisher       broadcast.Publisher
	logger          *logger.Logger
	enabled         bool
	dispatchTimeout time.Duration

	wg sync.WaitGroup
}

// NewService creates a push dispatch service.
func NewService(
	presenter Presenter,
	publisher broadcast.Publisher,
	logger *logger.Logger,
	enabled bool,
	dispatchTimeout time.Duration,
) *Service {
	return &Service{
		presenter:       presenter,
		publisher:       publisher,
		logger:          logger.WithComponent("notify"),
		enabled:         enabled,
		dispatchTimeout: dispatchTimeout,
	}
}

// Dispatch accepts an opaque push body and processes it asynchronously. It
// never reports an error to the caller: every failure mode inside the dispatch
// degrades to "no alert shown" and is only logged.
func (s *Service) Dispatch(ctx context.Context, raw []byte) {
	// Carry the request ID across the goroutine boundary, nothing else from
	// the HTTP context survives.
	dispatchCtx := context.Background()
	if requestID, ok := ctx.Value(logger.ContextKeyRequestID).(string); ok {
		dispatchCtx = logger.WithRequestID(dispatchCtx, requestID)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(dispatchCtx, s.dispatchTimeout)
		defer cancel()

		s.handlePush(ctx, raw)
	}()
}

// handlePush runs one full push dispatch: decode, present, broadcast.
func (s *Service) handlePush(ctx context.Context, raw []byte) {
	d := push.Decode(raw)
	ctx = logger.WithTag(ctx, d.Tag)
	log := s.logger.WithContext(ctx)

	log.Info("push received",
		slog.String("type", d.Type()),
		slog.Bool("urgent", d.Urgent()),
		slog.Int("body_bytes", len(raw)))

	opts := BuildOptions(d)

	if s.enabled {
		if err := s.presenter.Show(ctx, d, opts); err != nil {
			// Not retried: a retry could duplicate a notification the
			// platform already delivered.
			log.Error("failed to display notification",
				slog.String("type", d.Type()),
				slog.String("error", err.Error()))
			return
		}
	} else {
		log.Debug("presenter disabled, skipping display")
	}

	if !d.Urgent() {
		return
	}

	// Audible alerting must not depend on platform notification sound; some
	// environments suppress it. Broadcast only after the display settled so a
	// failed display does not ring sirens for a notification nobody can see.
	if err := s.publisher.Broadcast(ctx, broadcast.Message{
		Type: broadcast.TypePlaySound,
		Data: d.Data,
	}); err != nil {
		log.Error("failed to broadcast play signal", slog.String("error", err.Error()))
	}
}

// Shutdown waits for in-flight dispatches to settle, up to the context
// deadline.
func (s *Service) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
