package playback

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/GenturixHub/genturix-alerts/internal/broadcast"
	"github.com/GenturixHub/genturix-alerts/internal/logger"
	"github.com/robfig/cron/v3"
)

// Coordinator owns the acknowledgment/playback state of one foreground
// instance. It is the only writer of that state: broadcast messages, the
// safety timer and the periodic reset task all funnel through it under one
// mutex. State does not survive a restart of the instance.
//
// Invariants:
//   - at most one safety timer is armed at any time; arming disarms first
//   - acknowledged=true suppresses PLAY_SOUND until the periodic reset clears
//     it while playback is idle
type Coordinator struct {
	player Player
	logger *logger.Logger

	safetyStop time.Duration
	ackReset   time.Duration

	mu           sync.Mutex
	acknowledged bool
	safetyTimer  *time.Timer

	cron *cron.Cron
}

// NewCoordinator creates a coordinator for this instance. safetyStop bounds
// how long an unacknowledged alert may ring; ackReset is the interval at which
// an acknowledged, idle coordinator re-arms for future alerts.
func NewCoordinator(player Player, safetyStop, ackReset time.Duration, logger *logger.Logger) *Coordinator {
	return &Coordinator{
		player:     player,
		logger:     logger.WithComponent("playback-coordinator"),
		safetyStop: safetyStop,
		ackReset:   ackReset,
	}
}

// HandleMessage is the single dispatch point for broadcast messages. Unknown
// types are logged and ignored so a newer daemon cannot wedge an older
// instance.
func (c *Coordinator) HandleMessage(msg broadcast.Message) {
	switch msg.Type {
	case broadcast.TypePlaySound:
		c.handlePlay(msg)
	case broadcast.TypeNotificationClicked, broadcast.TypeNotificationClosed, broadcast.TypeStopSound:
		c.acknowledge(msg)
	default:
		c.logger.Warn("ignoring unknown broadcast message", slog.String("type", string(msg.Type)))
	}
}

func (c *Coordinator) handlePlay(msg broadcast.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.acknowledged {
		// A resolved alert window must not be re-triggered by a late or
		// duplicate push. The periodic reset is what re-arms us.
		c.logger.Info("play signal ignored, alert already acknowledged",
			slog.String("alert_type", msg.Data["type"]))
		return
	}

	c.disarmLocked()

	if err := c.player.Play(context.Background()); err != nil {
		// Policy-blocked playback is expected on instances without a prior
		// user gesture or without audio. The state machine proceeds as if
		// sound were audible.
		c.logger.Warn("playback start rejected", slog.String("error", err.Error()))
	}

	c.safetyTimer = time.AfterFunc(c.safetyStop, c.onSafetyStop)
	c.logger.Info("alert playback armed",
		slog.String("alert_type", msg.Data["type"]),
		slog.Duration("safety_stop", c.safetyStop))
}

// onSafetyStop fires when no acknowledgment arrived in time. Last-resort
// guarantee that an abandoned alert does not ring forever.
func (c *Coordinator) onSafetyStop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.safetyTimer = nil
	c.player.Stop()
	c.logger.Warn("safety stop fired, alert was never acknowledged")
}

func (c *Coordinator) acknowledge(msg broadcast.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.acknowledged = true
	c.disarmLocked()
	c.player.Stop()

	c.logger.Info("alert acknowledged",
		slog.String("message_type", string(msg.Type)),
		slog.String("alert_type", msg.Data["type"]))
}

// disarmLocked cancels the safety timer if one is armed. Caller holds c.mu.
func (c *Coordinator) disarmLocked() {
	if c.safetyTimer != nil {
		c.safetyTimer.Stop()
		c.safetyTimer = nil
	}
}

// ResetIfIdle clears the acknowledged flag when no playback is active, so an
// unrelated future alert rings normally. This is intentionally the only
// re-arm mechanism: a new alert raised between acknowledgment and the next
// reset tick stays silent until the tick.
func (c *Coordinator) ResetIfIdle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.acknowledged || c.player.Playing() {
		return
	}

	c.acknowledged = false
	c.logger.Info("acknowledgment window reset, ready for future alerts")
}

// StartResetTask schedules the periodic reset. Call once at instance startup.
func (c *Coordinator) StartResetTask() error {
	c.cron = cron.New()
	if _, err := c.cron.AddFunc(fmt.Sprintf("@every %s", c.ackReset), c.ResetIfIdle); err != nil {
		return fmt.Errorf("failed to schedule reset task: %w", err)
	}
	c.cron.Start()

	c.logger.Info("periodic reset task started", slog.Duration("interval", c.ackReset))
	return nil
}

// Shutdown stops the reset task, disarms the safety timer and stops playback.
func (c *Coordinator) Shutdown() {
	if c.cron != nil {
		c.cron.Stop()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.disarmLocked()
	c.player.Stop()
}

// Acknowledged reports whether the current alert window is acknowledged.
func (c *Coordinator) Acknowledged() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.acknowledged
}
