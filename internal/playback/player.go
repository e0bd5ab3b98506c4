package playback

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"

	"github.com/GenturixHub/genturix-alerts/internal/logger"
)

// Player drives audible alert playback for one foreground instance.
//
// Play always restarts from the beginning, even if the sound is already
// running; a new alert must not resume mid-siren. Starting playback may be
// rejected by platform policy, so callers treat a Play error as non-fatal.
type Player interface {
	Play(ctx context.Context) error
	Stop()
	Playing() bool
}

// ExecPlayer plays the alert sound by running a configured loop command, e.g.
// "ffplay -nodisp -loop 0 /opt/genturix/alert.ogg". Stopping kills the
// process.
type ExecPlayer struct {
	command string
	logger  *logger.Logger

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewExecPlayer creates a player around a sound-loop command line. An empty
// command yields a player that never plays, which keeps instances without
// audio hardware on the same code path.
func NewExecPlayer(command string, logger *logger.Logger) *ExecPlayer {
	return &ExecPlayer{
		command: command,
		logger:  logger.WithComponent("player"),
	}
}

// Play stops any running playback and starts the sound from the beginning.
func (p *ExecPlayer) Play(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.command == "" {
		return fmt.Errorf("no sound command configured")
	}

	p.stopLocked()

	parts := strings.Fields(p.command)
	cmd := exec.Command(parts[0], parts[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start sound command: %w", err)
	}

	p.cmd = cmd
	p.logger.Info("playback started", slog.Int("pid", cmd.Process.Pid))

	go func() {
		_ = cmd.Wait()
		p.mu.Lock()
		if p.cmd == cmd {
			p.cmd = nil
		}
		p.mu.Unlock()
	}()

	return nil
}

// Stop kills the playback process if one is running.
func (p *ExecPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *ExecPlayer) stopLocked() {
	if p.cmd == nil || p.cmd.Process == nil {
		return
	}
	if err := p.cmd.Process.Kill(); err != nil {
		p.logger.Warn("failed to kill playback process", slog.String("error", err.Error()))
	}
	p.cmd = nil
	p.logger.Info("playback stopped")
}

// Playing reports whether the playback process is currently running.
func (p *ExecPlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cmd != nil
}
