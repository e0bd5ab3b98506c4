package clients

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/GenturixHub/genturix-alerts/internal/logger"
)

// Opener opens a brand-new foreground instance on the given URL. Used when a
// notification is clicked and no instance is currently open.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// ExecOpener launches a configured command with the URL appended, typically a
// browser or a kiosk launcher.
type ExecOpener struct {
	command string
	logger  *logger.Logger
}

// NewExecOpener creates an opener around a shell-free command line, e.g.
// "xdg-open" or "chromium --app". An empty command yields a logging no-op.
func NewExecOpener(command string, logger *logger.Logger) *ExecOpener {
	return &ExecOpener{
		command: command,
		logger:  logger.WithComponent("opener"),
	}
}

// Open starts the command without waiting for it to exit; a browser process
// outlives the click that spawned it.
func (o *ExecOpener) Open(ctx context.Context, url string) error {
	if o.command == "" {
		o.logger.Warn("no open command configured, cannot open a new instance",
			slog.String("url", url))
		return nil
	}

	parts := strings.Fields(o.command)
	args := append(parts[1:], url)

	cmd := exec.CommandContext(ctx, parts[0], args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start open command: %w", err)
	}

	// Reap the child when it exits so it does not linger as a zombie.
	go func() { _ = cmd.Wait() }()

	o.logger.Info("opened new foreground instance", slog.String("url", url))
	return nil
}
