package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/GenturixHub/genturix-alerts/internal/broadcast"
	"github.com/GenturixHub/genturix-alerts/internal/clients"
	"github.com/GenturixHub/genturix-alerts/internal/config"
	"github.com/GenturixHub/genturix-alerts/internal/logger"
	"github.com/GenturixHub/genturix-alerts/internal/playback"
	"github.com/nats-io/nats.go"
)

// player is one foreground instance of the application. It subscribes to the
// broadcast channel, owns this instance's acknowledgment state and drives
// audible playback. Several players may run at once; each reacts to every
// broadcast independently.
func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	log := logger.New(logger.FromConfig(cfg.LogLevel, cfg.LogFormat)).WithComponent("player")

	nc, err := nats.Connect(cfg.NatsURL, nats.Name("genturix-player-"+logger.GetInstanceID()))
	if err != nil {
		log.Error("failed to connect to NATS", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer nc.Drain()

	player := playback.NewExecPlayer(cfg.SoundCommand, log)
	coordinator := playback.NewCoordinator(player, cfg.SafetyStopTimeout, cfg.AckResetInterval, log)

	if err := coordinator.StartResetTask(); err != nil {
		log.Error("failed to start reset task", slog.String("error", err.Error()))
		os.Exit(1)
	}

	channel := broadcast.NewChannel(nc, log)
	sub, err := channel.Subscribe(coordinator.HandleMessage)
	if err != nil {
		log.Error("failed to subscribe to broadcast channel", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Answer presence pings so notification clicks can focus this instance.
	responder := clients.NewResponder(nc, logger.GetInstanceID(), cfg.AppOrigin+"/", log)
	if err := responder.Start(); err != nil {
		log.Error("failed to start presence responder", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("foreground instance ready",
		slog.String("instance_id", logger.GetInstanceID()),
		slog.Duration("safety_stop", cfg.SafetyStopTimeout),
		slog.Duration("ack_reset", cfg.AckResetInterval))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down foreground instance")

	if err := responder.Stop(); err != nil {
		log.Warn("failed to stop presence responder", slog.String("error", err.Error()))
	}
	if err := sub.Drain(); err != nil {
		log.Warn("failed to drain broadcast subscription", slog.String("error", err.Error()))
	}
	coordinator.Shutdown()

	log.Info("foreground instance exited")
}
