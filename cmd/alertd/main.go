package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/GenturixHub/genturix-alerts/internal/auth"
	"github.com/GenturixHub/genturix-alerts/internal/broadcast"
	"github.com/GenturixHub/genturix-alerts/internal/clients"
	"github.com/GenturixHub/genturix-alerts/internal/config"
	"github.com/GenturixHub/genturix-alerts/internal/interaction"
	"github.com/GenturixHub/genturix-alerts/internal/logger"
	"github.com/GenturixHub/genturix-alerts/internal/notify"
	"github.com/GenturixHub/genturix-alerts/internal/push"
	"github.com/GenturixHub/genturix-alerts/internal/storage/pg"
	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"google.golang.org/api/option"
)

// alertd is the background execution context: always resident, it receives
// push messages, presents system notifications, routes notification
// interactions and broadcasts control messages to every open foreground
// instance.
func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	log := logger.New(logger.FromConfig(cfg.LogLevel, cfg.LogFormat)).WithComponent("alertd")

	gin.SetMode(cfg.GinMode)

	// Broadcast channel
	nc, err := nats.Connect(cfg.NatsURL, nats.Name("genturix-alertd"))
	if err != nil {
		log.Error("failed to connect to NATS", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer nc.Drain()

	channel := broadcast.NewChannel(nc, log)
	directory := clients.NewDirectory(nc, cfg.ClientListTimeout, log)
	opener := clients.NewExecOpener(cfg.OpenCommand, log)

	// Notification presentation
	var presenter notify.Presenter
	if cfg.PresenterEnabled {
		db, err := pg.InitDatabase(cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to initialize database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer db.DB.Close()

		messagingClient, err := newMessagingClient(cfg)
		if err != nil {
			log.Error("failed to initialize FCM client", slog.String("error", err.Error()))
			os.Exit(1)
		}

		presenter = notify.NewFCMPresenter(messagingClient, db.Tokens, log)
	} else {
		log.Warn("presenter disabled, notifications will not be displayed")
	}

	notifyService := notify.NewService(presenter, channel, log, cfg.PresenterEnabled, cfg.DispatchTimeout)
	router := interaction.NewRouter(directory, opener, channel, cfg.AppOrigin, log)

	pushHandler := push.NewHandler(notifyService, log)
	interactionHandler := interaction.NewHandler(router)

	// Initialize Gin router
	engine := gin.Default()

	// Add CORS middleware
	engine.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// The push gateway cannot carry user credentials; ingestion stays open.
	engine.POST("/push", pushHandler.HandleIncoming)

	// Interaction callbacks originate from authenticated devices.
	protected := engine.Group("/")
	if cfg.AuthEnabled {
		validator, err := auth.NewFirebaseTokenValidator(context.Background(), cfg.FirebaseCredJSON)
		if err != nil {
			log.Error("failed to initialize token validator", slog.String("error", err.Error()))
			os.Exit(1)
		}
		protected.Use(auth.NewMiddleware(validator).RequireAuth())
	} else {
		log.Warn("auth disabled, interaction endpoints are unprotected")
	}
	{
		protected.POST("/interactions", interactionHandler.HandleEvent)
		protected.POST("/alerts/stop", interactionHandler.HandleStop)
	}

	port := ":" + cfg.Port
	log.Info("alert daemon listening", slog.String("port", port))

	srv := &http.Server{
		Addr:    port,
		Handler: engine,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down alert daemon")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ServerShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	// Drain in-flight dispatches first: a push accepted with 202 must reach
	// display and broadcast before the process exits.
	if err := notifyService.Shutdown(ctx); err != nil {
		log.Warn("dispatches still in flight at shutdown", slog.String("error", err.Error()))
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("alert daemon exited")
}

func newMessagingClient(cfg *config.Config) (*messaging.Client, error) {
	ctx := context.Background()

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID},
		option.WithCredentialsJSON([]byte(cfg.FirebaseCredJSON)))
	if err != nil {
		return nil, err
	}

	return app.Messaging(ctx)
}
