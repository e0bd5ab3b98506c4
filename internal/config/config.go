package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string

	// Firebase (notification presentation + interaction auth)
	FirebaseProjectID string
	FirebaseCredJSON  string

	// Database
	DatabaseURL string

	// Database Connection Pool
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxIdleTime int // in minutes
	DBConnMaxLifetime int // in minutes

	// Broadcast channel
	NatsURL string

	// Notification presentation
	PresenterEnabled bool   // If false, pushes are decoded and broadcast but no notification is sent.
	AppOrigin        string // Origin of the foreground application, used to match open instances.

	// Playback coordinator
	SafetyStopTimeout time.Duration // Force-stop interval for unacknowledged alerts.
	AckResetInterval  time.Duration // How often an acknowledged, idle coordinator re-arms.
	SoundCommand      string        // Command started to play the alert sound in a loop.
	OpenCommand       string        // Command used to open a new foreground instance.
	ClientListTimeout time.Duration // How long to gather presence replies from open instances.
	DispatchTimeout   time.Duration // Upper bound on a single push dispatch (display + broadcast).

	// Auth
	AuthEnabled bool

	// Server
	ServerShutdownTimeoutSeconds int

	// Logging
	LogLevel  string
	LogFormat string
}

var AppConfig *Config

func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),

		// Firebase
		FirebaseProjectID: getEnvOrDefault("FIREBASE_PROJECT_ID", ""),
		FirebaseCredJSON:  getEnvOrDefault("FIREBASE_CRED_JSON", ""),

		// Database
		DatabaseURL: getEnvOrDefault("DATABASE_URL", "postgres://localhost/genturix_alerts?sslmode=disable"),

		// Database Connection Pool
		DBMaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 15),
		DBMaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxIdleTime: getEnvAsInt("DB_CONN_MAX_IDLE_TIME_MINUTES", 1),
		DBConnMaxLifetime: getEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 30),

		// Broadcast channel
		NatsURL: getEnvOrDefault("NATS_URL", "nats://127.0.0.1:4222"),

		// Notification presentation
		PresenterEnabled: getEnvOrDefault("PRESENTER_ENABLED", "true") == "true",
		AppOrigin:        getEnvOrDefault("APP_ORIGIN", "https://app.genturix.com"),

		// Playback coordinator
		SafetyStopTimeout: getEnvAsDuration("SAFETY_STOP_TIMEOUT", 30*time.Second),
		AckResetInterval:  getEnvAsDuration("ACK_RESET_INTERVAL", 60*time.Second),
		SoundCommand:      getEnvOrDefault("SOUND_COMMAND", ""),
		OpenCommand:       getEnvOrDefault("OPEN_COMMAND", ""),
		ClientListTimeout: getEnvAsDuration("CLIENT_LIST_TIMEOUT", 500*time.Millisecond),
		DispatchTimeout:   getEnvAsDuration("DISPATCH_TIMEOUT", 30*time.Second),

		// Auth
		AuthEnabled: getEnvOrDefault("AUTH_ENABLED", "true") == "true",

		// Server
		ServerShutdownTimeoutSeconds: getEnvAsInt("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 30),

		// Logging
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "debug"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "text"),
	}

	if AppConfig.FirebaseProjectID == "" {
		log.Println("Warning: Firebase project ID is missing. Please set FIREBASE_PROJECT_ID environment variable.")
	}

	if AppConfig.PresenterEnabled && AppConfig.FirebaseCredJSON == "" {
		log.Println("Warning: Firebase credentials are missing. Please set FIREBASE_CRED_JSON environment variable.")
	}

	if AppConfig.SoundCommand == "" {
		log.Println("Warning: no sound command configured. Playback will be a no-op on this instance.")
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		} else {
			log.Printf("Warning: Failed to parse environment variable %s='%s' as time.Duration, using default %v: %v", key, value, defaultValue, err)
		}
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		} else {
			log.Printf("Warning: Failed to parse environment variable %s='%s' as int, using default %d: %v", key, value, defaultValue, err)
		}
	}
	return defaultValue
}
