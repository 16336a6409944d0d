package app

import (
	"os"
	"strconv"
	"time"

	"github.com/wardenauth/warden/pkg/jwtx"
)

type Config struct {
	Issuer                 string        // Issuer claim for minted tokens (default: warden)
	DatabaseFile           string        // Path to SQLite database file (default: ./warden.db)
	SigningKeyFile         string        // Optional: path to an Ed25519 private key in PKCS8 PEM; ephemeral key when unset
	PersonalAccessClientID string        // Optional: pins the personal access client, bypassing designation records
	AccessTTL              time.Duration // Lifetime of minted access tokens (default: 24h)
	Env                    string        // Environment (dev, staging, prod) (default: dev)
	LogLevel               string        // Log level (debug, info, warn, error) (default: info)
	LogFormat              string        // Log format (json, text) (default: json)
	Port                   int           // HTTP server port (default: 8080)
	ShutdownGracePeriod    time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Issuer:                 getEnvOrDefault("WARDEN_ISSUER", "warden"),
		DatabaseFile:           getEnvOrDefault("WARDEN_DATABASE_FILE", "warden.db"),
		SigningKeyFile:         os.Getenv("WARDEN_SIGNING_KEY_FILE"),
		PersonalAccessClientID: os.Getenv("WARDEN_PERSONAL_ACCESS_CLIENT_ID"),
		AccessTTL:              getEnvDurationOrDefault("WARDEN_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		Env:                    getEnvOrDefault("ENV", "dev"),
		LogLevel:               getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:              getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                   getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:    getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
