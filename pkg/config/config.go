package config

import (
	"time"

	"github.com/joho/godotenv"
)

// Config holds infrastructure configuration for the tracker. User-facing
// settings (league, category, refresh interval, ...) live in the settings
// file and are mutable at runtime; everything here is fixed at startup.
type Config struct {
	ServiceName string
	LogLevel    string
	LogPath     string

	NinjaBaseURL string
	NinjaCookie  string
	HTTPTimeout  time.Duration
	RetryMax     int

	RequestsPerSecond int
	RequestBurst      int

	SettingsPath string

	// Optional collaborators; empty values disable them.
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	DatabaseURL string
	NATSURL     string
	OpsPort     int

	AWSRegion   string
	SecretsEnv  string
	SecretsTTL  time.Duration
	CleanupFreq time.Duration
}

// Load loads configuration from environment variables and an optional .env file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServiceName:       GetEnv("SERVICE_NAME", "exile-tracker"),
		LogLevel:          GetEnv("LOG_LEVEL", "info"),
		LogPath:           GetEnv("LOG_PATH", "exile-tracker.log"),
		NinjaBaseURL:      GetEnv("NINJA_BASE_URL", "https://poe.ninja"),
		NinjaCookie:       GetEnv("POE_NINJA_COOKIE", ""),
		HTTPTimeout:       GetEnvDuration("HTTP_TIMEOUT", 30*time.Second),
		RetryMax:          GetEnvInt("HTTP_RETRY_MAX", 2),
		RequestsPerSecond: GetEnvInt("NINJA_RPS", 4),
		RequestBurst:      GetEnvInt("NINJA_BURST", 8),
		SettingsPath:      GetEnv("SETTINGS_PATH", "tracker_config.json"),
		RedisAddr:         GetEnv("REDIS_ADDR", ""),
		RedisDB:           GetEnvInt("REDIS_DB", 0),
		RedisPass:         GetEnv("REDIS_PASS", ""),
		DatabaseURL:       GetEnv("DATABASE_URL", ""),
		NATSURL:           GetEnv("NATS_URL", ""),
		OpsPort:           GetEnvInt("OPS_PORT", 0),
		AWSRegion:         GetEnv("AWS_REGION", "us-east-2"),
		SecretsEnv:        GetEnv("ENV", "dev"),
		SecretsTTL:        GetEnvDuration("SECRETS_TTL", 24*time.Hour),
		CleanupFreq:       GetEnvDuration("SECRETS_CLEANUP_FREQ", 10*time.Minute),
	}
}
