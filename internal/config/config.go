package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Generative model configuration
	GeminiAPIKey   string
	GeminiModel    string
	RequestTimeout time.Duration
	RetryEnabled   bool
	RetryBackoff   time.Duration

	// Data stores
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string

	// Digest schedule configuration
	DigestSchedule string // "daily", "weekly" or "off"
	TimeZone       string

	// Azure Storage configuration (digest archive)
	StorageAccount   string
	StorageContainer string

	// Digest notification configuration
	TeamsWebhookURL string
	DigestEmail     string
	SMTPHost        string
	SMTPPort        int
	SMTPUsername    string
	SMTPPassword    string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Debug: getBoolEnv("DEBUG", false),

		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		RequestTimeout: getDurationEnv("AI_REQUEST_TIMEOUT", 30*time.Second),
		RetryEnabled:   getBoolEnv("AI_RETRY_ENABLED", true),
		RetryBackoff:   getDurationEnv("AI_RETRY_BACKOFF", 2*time.Second),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		DigestSchedule: getEnv("DIGEST_SCHEDULE", "off"),
		TimeZone:       getEnv("TIMEZONE", "UTC"),

		StorageAccount:   getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer: getEnv("AZURE_STORAGE_CONTAINER", "digests"),

		TeamsWebhookURL: getEnv("TEAMS_WEBHOOK_URL", ""),
		DigestEmail:     getEnv("DIGEST_EMAIL", ""),
		SMTPHost:        getEnv("SMTP_HOST", ""),
		SMTPPort:        getIntEnv("SMTP_PORT", 587),
		SMTPUsername:    getEnv("SMTP_USERNAME", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
	}

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}

	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	switch c.DigestSchedule {
	case "daily", "weekly", "off":
	default:
		return fmt.Errorf("DIGEST_SCHEDULE must be 'daily', 'weekly' or 'off'")
	}

	if c.DigestSchedule != "off" && c.StorageAccount == "" {
		return fmt.Errorf("AZURE_STORAGE_ACCOUNT is required when DIGEST_SCHEDULE is enabled")
	}

	if c.DigestEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when DIGEST_EMAIL is set")
		}
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
