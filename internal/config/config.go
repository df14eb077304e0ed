package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the analyzer commands
type Config struct {
	// Analysis archive (optional). Empty path disables archiving.
	DatabasePath string

	// Archived runs older than this many days are eligible for pruning.
	RetentionDays int
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		DatabasePath:  getEnv("TRIPSTATS_DB", ""),
		RetentionDays: getEnvInt("TRIPSTATS_RETENTION_DAYS", 90),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
