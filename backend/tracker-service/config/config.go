package config

import (
	"os"
	"strconv"

	"github.com/yolmane/fintech-project-manager/backend/tracker-service/logging"
)

// GetString retrieves an environment variable or returns a fallback when unset.
func GetString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetInt retrieves an environment variable as integer or returns fallback.
func GetInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			logging.Logger.Warnf("Event ID: CONFIG_INVALID_VALUE, Description: invalid value for %s: %v", key, err)
			return fallback
		}
		return parsed
	}
	return fallback
}
