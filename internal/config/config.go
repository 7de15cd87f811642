// Package config loads runtime settings from the environment.
package config

import (
	"os"
	"strconv"
)

// Config holds the bankd runtime settings.
type Config struct {
	Port                 string
	DataDir              string
	StoreBackend         string // "file" or "memory"
	AllowOrigins         string
	LogLevel             string
	SchedulerIntervalSec int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// Load reads the configuration, applying defaults for unset variables.
func Load() *Config {
	return &Config{
		Port:                 getenv("PORT", "8080"),
		DataDir:              getenv("DATA_DIR", "data"),
		StoreBackend:         getenv("STORE_BACKEND", "file"),
		AllowOrigins:         getenv("ALLOW_ORIGINS", "*"),
		LogLevel:             getenv("LOG_LEVEL", "info"),
		SchedulerIntervalSec: atoi("SCHEDULER_INTERVAL_SECONDS", 60),
	}
}
