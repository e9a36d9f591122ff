package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DatabasePath           string
	LogLevel               string
	Port                   int
	DevMode                bool
	RecomputeSchedule      string // cron spec for the pipeline recompute job
	EnforceConcentration   bool   // enforce position/sector limits instead of monitoring only
	DriftAlertThresholdPct float64
	SeedDefaultIndicators  bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:                   getEnvAsInt("PORT", 8010),
		DevMode:                getEnvAsBool("DEV_MODE", false),
		DatabasePath:           getEnv("DATABASE_PATH", "./data/macro.db"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		RecomputeSchedule:      getEnv("RECOMPUTE_SCHEDULE", "@hourly"),
		EnforceConcentration:   getEnvAsBool("ENFORCE_CONCENTRATION_LIMITS", false),
		DriftAlertThresholdPct: getEnvAsFloat("DRIFT_ALERT_THRESHOLD_PCT", 1.0),
		SeedDefaultIndicators:  getEnvAsBool("SEED_DEFAULT_INDICATORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.DriftAlertThresholdPct < 0 {
		return fmt.Errorf("DRIFT_ALERT_THRESHOLD_PCT must be non-negative")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
