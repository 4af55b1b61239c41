package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wealthpath/cadence/pkg/duration"
)

// SchedulerConfig controls the background job that materializes due occurrences.
type SchedulerConfig struct {
	Enabled  bool
	Schedule string        // Cron expression with seconds (e.g., "0 * * * * *" for every minute)
	Timeout  time.Duration // Timeout for one processing run
}

// ScheduleDefaults are applied to schedules created without explicit values.
type ScheduleDefaults struct {
	Interval     duration.Duration // ISO 8601, e.g. "P1M"
	Currency     string
	PreviewCount int // Runs returned by preview when no count is given
	MaxPreview   int // Upper bound on a requested preview count
	HistoryLimit int // Upper bound on listed occurrences
}

type Config struct {
	// Server
	Port            string
	Env             string // "development", "production"
	LogLevel        string // Overrides the level chosen by Env
	ShutdownTimeout time.Duration

	// Database
	DatabaseURL string

	// CORS
	AllowedOrigins []string

	Scheduler SchedulerConfig
	Schedules ScheduleDefaults
}

func Load() *Config {
	return &Config{
		// Server
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", ""),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/cadence?sslmode=disable"),

		// CORS
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),

		Scheduler: SchedulerConfig{
			Enabled:  getBoolEnv("SCHEDULER_ENABLED", true),
			Schedule: getEnv("SCHEDULER_SCHEDULE", "0 * * * * *"), // Default: every minute at second 0
			Timeout:  getDurationEnv("SCHEDULER_TIMEOUT", 2*time.Minute),
		},

		Schedules: ScheduleDefaults{
			Interval:     getISODurationEnv("DEFAULT_INTERVAL", duration.MustParse("P1M")),
			Currency:     getEnv("DEFAULT_CURRENCY", "USD"),
			PreviewCount: getIntEnv("PREVIEW_COUNT", 12),
			MaxPreview:   getIntEnv("MAX_PREVIEW", 366),
			HistoryLimit: getIntEnv("HISTORY_LIMIT", 100),
		},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getISODurationEnv reads an ISO 8601 duration such as "P1W" or "PT12H".
func getISODurationEnv(key string, defaultValue duration.Duration) duration.Duration {
	if d, ok := duration.TryParse(os.Getenv(key)); ok {
		return d
	}
	return defaultValue
}
