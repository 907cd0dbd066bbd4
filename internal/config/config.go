package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// JWT
	JWTSecret string

	// Business clock
	BusinessTimezone string

	// Location capture
	LocationTimeout   time.Duration
	LocationLookupURL string

	// Retention sweep (weekly purge of past-week sessions)
	RetentionSweepDay  time.Weekday
	RetentionSweepHour int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		Env:                getEnvOrDefault("ENV", "development"),
		DatabaseURL:        mustGetEnv("DATABASE_URL"),
		RedisURL:           mustGetEnv("REDIS_URL"),
		JWTSecret:          mustGetEnv("JWT_SECRET"),
		BusinessTimezone:   getEnvOrDefault("BUSINESS_TIMEZONE", "America/Los_Angeles"),
		LocationTimeout:    time.Duration(getEnvAsIntOrDefault("LOCATION_TIMEOUT_MS", 5000)) * time.Millisecond,
		LocationLookupURL:  getEnvOrDefault("LOCATION_LOOKUP_URL", ""),
		RetentionSweepDay:  getEnvAsWeekdayOrDefault("RETENTION_SWEEP_DAY", time.Friday),
		RetentionSweepHour: getEnvAsIntOrDefault("RETENTION_SWEEP_HOUR", 15),
		FrontendURL:        getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

// Location resolves the configured business timezone. Work dates and the
// non-working-day rule are evaluated in this zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.BusinessTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_TIMEZONE %q: %w", c.BusinessTimezone, err)
	}
	return loc, nil
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func getEnvAsWeekdayOrDefault(key string, defaultVal time.Weekday) time.Weekday {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if d, ok := weekdayNames[strings.ToLower(val)]; ok {
		return d
	}
	return defaultVal
}
