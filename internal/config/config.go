// Package config gathers runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/terraincognita07/fastfit/internal/services"
)

const minSecretKeyLength = 32

var (
	ErrMissingSecretKey  = errors.New("SECRET_KEY is required")
	ErrInsecureSecretKey = errors.New("SECRET_KEY must be at least 32 characters and not a placeholder")
	ErrInvalidTimezone   = errors.New("unknown time zone")
	ErrInvalidDuration   = errors.New("duration must be positive, like 30s or 5m")
)

var placeholderSecrets = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	Port               string
	DBPath             string
	Location           *time.Location
	SecretKey          string
	DefaultLanguage    string
	DefaultEatingStart services.TimeOfDay
	ReconcileInterval  time.Duration
	KafkaBrokers       []string
	KafkaTopic         string
	LogFormat          string
	LogLevel           string
	CookieSecure       bool
}

// LoadDotEnv reads an optional .env file. Variables already set in the environment win.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func Load() (Config, error) {
	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		DBPath:            getEnv("DB_PATH", filepath.Join("data", "fastfit.db")),
		DefaultLanguage:   getEnv("DEFAULT_LANGUAGE", "en"),
		KafkaBrokers:      splitAndTrim(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:        getEnv("KAFKA_TOPIC", "fastfit.cycles"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		CookieSecure:      getBoolEnv("COOKIE_SECURE", false),
	}

	location, err := loadLocation(getEnv("TZ", "UTC"))
	if err != nil {
		return Config{}, fmt.Errorf("TZ: %w", err)
	}
	cfg.Location = location

	interval, err := getDurationEnv("RECONCILE_INTERVAL", time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("RECONCILE_INTERVAL: %w", err)
	}
	cfg.ReconcileInterval = interval

	eatingStart, err := services.ParseTimeOfDay(getEnv("DEFAULT_EATING_START", "12:00"))
	if err != nil {
		return Config{}, fmt.Errorf("DEFAULT_EATING_START: %w", err)
	}
	cfg.DefaultEatingStart = eatingStart

	secret, err := resolveSecretKey()
	if err != nil {
		return Config{}, err
	}
	cfg.SecretKey = secret
	return cfg, nil
}

func resolveSecretKey() (string, error) {
	secret := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	if secret == "" {
		return "", ErrMissingSecretKey
	}
	if _, placeholder := placeholderSecrets[secret]; placeholder || len(secret) < minSecretKeyLength {
		return "", ErrInsecureSecretKey
	}
	return secret, nil
}

func loadLocation(name string) (*time.Location, error) {
	location, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q", ErrInvalidTimezone, name)
	}
	return location, nil
}

func getEnv(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("%w: got %q", ErrInvalidDuration, value)
	}
	return parsed, nil
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// DatabasePath resolves DB_PATH alone for commands that never serve HTTP.
func DatabasePath() string {
	return getEnv("DB_PATH", filepath.Join("data", "fastfit.db"))
}
