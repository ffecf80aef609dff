package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the CLI settings read from the environment. Flags
// override every field.
type Config struct {
	BaseURL     string
	HTTPTimeout time.Duration

	// List upload.
	Profile      string
	Token        string
	ResponseType string
	ResponseURI  string

	// Signup and optout.
	Account string

	// One-to-one.
	Username string
	Password string

	WebhookAddr   string
	WebhookSecret string

	LogDevelopment bool
	LogVerbosity   int
}

// Load reads an optional .env file from envFile (skipped when empty or
// missing) and then the process environment.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := Config{
		BaseURL:        getEnv("PURE360_BASE_URL", ""),
		Profile:        getEnv("PURE360_PROFILE", ""),
		Token:          getEnv("PURE360_TOKEN", ""),
		ResponseType:   getEnv("PURE360_RESPONSE_TYPE", "EMAIL"),
		ResponseURI:    getEnv("PURE360_RESPONSE_URI", ""),
		Account:        getEnv("PURE360_ACCOUNT", ""),
		Username:       getEnv("PURE360_USERNAME", ""),
		Password:       getEnv("PURE360_PASSWORD", ""),
		WebhookAddr:    getEnv("PURE360_WEBHOOK_ADDR", ":8080"),
		WebhookSecret:  getEnv("PURE360_WEBHOOK_SECRET", ""),
		LogDevelopment: getEnvBool("LOG_DEVELOPMENT", false),
	}

	var err error
	if cfg.HTTPTimeout, err = getEnvDuration("PURE360_HTTP_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.LogVerbosity, err = getEnvInt("LOG_VERBOSITY", 0); err != nil {
		return Config{}, err
	}
	if cfg.HTTPTimeout <= 0 {
		return Config{}, fmt.Errorf("PURE360_HTTP_TIMEOUT must be positive, got %s", cfg.HTTPTimeout)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
