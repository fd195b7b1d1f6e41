// ABOUTME: Configuration loader for the callbridge service
// ABOUTME: Loads settings from .env and environment variables with defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends accepted by STORE_BACKEND.
const (
	StoreBackendFile     = "file"
	StoreBackendPostgres = "postgres"
)

type Config struct {
	// Server
	Port string

	// Admin API. An empty key disables every admin route (403).
	// The value is used verbatim; whitespace is significant.
	AdminAPIKey string

	// Exact-match CORS allow-list (empty = no CORS headers at all)
	AllowedOrigins []string

	// Webhooks
	WebhookSecret           string // empty = signature verification disabled
	WebhookToleranceSeconds int    // max signature age, default 1800
	RateLimitEnabled        bool   // default true
	RateLimitWebhook        int    // requests per minute per client IP, default 120

	// Caller memory storage
	StoreBackend      string // file (default) or postgres
	DataDir           string // file backend root, default ./data
	DatabaseURL       string // required for postgres
	MemoryCacheTTL    int    // seconds, 0 disables the read cache
	MaxFactsPerCaller int    // oldest facts beyond this are dropped
}

// AdminConfigured reports whether admin routes are enabled. Only the empty
// string counts as unconfigured; a blank key such as "   " is a real key.
func (c *Config) AdminConfigured() bool {
	return c.AdminAPIKey != ""
}

// WebhookTolerance returns the signature tolerance as a duration.
func (c *Config) WebhookTolerance() time.Duration {
	return time.Duration(c.WebhookToleranceSeconds) * time.Second
}

// Load reads .env (if present) and then the process environment.
// Variables already set in the environment win over .env values.
func Load() (*Config, error) {
	if err := loadDotEnv(getEnv("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		AdminAPIKey:    os.Getenv("ADMIN_API_KEY"),
		AllowedOrigins: getEnvStringList("ALLOWED_ORIGINS"),

		WebhookSecret:           os.Getenv("WEBHOOK_SECRET"),
		WebhookToleranceSeconds: getEnvInt("WEBHOOK_TOLERANCE_SECONDS", 1800),
		RateLimitEnabled:        getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitWebhook:        getEnvInt("RATE_LIMIT_WEBHOOK", 120),

		StoreBackend:      strings.ToLower(getEnv("STORE_BACKEND", StoreBackendFile)),
		DataDir:           getEnv("DATA_DIR", "./data"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		MemoryCacheTTL:    getEnvInt("MEMORY_CACHE_TTL", 60),
		MaxFactsPerCaller: getEnvInt("MAX_FACTS_PER_CALLER", 50),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints. It does not reject a blank
// admin key; that is logged instead so operators notice it.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreBackendFile:
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required for the file store")
		}
	case StoreBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("invalid STORE_BACKEND: %q (must be file or postgres)", c.StoreBackend)
	}

	if c.RateLimitWebhook < 1 || c.RateLimitWebhook > 10000 {
		return fmt.Errorf("RATE_LIMIT_WEBHOOK must be between 1 and 10000, got %d", c.RateLimitWebhook)
	}
	if c.MaxFactsPerCaller < 1 {
		return fmt.Errorf("MAX_FACTS_PER_CALLER must be at least 1, got %d", c.MaxFactsPerCaller)
	}
	if c.WebhookToleranceSeconds < 0 {
		return fmt.Errorf("WEBHOOK_TOLERANCE_SECONDS must not be negative, got %d", c.WebhookToleranceSeconds)
	}
	if c.MemoryCacheTTL < 0 {
		return fmt.Errorf("MEMORY_CACHE_TTL must not be negative, got %d", c.MemoryCacheTTL)
	}

	if c.AdminAPIKey != "" && strings.TrimSpace(c.AdminAPIKey) == "" {
		slog.Warn("ADMIN_API_KEY is whitespace only; it is treated as a configured key")
	}
	return nil
}

// loadDotEnv loads key=value pairs from path without overriding
// variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	slog.Debug("Loaded environment file", "path", path)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
