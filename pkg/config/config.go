package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Env       string
	API       APIConfig
	Search    SearchConfig
	Freshness FreshnessConfig
	Locale    LocaleConfig
	State     StateConfig
}

// APIConfig holds ward availability API configuration
type APIConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// SearchConfig holds search input configuration
type SearchConfig struct {
	DebounceMs int
	MinChars   int
}

// FreshnessConfig holds data freshness configuration
type FreshnessConfig struct {
	StaleAfterHours int
}

// LocaleConfig holds locale configuration
type LocaleConfig struct {
	Collation string
}

// StateConfig holds persisted client state configuration
type StateConfig struct {
	FilePath string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Env: getEnv("WARDWATCH_ENV", "development"),
		API: APIConfig{
			BaseURL:        getEnv("WARDWATCH_API_URL", "http://localhost:8080/api/v1"),
			TimeoutSeconds: getEnvAsInt("WARDWATCH_HTTP_TIMEOUT_SECONDS", 10),
		},
		Search: SearchConfig{
			DebounceMs: getEnvAsInt("WARDWATCH_DEBOUNCE_MS", 300),
			MinChars:   getEnvAsInt("WARDWATCH_SEARCH_MIN_CHARS", 2),
		},
		Freshness: FreshnessConfig{
			StaleAfterHours: getEnvAsInt("WARDWATCH_STALE_AFTER_HOURS", 12),
		},
		Locale: LocaleConfig{
			Collation: getEnv("WARDWATCH_COLLATION_LOCALE", "pl"),
		},
		State: StateConfig{
			FilePath: getEnv("WARDWATCH_STATE_FILE", defaultStatePath()),
		},
	}

	if cfg.Search.DebounceMs <= 0 {
		return nil, fmt.Errorf("WARDWATCH_DEBOUNCE_MS must be positive, got %d", cfg.Search.DebounceMs)
	}
	if cfg.Search.MinChars < 1 {
		return nil, fmt.Errorf("WARDWATCH_SEARCH_MIN_CHARS must be at least 1, got %d", cfg.Search.MinChars)
	}
	if cfg.Freshness.StaleAfterHours < 0 {
		return nil, fmt.Errorf("WARDWATCH_STALE_AFTER_HOURS must be non-negative, got %d", cfg.Freshness.StaleAfterHours)
	}

	return cfg, nil
}

// Debounce returns the search debounce interval as a duration
func (c *SearchConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// Timeout returns the HTTP client timeout as a duration
func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wardwatch.yaml"
	}
	return filepath.Join(home, ".wardwatch.yaml")
}

// getEnv retrieves an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
