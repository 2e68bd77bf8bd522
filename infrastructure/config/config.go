package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Backend configuration
	BackendURL  string
	AccessToken string

	// Runtime
	Environment string
	LogLevel    string

	// Paging
	PageSize int

	// Local state
	DraftCachePath string

	// Display
	DisplayWithUpdatedTs bool
}

// LoadConfig loads configuration from the environment, reading a .env file
// first when one exists
func LoadConfig() (*Config, error) {
	// best effort; absence of a .env file is not an error
	_ = godotenv.Load()

	cfg := &Config{
		BackendURL:  getEnv("MEMO_BACKEND_URL", "http://localhost:5230"),
		AccessToken: getEnv("MEMO_ACCESS_TOKEN", ""),

		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		PageSize: getEnvInt("MEMO_PAGE_SIZE", 20),

		DraftCachePath: getEnv("MEMO_DRAFT_CACHE", "memo-drafts.db"),

		DisplayWithUpdatedTs: getEnvBool("MEMO_DISPLAY_WITH_UPDATED_TS", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("MEMO_BACKEND_URL is required")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("MEMO_PAGE_SIZE must be positive")
	}
	if c.Environment == "production" && c.AccessToken == "" {
		return fmt.Errorf("MEMO_ACCESS_TOKEN is required in production")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
