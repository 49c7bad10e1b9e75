// Package config provides application configuration management.
// It loads settings from environment variables (with optional .env file)
// and provides defaults for server mode, collaborator endpoints, timeouts
// and the intent pipeline thresholds.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// LLM Configuration
	GeminiAPIKey         string // Gemini API key for extraction, embeddings and generation
	GeminiExtractModel   string // Model for book title / slot parameter extraction
	GeminiAnswerModel    string // Model for retrieval-augmented answers
	GeminiEmbeddingModel string

	// External collaborators
	DialogEngineURL string // Base URL of the external dialog engine
	BookingAPIURL   string // Base URL of the slot booking API

	// Intent pipeline
	IntentThreshold float64 // Minimum similarity for a confident intent match (default 0.75)
	RetrievalTopK   int     // Documents fed to the answer generator (default 7)

	// Sentry / Better Stack error tracking
	SentryDSN         string
	SentryEnvironment string

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Data Configuration
	DataDir string // Data directory for SQLite database and vector store

	// Session store
	SessionTTL time.Duration // Idle TTL before a session context is evicted

	// Database connect retry policy
	DBConnectRetries int
	DBConnectDelay   time.Duration

	// Scraper Configuration
	ScraperTimeout    time.Duration
	ScraperMaxRetries int

	// Outbound HTTP (dialog engine, booking API)
	ClientTimeout time.Duration
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		GeminiExtractModel:   getEnv("GEMINI_EXTRACT_MODEL", "gemini-2.0-flash"),
		GeminiAnswerModel:    getEnv("GEMINI_ANSWER_MODEL", "gemini-1.5-pro"),
		GeminiEmbeddingModel: getEnv("GEMINI_EMBEDDING_MODEL", "gemini-embedding-001"),

		DialogEngineURL: getEnv("DIALOG_ENGINE_URL", ""),
		BookingAPIURL:   getEnv("BOOKING_API_URL", ""),

		IntentThreshold: getFloatEnv("INTENT_THRESHOLD", 0.75),
		RetrievalTopK:   getIntEnv("RETRIEVAL_TOP_K", 7),

		SentryDSN:         getEnv("SENTRY_DSN", ""),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", "production"),

		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),

		DataDir: getEnv("DATA_DIR", "./data"),

		SessionTTL: getDurationEnv("SESSION_TTL", 30*time.Minute),

		DBConnectRetries: getIntEnv("DB_CONNECT_RETRIES", 4),
		DBConnectDelay:   getDurationEnv("DB_CONNECT_DELAY", 2*time.Second),

		ScraperTimeout:    getDurationEnv("SCRAPER_TIMEOUT", 10*time.Second),
		ScraperMaxRetries: getIntEnv("SCRAPER_MAX_RETRIES", 3),

		ClientTimeout: getDurationEnv("CLIENT_TIMEOUT", 15*time.Second),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("DATA_DIR is required"))
	}
	if c.IntentThreshold < 0 || c.IntentThreshold > 1 {
		errs = append(errs, fmt.Errorf("INTENT_THRESHOLD must be in [0,1], got %v", c.IntentThreshold))
	}
	if c.RetrievalTopK <= 0 {
		errs = append(errs, fmt.Errorf("RETRIEVAL_TOP_K must be positive, got %d", c.RetrievalTopK))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL must be positive, got %v", c.SessionTTL))
	}
	if c.ScraperTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SCRAPER_TIMEOUT must be positive, got %v", c.ScraperTimeout))
	}
	if c.ScraperMaxRetries < 0 {
		errs = append(errs, fmt.Errorf("SCRAPER_MAX_RETRIES cannot be negative, got %d", c.ScraperMaxRetries))
	}
	if c.DBConnectRetries < 1 {
		errs = append(errs, fmt.Errorf("DB_CONNECT_RETRIES must be at least 1, got %d", c.DBConnectRetries))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// SQLitePath returns the full path to the SQLite database file
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "campus.db")
}

// VectorDir returns the persistence directory for the vector store
func (c *Config) VectorDir() string {
	return filepath.Join(c.DataDir, "chromem")
}

// HasGemini returns true if the Gemini API key is configured.
func (c *Config) HasGemini() bool {
	return c.GeminiAPIKey != ""
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
