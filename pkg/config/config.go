package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// Every environment variable is read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Generative model providers
	LLM LLMConfig

	// Market data provider
	MarketData MarketDataConfig

	// Scoring defaults
	Scoring ScoringConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// LLMConfig holds generative-model provider configuration.
type LLMConfig struct {
	DefaultProvider string // gemini, claude
	GeminiAPIKey    string
	GeminiModel     string
	ClaudeAPIKey    string
	ClaudeModel     string
	Temperature     float32
	MaxTokens       int
}

// MarketDataConfig holds the financial data API configuration.
type MarketDataConfig struct {
	BaseURL          string
	APIKey           string
	RequestsPerSec   float64
	CacheTTL         time.Duration
	ProfileScrapeURL string // fallback profile source, empty disables scraping
}

// ScoringConfig holds pipeline defaults.
type ScoringConfig struct {
	DefaultTopN      int
	UniverseFile     string // newline-separated ticker list for scheduled scans
	PersonaOverrides string // optional YAML persona override file
}

// Load reads configuration from environment variables.
// This function is the only os.Getenv call site.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "quaestor"),
			User:            getEnv("DB_USER", "quaestor"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		LLM: LLMConfig{
			DefaultProvider: getEnv("LLM_DEFAULT_PROVIDER", "gemini"),
			GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
			GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			ClaudeAPIKey:    getEnv("ANTHROPIC_API_KEY", ""),
			ClaudeModel:     getEnv("CLAUDE_MODEL", "claude-sonnet-4-20250514"),
			Temperature:     getEnvAsFloat32("LLM_TEMPERATURE", 0.2),
			MaxTokens:       getEnvAsInt("LLM_MAX_TOKENS", 8192),
		},

		MarketData: MarketDataConfig{
			BaseURL:          getEnv("MARKETDATA_BASE_URL", "https://financialmodelingprep.com/api/v3"),
			APIKey:           getEnv("MARKETDATA_API_KEY", ""),
			RequestsPerSec:   getEnvAsFloat("MARKETDATA_RPS", 4),
			CacheTTL:         getEnvAsDuration("MARKETDATA_CACHE_TTL", "15m"),
			ProfileScrapeURL: getEnv("PROFILE_SCRAPE_URL", ""),
		},

		Scoring: ScoringConfig{
			DefaultTopN:      getEnvAsInt("SCORING_DEFAULT_TOP_N", 10),
			UniverseFile:     getEnv("SCORING_UNIVERSE_FILE", ""),
			PersonaOverrides: getEnv("PERSONA_OVERRIDES_FILE", ""),
		},

		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks required configuration values.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.LLM.DefaultProvider != "gemini" && c.LLM.DefaultProvider != "claude" {
		return fmt.Errorf("LLM_DEFAULT_PROVIDER must be gemini or claude")
	}

	if c.Scoring.DefaultTopN <= 0 {
		return fmt.Errorf("SCORING_DEFAULT_TOP_N must be > 0")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{
		".env",         // Current directory
		"backend/.env", // From project root
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	return float32(getEnvAsFloat(key, float64(defaultValue)))
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
