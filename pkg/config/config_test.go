package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check defaults
	if cfg.Port != "8090" {
		t.Errorf("Expected Port to be 8090, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.Database.MaxConns != 25 {
		t.Errorf("Expected DB MaxConns to be 25, got %d", cfg.Database.MaxConns)
	}

	if cfg.LLM.DefaultProvider != "gemini" {
		t.Errorf("Expected default provider to be gemini, got %s", cfg.LLM.DefaultProvider)
	}

	if cfg.Scoring.DefaultTopN != 10 {
		t.Errorf("Expected default topN to be 10, got %d", cfg.Scoring.DefaultTopN)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("ENV", "production")
	os.Setenv("DB_MAX_CONNS", "50")
	os.Setenv("LOG_LEVEL", "info")
	os.Setenv("LLM_DEFAULT_PROVIDER", "claude")
	os.Setenv("MARKETDATA_RPS", "2.5")

	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("ENV")
		os.Unsetenv("DB_MAX_CONNS")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("LLM_DEFAULT_PROVIDER")
		os.Unsetenv("MARKETDATA_RPS")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.Database.MaxConns != 50 {
		t.Errorf("Expected DB MaxConns to be 50, got %d", cfg.Database.MaxConns)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected LogLevel to be info, got %s", cfg.LogLevel)
	}

	if cfg.LLM.DefaultProvider != "claude" {
		t.Errorf("Expected provider to be claude, got %s", cfg.LLM.DefaultProvider)
	}

	if cfg.MarketData.RequestsPerSec != 2.5 {
		t.Errorf("Expected RPS to be 2.5, got %f", cfg.MarketData.RequestsPerSec)
	}
}

func TestLoadWithoutDatabaseURL(t *testing.T) {
	os.Unsetenv("DATABASE_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Run persistence is optional; an empty URL is valid.
	if cfg.Database.URL != "" {
		t.Errorf("Expected empty database URL, got %s", cfg.Database.URL)
	}
}

func TestValidateInvalidEnv(t *testing.T) {
	os.Setenv("ENV", "invalid")
	defer os.Unsetenv("ENV")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when ENV is invalid, got nil")
	}
}

func TestValidateInvalidProvider(t *testing.T) {
	os.Setenv("LLM_DEFAULT_PROVIDER", "gpt")
	defer os.Unsetenv("LLM_DEFAULT_PROVIDER")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when LLM_DEFAULT_PROVIDER is invalid, got nil")
	}
}

func TestValidateInvalidTopN(t *testing.T) {
	os.Setenv("SCORING_DEFAULT_TOP_N", "0")
	defer os.Unsetenv("SCORING_DEFAULT_TOP_N")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when SCORING_DEFAULT_TOP_N is non-positive, got nil")
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	os.Setenv("TEST_DURATION", "2h")
	defer os.Unsetenv("TEST_DURATION")

	duration := getEnvAsDuration("TEST_DURATION", "1h")
	expected := 2 * time.Hour

	if duration != expected {
		t.Errorf("Expected duration to be %v, got %v", expected, duration)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	os.Setenv("TEST_INT", "100")
	defer os.Unsetenv("TEST_INT")

	value := getEnvAsInt("TEST_INT", 50)
	if value != 100 {
		t.Errorf("Expected value to be 100, got %d", value)
	}
}

func TestGetEnvAsBool(t *testing.T) {
	os.Setenv("TEST_BOOL", "true")
	defer os.Unsetenv("TEST_BOOL")

	value := getEnvAsBool("TEST_BOOL", false)
	if value != true {
		t.Errorf("Expected value to be true, got %v", value)
	}
}

func TestGetEnvAsFloat(t *testing.T) {
	os.Setenv("TEST_FLOAT", "0.75")
	defer os.Unsetenv("TEST_FLOAT")

	value := getEnvAsFloat("TEST_FLOAT", 0.5)
	if value != 0.75 {
		t.Errorf("Expected value to be 0.75, got %f", value)
	}
}
