package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewFromEnv(t *testing.T) {
	// Helper function to set environment variables for a test
	setEnv := func(key, value string) {
		t.Helper()
		t.Setenv(key, value)
	}

	clearAll := func() {
		for _, k := range []string{
			"GEMINI_API_KEY", "AI_GATEWAY_API_KEY", "MODEL_PROVIDER", "PLAN_MODEL",
			"MODEL_TIMEOUT", "MODEL_RATE_LIMIT_RPM", "MODEL_RATE_LIMIT_BURST",
			"TELEGRAM_ALLOWED_USER_IDS", "ADMIN_TELEGRAM_ID", "DATABASE_PATH",
		} {
			setEnv(k, "")
		}
	}

	t.Run("GeminiDefaults", func(t *testing.T) {
		clearAll()
		setEnv("GEMINI_API_KEY", "gemini_key")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.ModelProvider != ProviderGemini {
			t.Errorf("Expected provider '%s', got '%s'", ProviderGemini, cfg.ModelProvider)
		}
		if cfg.PlanModel != "gemini-2.5-flash" {
			t.Errorf("Expected PlanModel 'gemini-2.5-flash', got '%s'", cfg.PlanModel)
		}
		if cfg.DatabasePath != "data/fitness.db" {
			t.Errorf("Expected default DatabasePath, got '%s'", cfg.DatabasePath)
		}
		if cfg.ModelTimeout != 60*time.Second {
			t.Errorf("Expected 60s timeout, got %s", cfg.ModelTimeout)
		}
		if cfg.RateLimitRPM != 15 || cfg.RateLimitBurst != 2 {
			t.Errorf("Unexpected rate limit %d/%d", cfg.RateLimitRPM, cfg.RateLimitBurst)
		}
	})

	t.Run("GatewayChosenWhenOnlyGatewayKey", func(t *testing.T) {
		clearAll()
		setEnv("AI_GATEWAY_API_KEY", "gw_key")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.ModelProvider != ProviderGateway {
			t.Errorf("Expected provider '%s', got '%s'", ProviderGateway, cfg.ModelProvider)
		}
		if cfg.PlanModel != "llama-3.3-70b-versatile" {
			t.Errorf("Unexpected gateway model '%s'", cfg.PlanModel)
		}
	})

	t.Run("MissingGeminiAPIKey", func(t *testing.T) {
		clearAll()
		setEnv("MODEL_PROVIDER", "gemini")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing GEMINI_API_KEY, got nil")
		}
		expectedError := "GEMINI_API_KEY environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("MissingGatewayAPIKey", func(t *testing.T) {
		clearAll()
		setEnv("MODEL_PROVIDER", "gateway")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing AI_GATEWAY_API_KEY, got nil")
		}
		expectedError := "AI_GATEWAY_API_KEY environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("Overrides", func(t *testing.T) {
		clearAll()
		setEnv("GEMINI_API_KEY", "gemini_key")
		setEnv("PLAN_MODEL", "gemini-2.0-flash")
		setEnv("MODEL_TIMEOUT", "15s")
		setEnv("MODEL_RATE_LIMIT_RPM", "30")
		setEnv("TELEGRAM_ALLOWED_USER_IDS", "12, 34")
		setEnv("ADMIN_TELEGRAM_ID", "12")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.PlanModel != "gemini-2.0-flash" {
			t.Errorf("Expected overridden model, got '%s'", cfg.PlanModel)
		}
		if cfg.ModelTimeout != 15*time.Second {
			t.Errorf("Expected 15s timeout, got %s", cfg.ModelTimeout)
		}
		if cfg.RateLimitRPM != 30 {
			t.Errorf("Expected RPM 30, got %d", cfg.RateLimitRPM)
		}
		if len(cfg.TelegramAllowedUserIDs) != 2 || cfg.TelegramAllowedUserIDs[1] != 34 {
			t.Errorf("Unexpected allowed IDs %v", cfg.TelegramAllowedUserIDs)
		}
		if cfg.AdminTelegramID != 12 {
			t.Errorf("Expected admin 12, got %d", cfg.AdminTelegramID)
		}
	})

	t.Run("InvalidTimeout", func(t *testing.T) {
		clearAll()
		setEnv("GEMINI_API_KEY", "gemini_key")
		setEnv("MODEL_TIMEOUT", "soon")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for invalid MODEL_TIMEOUT, got nil")
		}
	})

	t.Run("BurstTooSmallForOneGeneration", func(t *testing.T) {
		clearAll()
		setEnv("GEMINI_API_KEY", "gemini_key")
		setEnv("MODEL_RATE_LIMIT_BURST", "1")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for MODEL_RATE_LIMIT_BURST=1, got nil")
		}
		if !strings.Contains(err.Error(), "at least 2") {
			t.Errorf("Unexpected error '%s'", err.Error())
		}
	})

	t.Run("UnknownProvider", func(t *testing.T) {
		clearAll()
		setEnv("MODEL_PROVIDER", "carrier-pigeon")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for unknown provider, got nil")
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("PLAN_MODEL=from-file\nLOG_LEVEL=debug\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PLAN_MODEL", "")
	os.Unsetenv("PLAN_MODEL")
	t.Setenv("LOG_LEVEL", "warn")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := os.Getenv("PLAN_MODEL"); got != "from-file" {
		t.Errorf("Expected PLAN_MODEL from file, got '%s'", got)
	}
	if got := os.Getenv("LOG_LEVEL"); got != "warn" {
		t.Errorf("Expected existing LOG_LEVEL to win, got '%s'", got)
	}
}
