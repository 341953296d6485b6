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

// Model providers understood by the application.
const (
	ProviderGemini  = "gemini"
	ProviderGateway = "gateway"
)

const (
	defaultDatabasePath = "data/fitness.db"
	defaultGatewayURL   = "https://api.groq.com/openai/v1/chat/completions"
	defaultGeminiModel  = "gemini-2.5-flash"
	defaultGatewayModel = "llama-3.3-70b-versatile"
	defaultModelTimeout = 60 * time.Second
	// Gemini free tier allows 15 requests per minute.
	defaultRateLimitRPM = 15
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string

	ModelProvider  string
	GeminiAPIKey   string
	GatewayAPIKey  string
	GatewayURL     string
	PlanModel      string
	ModelTimeout   time.Duration
	RateLimitRPM   int
	RateLimitBurst int

	// HTTP API
	Port      string
	JWTSecret string

	LogLevel  string
	LogFormat string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	gatewayAPIKey := os.Getenv("AI_GATEWAY_API_KEY")

	provider := strings.ToLower(os.Getenv("MODEL_PROVIDER"))
	if provider == "" {
		provider = ProviderGemini
		if geminiAPIKey == "" && gatewayAPIKey != "" {
			provider = ProviderGateway
		}
	}

	planModel := os.Getenv("PLAN_MODEL")
	switch provider {
	case ProviderGemini:
		if geminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
		if planModel == "" {
			planModel = defaultGeminiModel
		}
	case ProviderGateway:
		if gatewayAPIKey == "" {
			return nil, fmt.Errorf("AI_GATEWAY_API_KEY environment variable not set")
		}
		if planModel == "" {
			planModel = defaultGatewayModel
		}
	default:
		return nil, fmt.Errorf("unknown MODEL_PROVIDER %q", provider)
	}

	modelTimeout := defaultModelTimeout
	if v := os.Getenv("MODEL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MODEL_TIMEOUT %q: %w", v, err)
		}
		modelTimeout = d
	}

	rpm, err := intFromEnv("MODEL_RATE_LIMIT_RPM", defaultRateLimitRPM)
	if err != nil {
		return nil, err
	}
	// Two calls per generation must fit in one burst.
	burst, err := intFromEnv("MODEL_RATE_LIMIT_BURST", 2)
	if err != nil {
		return nil, err
	}
	if rpm > 0 && burst < 2 {
		return nil, fmt.Errorf("invalid MODEL_RATE_LIMIT_BURST %d: must be at least 2", burst)
	}

	allowed, err := parseIDList(os.Getenv("TELEGRAM_ALLOWED_USER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS: %w", err)
	}

	var adminID int64
	if v := os.Getenv("ADMIN_TELEGRAM_ID"); v != "" {
		adminID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID %q: %w", v, err)
		}
	}

	return &Config{
		DatabasePath:           getenvDefault("DATABASE_PATH", defaultDatabasePath),
		ModelProvider:          provider,
		GeminiAPIKey:           geminiAPIKey,
		GatewayAPIKey:          gatewayAPIKey,
		GatewayURL:             getenvDefault("AI_GATEWAY_URL", defaultGatewayURL),
		PlanModel:              planModel,
		ModelTimeout:           modelTimeout,
		RateLimitRPM:           rpm,
		RateLimitBurst:         burst,
		Port:                   getenvDefault("PORT", "8080"),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		LogLevel:               getenvDefault("LOG_LEVEL", "info"),
		LogFormat:              getenvDefault("LOG_FORMAT", "text"),
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowed,
		AdminTelegramID:        adminID,
	}, nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intFromEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func parseIDList(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// LoadDotEnv loads variables from the given .env files, or ./.env when none
// are named. Variables already set in the environment win. Missing files are
// not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}
