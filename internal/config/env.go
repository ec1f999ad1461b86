package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	defaultPort              = "8080"
	defaultGeminiModel       = "gemini-3-pro-image-preview"
	defaultGenerationTimeout = 120 * time.Second
	defaultGenerateRateLimit = "10-M"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	cfg := &Config{
		Environment:       os.Getenv("ENVIRONMENT"),
		Port:              os.Getenv("PORT"),
		Store:             strings.ToLower(os.Getenv("STORE")),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		SessionSecret:     os.Getenv("SESSION_SECRET"),
		AdminUsername:     os.Getenv("ADMIN_USERNAME"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		InjectedAPIKey:    InjectedAPIKey(),
		GeminiModel:       os.Getenv("GEMINI_MODEL"),
		GenerateRateLimit: os.Getenv("GENERATE_RATE_LIMIT"),
		AllowedOrigins:    splitList(os.Getenv("ALLOWED_ORIGINS")),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	if cfg.Store == "" {
		cfg.Store = StorePostgres
	}

	if cfg.Store != StorePostgres && cfg.Store != StoreMemory {
		return nil, fmt.Errorf("STORE must be %q or %q, got %q", StorePostgres, StoreMemory, cfg.Store)
	}

	if cfg.Store == StorePostgres && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if cfg.AdminUsername == "" {
		return nil, fmt.Errorf("ADMIN_USERNAME environment variable is required")
	}

	if cfg.AdminPasswordHash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD_HASH environment variable is required")
	}

	if cfg.SessionSecret == "" {
		// cookie store still needs a key; reuse the jwt secret
		cfg.SessionSecret = cfg.JWTSecret
	}

	if cfg.GeminiModel == "" {
		cfg.GeminiModel = defaultGeminiModel
	}

	if cfg.GenerateRateLimit == "" {
		cfg.GenerateRateLimit = defaultGenerateRateLimit
	}

	cfg.GenerationTimeout = defaultGenerationTimeout
	if raw := os.Getenv("GENERATION_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid GENERATION_TIMEOUT: %w", err)
		}
		cfg.GenerationTimeout = d
	}

	if raw := os.Getenv("QUOTA_STRICT"); raw != "" {
		strict, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid QUOTA_STRICT: %w", err)
		}
		cfg.QuotaStrict = strict
	}

	if cfg.QuotaStrict && cfg.RedisURL == "" {
		return nil, fmt.Errorf("QUOTA_STRICT requires REDIS_URL")
	}

	return cfg, nil
}

// returns the key injected through the environment, GEMINI_API_KEY first
func InjectedAPIKey() string {
	if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
		return key
	}

	return strings.TrimSpace(os.Getenv("API_KEY"))
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
