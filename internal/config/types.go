package config

import "time"

type Config struct {
	Environment string
	Port        string

	// storage
	Store       string // "postgres" or "memory"
	DatabaseURL string
	RedisURL    string

	// auth
	JWTSecret         string
	SessionSecret     string
	AdminUsername     string
	AdminPasswordHash string

	// generator
	InjectedAPIKey    string
	GeminiModel       string
	GenerationTimeout time.Duration
	GenerateRateLimit string

	// quota
	QuotaStrict bool

	AllowedOrigins []string
}

// console flags
type ConsoleFlags struct {
	ServerURL string
	Username  string
}
