package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	Port        string
	Environment string

	// Redis
	RedisURL string

	// OpenAI (secondary classifier)
	OpenAIAPIKey   string
	LLMModel       string
	LLMBaseURL     string
	LLMMaxTokens   int
	LLMTemperature float64

	// Pipeline
	SecondaryTimeout time.Duration
	CacheTTL         time.Duration
	BatchConcurrency int
	BatchMaxSize     int

	// Auth (optional; empty secret disables auth)
	JWTSecret string

	// Rate limiting
	RateLimit       int
	RateLimitWindow time.Duration

	// CORS
	AllowedOrigins []string
}

// Load reads configuration from the environment with defaults.
func Load() (*Config, error) {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),

		RedisURL: getEnv("REDIS_URL", ""),

		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		LLMModel:       getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMBaseURL:     getEnv("LLM_BASE_URL", ""),
		LLMMaxTokens:   getEnvInt("LLM_MAX_TOKENS", 256),
		LLMTemperature: getEnvFloat("LLM_TEMPERATURE", 0),

		SecondaryTimeout: time.Duration(getEnvInt("SECONDARY_TIMEOUT_SEC", 5)) * time.Second,
		CacheTTL:         time.Duration(getEnvInt("CACHE_TTL_MIN", 30)) * time.Minute,
		BatchConcurrency: getEnvInt("BATCH_CONCURRENCY", 8),
		BatchMaxSize:     getEnvInt("BATCH_MAX_SIZE", 100),

		JWTSecret: getEnv("JWT_SECRET", ""),

		RateLimit:       getEnvInt("RATE_LIMIT", 300),
		RateLimitWindow: time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SEC", 60)) * time.Second,

		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", nil),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
