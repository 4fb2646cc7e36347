package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Addr            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// ProviderConfig holds the NFL statistics provider settings
type ProviderConfig struct {
	APIKey     string
	BaseURL    string
	Season     string
	MaxRetries int
	RetryDelay time.Duration
}

// CompletionConfig holds the language model settings
type CompletionConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// RedisConfig holds Redis connection configuration.
// An empty URL disables the rate limiter and the event publisher.
type RedisConfig struct {
	URL string
}

// PostgresConfig holds the analysis log database. An empty DSN disables it.
type PostgresConfig struct {
	AuditDSN string
}

// RateLimitConfig bounds narrative generations per period
type RateLimitConfig struct {
	MaxRequests int
	Period      time.Duration
}

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	Provider    ProviderConfig
	Completion  CompletionConfig
	Redis       RedisConfig
	Postgres    PostgresConfig
	RateLimit   RateLimitConfig
	CORSOrigins []string
	LogLevel    string
	Env         string
}

// LoadConfig loads configuration from environment variables.
// A .env file in the working directory is read first if present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Addr:            getEnv("SERVER_ADDR", ":8080"),
			RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Provider: ProviderConfig{
			APIKey:     getEnv("RAPIDAPI_KEY", ""),
			BaseURL:    getEnv("RAPIDAPI_BASE_URL", ""),
			Season:     getEnv("NFL_SEASON", "2023"),
			MaxRetries: getEnvInt("PROVIDER_MAX_RETRIES", 3),
			RetryDelay: getEnvDuration("PROVIDER_RETRY_DELAY", time.Second),
		},
		Completion: CompletionConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
			Model:   getEnv("OPENAI_MODEL", "gpt-4"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Postgres: PostgresConfig{
			AuditDSN: getEnv("AUDIT_DSN", ""),
		},
		RateLimit: RateLimitConfig{
			MaxRequests: getEnvInt("ANALYZE_RATE_LIMIT", 20),
			Period:      getEnvDuration("ANALYZE_RATE_PERIOD", time.Minute),
		},
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Env:         getEnv("APP_ENV", "development"),
	}
}

// Validate checks the settings required to serve requests
func (c *Config) Validate() error {
	var errs []error
	if c.Provider.APIKey == "" {
		errs = append(errs, errors.New("RAPIDAPI_KEY is required"))
	}
	if c.Completion.APIKey == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY is required"))
	}
	if c.Provider.MaxRetries < 1 {
		errs = append(errs, errors.New("PROVIDER_MAX_RETRIES must be at least 1"))
	}
	if c.RateLimit.MaxRequests < 1 {
		errs = append(errs, errors.New("ANALYZE_RATE_LIMIT must be at least 1"))
	}
	return errors.Join(errs...)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
