package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultUpstreamURL  = "https://api.openai.com/v1/chat/completions"
	DefaultModel        = "gpt-4"
	DefaultMaxTokens    = 150
	DefaultSystemPrompt = "You are a helpful assistant."
)

type Config struct {
	// Server
	Port      string
	Env       string
	LogLevel  string
	PublicDir string

	// Upstream chat completions
	OpenAIAPIKey          string
	UpstreamURL           string
	Model                 string
	MaxTokens             int
	SystemPrompt          string
	UpstreamTimeout       time.Duration
	UpstreamMaxConcurrent int

	// Rate limiting
	RateLimitPerMinute int
	RedisURL           string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:      getEnvOrDefault("PORT", "3001"),
		Env:       getEnvOrDefault("ENV", "development"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		PublicDir: getEnvOrDefault("PUBLIC_DIR", "./public"),

		OpenAIAPIKey:          mustGetEnv("OPENAI_API_KEY"),
		UpstreamURL:           getEnvOrDefault("UPSTREAM_URL", DefaultUpstreamURL),
		Model:                 getEnvOrDefault("CHAT_MODEL", DefaultModel),
		MaxTokens:             getEnvAsIntOrDefault("CHAT_MAX_TOKENS", DefaultMaxTokens),
		SystemPrompt:          getEnvOrDefault("SYSTEM_PROMPT", DefaultSystemPrompt),
		UpstreamTimeout:       getEnvAsDurationOrDefault("UPSTREAM_TIMEOUT", 0),
		UpstreamMaxConcurrent: getEnvAsIntOrDefault("UPSTREAM_MAX_CONCURRENT", 0),

		RateLimitPerMinute: getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", 0),
		RedisURL:           getEnvOrDefault("REDIS_URL", ""),
	}

	return cfg
}

// IsDevelopment reports whether human-readable console logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}
