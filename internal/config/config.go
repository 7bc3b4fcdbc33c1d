package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Upstream ledger API
	UpstreamURL string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Cache (shop list only; balances are never cached)
	ShopCacheTTL time.Duration

	// Search
	SearchQuietPeriod time.Duration

	// Observability
	OTLPEndpoint string

	// Session gate
	OwnerEmail string
	// OwnerPasswordHash is a bcrypt hash used only when DEV_AUTH=true
	// and lets the gate verify the password without the upstream
	// password-match service.
	OwnerPasswordHash string
	DevAuth           bool

	// CORS
	AllowedOrigins []string
}

// LoadDotEnv reads a .env file (for local development). Existing env
// vars take precedence; a missing file is not an error for the caller.
func LoadDotEnv(path string) error {
	return godotenv.Load(path)
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		UpstreamURL: getEnv("LEDGER_API_URL", "http://localhost:5000/api"),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 50),

		ShopCacheTTL: getEnvDuration("SHOP_CACHE_TTL", 5*time.Minute),

		SearchQuietPeriod: getEnvDuration("SEARCH_QUIET_PERIOD", 300*time.Millisecond),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		OwnerEmail:        getEnv("OWNER_EMAIL", "prakashowner@gmail.com"),
		OwnerPasswordHash: getEnv("OWNER_PASSWORD_HASH", ""),
		DevAuth:           getEnv("DEV_AUTH", "false") == "true",

		AllowedOrigins: []string{getEnv("ALLOWED_ORIGIN", "http://localhost:5173")},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
