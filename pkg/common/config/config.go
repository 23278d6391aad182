package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64

	// Auth
	JWTSecret       string
	TokenTTL        time.Duration
	AccountEmail    string
	AccountPassword string

	// OIDC (optional, replaces the static account when set)
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string

	// Model service
	ModelServiceBaseURL   string
	GatewayRequestTimeout time.Duration

	// Diagnosis chapter catalog (empty = compiled-in default)
	ChapterCatalogPath string

	// Redis (optional, single-flight guard backend)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Kafka (optional, prediction event stream)
	KafkaBrokers []string
	KafkaTopic   string
}

func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "5000"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 1024*1024)),

		JWTSecret:       getEnv("JWT_SECRET", "supersecretkey-readmit-gw"),
		TokenTTL:        getDuration("TOKEN_TTL", time.Hour),
		AccountEmail:    getEnv("ACCOUNT_EMAIL", "admin@hospital.com"),
		AccountPassword: getEnv("ACCOUNT_PASSWORD", "password123"),

		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),

		ModelServiceBaseURL:   getEnv("MODEL_SERVICE_BASE_URL", "http://localhost:8000"),
		GatewayRequestTimeout: getDuration("GATEWAY_REQUEST_TIMEOUT", 10*time.Second),

		ChapterCatalogPath: getEnv("CHAPTER_CATALOG_PATH", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers: getStringSliceEnv("KAFKA_BROKERS", nil),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "readmit.predictions"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
