package bootstrap

import (
	"os"
	"strconv"
	"time"

	"github.com/leafsense/plant-backend/internal/locale"
)

type Config struct {
	ServerAddr string
	LogLevel   string
	Version    string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiTimeout time.Duration

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	QdrantHost   string
	QdrantPort   int
	QdrantAPIKey string

	SessionTTL      time.Duration
	DefaultLanguage locale.Language

	MaxImages      int
	MaxImageBytes  int64
	MaxUploadBytes int64

	EmbeddingDim int
}

func LoadConfig() *Config {
	defaultLang := locale.Default()
	if parsed, ok := locale.Parse(getEnv("DEFAULT_LANGUAGE", "")); ok {
		defaultLang = parsed
	}

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		Version:    getEnv("VERSION", "dev"),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiTimeout: getEnvDuration("GEMINI_TIMEOUT", 60*time.Second),

		DatabaseDSN: getEnv("DATABASE_DSN", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		QdrantHost:   getEnv("QDRANT_HOST", "localhost"),
		QdrantPort:   getEnvInt("QDRANT_PORT", 6334),
		QdrantAPIKey: getEnv("QDRANT_API_KEY", ""),

		SessionTTL:      getEnvDuration("SESSION_TTL", 24*time.Hour),
		DefaultLanguage: defaultLang,

		MaxImages:      getEnvInt("MAX_IMAGES", 6),
		MaxImageBytes:  int64(getEnvInt("MAX_IMAGE_BYTES", 8<<20)),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 24<<20)),

		EmbeddingDim: getEnvInt("EMBEDDING_DIM", 384),
	}
}

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
