package bootstrap

import (
	"context"
	"log/slog"

	"github.com/leafsense/plant-backend/internal/diagnosis"
	"github.com/qdrant/go-client/qdrant"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func ProvideRedisClient(cfg *Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func ProvideDatabase(cfg *Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

func ProvideQdrantClient(cfg *Config) (*qdrant.Client, error) {
	return qdrant.NewClient(&qdrant.Config{
		Host:   cfg.QdrantHost,
		Port:   cfg.QdrantPort,
		APIKey: cfg.QdrantAPIKey,
	})
}

func ProvideAnalyzer(cfg *Config, log *slog.Logger) (diagnosis.Analyzer, error) {
	return diagnosis.NewGeminiAnalyzer(context.Background(), diagnosis.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GeminiTimeout,
	}, log)
}

func ProvideEmbeddingService(cfg *Config) diagnosis.EmbeddingService {
	return diagnosis.NewHashEmbedding(cfg.EmbeddingDim)
}

var InfrastructureModule = fx.Options(
	fx.Provide(
		ProvideRedisClient,
		ProvideDatabase,
		ProvideQdrantClient,
		ProvideAnalyzer,
		ProvideEmbeddingService,
	),
)
