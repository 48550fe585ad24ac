package bootstrap

import (
	"github.com/leafsense/plant-backend/internal/analysis"
	"github.com/leafsense/plant-backend/internal/diagnosis"
	"github.com/qdrant/go-client/qdrant"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideDiagnosisStore(db *gorm.DB, qdrantClient *qdrant.Client) *diagnosis.Store {
	return diagnosis.NewStore(db, qdrantClient)
}

func ProvideSessionStore(redisClient *redis.Client, cfg *Config) *analysis.RedisStore {
	return analysis.NewRedisStore(redisClient, cfg.SessionTTL)
}

func RunMigrations(diagnosisStore *diagnosis.Store) error {
	return diagnosisStore.Migrate()
}

var StoresModule = fx.Options(
	fx.Provide(
		ProvideDiagnosisStore,
		ProvideSessionStore,
	),
	fx.Invoke(RunMigrations),
)
