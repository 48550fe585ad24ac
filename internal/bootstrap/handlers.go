package bootstrap

import (
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	_ "github.com/leafsense/plant-backend/docs"
	"github.com/leafsense/plant-backend/internal/analysis"
	"github.com/leafsense/plant-backend/internal/diagnosis"
	"github.com/leafsense/plant-backend/internal/health"
	"github.com/leafsense/plant-backend/internal/upload"
	"github.com/qdrant/go-client/qdrant"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

func ProvideHub() *analysis.Hub {
	return analysis.NewHub()
}

func ProvideController(
	store *analysis.RedisStore,
	analyzer diagnosis.Analyzer,
	history *diagnosis.Store,
	embeddings diagnosis.EmbeddingService,
	hub *analysis.Hub,
	cfg *Config,
	logger *slog.Logger,
) *analysis.Controller {
	return analysis.NewController(store, analyzer, history, embeddings, hub, cfg.DefaultLanguage, logger)
}

func ProvideAnalysisHandler(controller *analysis.Controller, hub *analysis.Hub, cfg *Config, logger *slog.Logger) *analysis.Handler {
	limits := upload.Limits{
		MaxFiles:      cfg.MaxImages,
		MaxFileBytes:  cfg.MaxImageBytes,
		MaxTotalBytes: cfg.MaxUploadBytes,
	}
	return analysis.NewHandler(controller, hub, limits, logger.With("handler", "analysis"))
}

func ProvideDiagnosisHandler(store *diagnosis.Store, embeddings diagnosis.EmbeddingService, logger *slog.Logger) *diagnosis.Handler {
	return diagnosis.NewHandler(store, embeddings, logger.With("handler", "diagnosis"))
}

func ProvideHealthHandler(db *gorm.DB, redisClient *redis.Client, qdrantClient *qdrant.Client, cfg *Config) *health.Handler {
	return health.NewHandler(db, redisClient, qdrantClient, cfg.GeminiAPIKey != "", cfg.Version)
}

type HandlerParams struct {
	fx.In

	AnalysisHandler  *analysis.Handler
	DiagnosisHandler *diagnosis.Handler
	HealthHandler    *health.Handler
}

func RegisterRoutes(e *echo.Echo, params HandlerParams) {
	api := e.Group("/v1")

	params.AnalysisHandler.RegisterRoutes(api.Group("/sessions"))
	params.DiagnosisHandler.RegisterRoutes(api.Group("/diagnoses"))
	params.HealthHandler.RegisterRoutes(e)

	e.GET("/swagger/*", echoSwagger.EchoWrapHandler())
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideLogger,
		ProvideHub,
		ProvideController,
		ProvideAnalysisHandler,
		ProvideDiagnosisHandler,
		ProvideHealthHandler,
	),
	fx.Invoke(RegisterRoutes),
)
