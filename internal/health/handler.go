package health

import (
	"context"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/qdrant/go-client/qdrant"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

type ComponentStatus struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type RuntimeStats struct {
	Goroutines    int    `json:"goroutines"`
	MemoryAllocMB uint64 `json:"memory_alloc_mb"`
	NumGC         uint32 `json:"num_gc"`
}

type HealthResponse struct {
	Status        Status                     `json:"status"`
	Timestamp     time.Time                  `json:"timestamp"`
	Version       string                     `json:"version"`
	UptimeSeconds int64                      `json:"uptime_seconds"`
	Runtime       RuntimeStats               `json:"runtime"`
	Components    map[string]ComponentStatus `json:"components"`
}

type Handler struct {
	db              *gorm.DB
	redis           *redis.Client
	qdrant          *qdrant.Client
	modelConfigured bool
	version         string
	startTime       time.Time
}

func NewHandler(db *gorm.DB, redisClient *redis.Client, qdrantClient *qdrant.Client, modelConfigured bool, version string) *Handler {
	return &Handler{
		db:              db,
		redis:           redisClient,
		qdrant:          qdrantClient,
		modelConfigured: modelConfigured,
		version:         version,
		startTime:       time.Now(),
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Liveness)
	e.GET("/health/ready", h.Readiness)
}

func (h *Handler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (h *Handler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	components := make(map[string]ComponentStatus)
	var mu sync.Mutex
	var wg sync.WaitGroup

	checks := []struct {
		name  string
		check func(context.Context) ComponentStatus
	}{
		{"database", h.checkDatabase},
		{"redis", h.checkRedis},
		{"qdrant", h.checkQdrant},
		{"model", h.checkModel},
	}

	wg.Add(len(checks))
	for _, check := range checks {
		go func(name string, fn func(context.Context) ComponentStatus) {
			defer wg.Done()
			status := fn(ctx)
			mu.Lock()
			components[name] = status
			mu.Unlock()
		}(check.name, check.check)
	}
	wg.Wait()

	overallStatus := computeOverallStatus(components)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	resp := HealthResponse{
		Status:        overallStatus,
		Timestamp:     time.Now().UTC(),
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Runtime: RuntimeStats{
			Goroutines:    runtime.NumGoroutine(),
			MemoryAllocMB: memStats.Alloc / 1024 / 1024,
			NumGC:         memStats.NumGC,
		},
		Components: components,
	}

	statusCode := http.StatusOK
	if overallStatus == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	return c.JSON(statusCode, resp)
}

func (h *Handler) checkDatabase(ctx context.Context) ComponentStatus {
	start := time.Now()
	if h.db == nil {
		return ComponentStatus{
			Status:    StatusUnhealthy,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "database not configured",
		}
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		return ComponentStatus{
			Status:    StatusUnhealthy,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "failed to get underlying db",
		}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return ComponentStatus{
			Status:    StatusUnhealthy,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "ping failed",
		}
	}
	return ComponentStatus{
		Status:    StatusHealthy,
		LatencyMs: time.Since(start).Milliseconds(),
	}
}

func (h *Handler) checkRedis(ctx context.Context) ComponentStatus {
	start := time.Now()
	if h.redis == nil {
		return ComponentStatus{
			Status:    StatusUnhealthy,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "redis not configured",
		}
	}
	if err := h.redis.Ping(ctx).Err(); err != nil {
		return ComponentStatus{
			Status:    StatusUnhealthy,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "ping failed",
		}
	}
	return ComponentStatus{
		Status:    StatusHealthy,
		LatencyMs: time.Since(start).Milliseconds(),
	}
}

// checkQdrant is non-critical: similar-case search degrades, the
// analysis flow keeps working.
func (h *Handler) checkQdrant(ctx context.Context) ComponentStatus {
	start := time.Now()
	if h.qdrant == nil {
		return ComponentStatus{
			Status:    StatusDegraded,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "qdrant not configured",
		}
	}
	if _, err := h.qdrant.ListCollections(ctx); err != nil {
		return ComponentStatus{
			Status:    StatusDegraded,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "list collections failed",
		}
	}
	return ComponentStatus{
		Status:    StatusHealthy,
		LatencyMs: time.Since(start).Milliseconds(),
	}
}

// checkModel verifies configuration only. A live probe would be a
// billable generate call, and model failures already surface
// per-submission as failed sessions.
func (h *Handler) checkModel(_ context.Context) ComponentStatus {
	if !h.modelConfigured {
		return ComponentStatus{
			Status: StatusDegraded,
			Error:  "model API key not configured",
		}
	}
	return ComponentStatus{Status: StatusHealthy}
}

func computeOverallStatus(components map[string]ComponentStatus) Status {
	criticalComponents := []string{"database", "redis"}

	for _, name := range criticalComponents {
		if status, ok := components[name]; ok && status.Status == StatusUnhealthy {
			return StatusUnhealthy
		}
	}

	for _, status := range components {
		if status.Status != StatusHealthy {
			return StatusDegraded
		}
	}
	return StatusHealthy
}
