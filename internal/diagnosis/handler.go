package diagnosis

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/leafsense/plant-backend/internal/dto"
	"github.com/leafsense/plant-backend/internal/shared"
)

type Handler struct {
	store      *Store
	embeddings EmbeddingService
	logger     *slog.Logger
}

func NewHandler(store *Store, embeddings EmbeddingService, logger *slog.Logger) *Handler {
	return &Handler{
		store:      store,
		embeddings: embeddings,
		logger:     logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.GET("/:id/similar", h.Similar)
}

func RecordToResponse(rec *Record) dto.DiagnosisResponse {
	return dto.DiagnosisResponse{
		ID:             rec.ID,
		SessionID:      rec.SessionID,
		Language:       rec.Language,
		ImageCount:     rec.ImageCount,
		PlantName:      rec.PlantName,
		ScientificName: rec.ScientificName,
		HealthStatus:   rec.HealthStatus,
		RiskLevel:      rec.RiskLevel,
		Urgency:        rec.Urgency,
		Symptoms:       emptyIfNil(rec.Symptoms),
		Causes:         emptyIfNil(rec.Causes),
		Care: dto.CareGuide{
			Light:       rec.CareLight,
			Water:       rec.CareWater,
			Soil:        rec.CareSoil,
			Temperature: rec.CareTemperature,
		},
		TreatmentSteps:       emptyIfNil(rec.TreatmentSteps),
		TreatmentIngredients: emptyIfNil(rec.TreatmentIngredients),
		FunFact:              rec.FunFact,
		CreatedAt:            rec.CreatedAt,
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// @Summary      List diagnoses
// @Description  Returns past diagnoses, newest first, optionally filtered by health status
// @Tags         diagnoses
// @Produce      json
// @Param        status  query  string  false  "Filter by health status"  Enums(healthy, stressed, diseased)
// @Param        limit   query  int     false  "Page size (max 100)"
// @Param        offset  query  int     false  "Page offset"
// @Success      200  {object}  dto.DiagnosisListResponse
// @Failure      500  {object}  shared.APIError
// @Router       /diagnoses [get]
func (h *Handler) List(c echo.Context) error {
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	offset := 0
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	var status *HealthStatus
	if v := c.QueryParam("status"); v != "" {
		parsed, err := parseHealthStatus(v)
		if err != nil {
			return shared.BadRequest("invalid_status", "unknown health status")
		}
		status = &parsed
	}

	recs, err := h.store.List(c.Request().Context(), status, limit, offset)
	if err != nil {
		h.logger.Error("failed to list diagnoses", "error", err)
		return shared.InternalError("list_failed", "failed to list diagnoses")
	}

	resp := make([]dto.DiagnosisResponse, len(recs))
	for i, rec := range recs {
		resp[i] = RecordToResponse(rec)
	}
	return c.JSON(http.StatusOK, dto.DiagnosisListResponse{
		Total:     len(resp),
		Diagnoses: resp,
	})
}

// @Summary      Get a diagnosis
// @Tags         diagnoses
// @Produce      json
// @Param        id  path  string  true  "Diagnosis ID"
// @Success      200  {object}  dto.DiagnosisResponse
// @Failure      404  {object}  shared.APIError
// @Router       /diagnoses/{id} [get]
func (h *Handler) Get(c echo.Context) error {
	rec, err := h.store.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == shared.ErrNotFound {
			return shared.NotFound("diagnosis_not_found", "diagnosis not found")
		}
		h.logger.Error("failed to get diagnosis", "error", err, "id", c.Param("id"))
		return shared.InternalError("get_failed", "failed to get diagnosis")
	}
	return c.JSON(http.StatusOK, RecordToResponse(rec))
}

// @Summary      Find similar diagnoses
// @Description  Vector search over past diagnoses with a matching plant and symptom profile
// @Tags         diagnoses
// @Produce      json
// @Param        id     path   string  true   "Diagnosis ID"
// @Param        limit  query  int     false  "Max results (default 5)"
// @Success      200  {object}  dto.DiagnosisListResponse
// @Failure      404  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Router       /diagnoses/{id}/similar [get]
func (h *Handler) Similar(c echo.Context) error {
	ctx := c.Request().Context()

	rec, err := h.store.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == shared.ErrNotFound {
			return shared.NotFound("diagnosis_not_found", "diagnosis not found")
		}
		return shared.InternalError("get_failed", "failed to get diagnosis")
	}

	limit := 5
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 25 {
			limit = n
		}
	}

	embedding, err := h.embeddings.Generate(ctx, EmbeddingText(rec.Result()))
	if err != nil {
		h.logger.Error("failed to generate embedding", "error", err, "id", rec.ID)
		return shared.InternalError("embedding_failed", "failed to search similar diagnoses")
	}

	// limit+1 so the source record can be dropped from its own results.
	matches, err := h.store.SearchByEmbedding(ctx, embedding, limit+1)
	if err != nil {
		h.logger.Error("similar search failed", "error", err, "id", rec.ID)
		return shared.InternalError("search_failed", "failed to search similar diagnoses")
	}

	resp := make([]dto.DiagnosisResponse, 0, limit)
	for _, m := range matches {
		if m.ID == rec.ID {
			continue
		}
		if len(resp) == limit {
			break
		}
		resp = append(resp, RecordToResponse(m))
	}
	return c.JSON(http.StatusOK, dto.DiagnosisListResponse{
		Total:     len(resp),
		Diagnoses: resp,
	})
}
