package analysis

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/leafsense/plant-backend/internal/dto"
	"github.com/leafsense/plant-backend/internal/locale"
	"github.com/leafsense/plant-backend/internal/shared"
	"github.com/leafsense/plant-backend/internal/upload"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type Handler struct {
	controller *Controller
	hub        *Hub
	limits     upload.Limits
	logger     *slog.Logger
}

func NewHandler(controller *Controller, hub *Hub, limits upload.Limits, logger *slog.Logger) *Handler {
	return &Handler{
		controller: controller,
		hub:        hub,
		limits:     limits,
		logger:     logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateSession)
	g.GET("/:id", h.GetSession)
	g.POST("/:id/analyze", h.Analyze)
	g.POST("/:id/reset", h.Reset)
	g.POST("/:id/language", h.ToggleLanguage)
	g.GET("/:id/watch", h.Watch)
}

func sessionToResponse(sess *Session) dto.SessionResponse {
	resp := dto.SessionResponse{
		ID:         sess.ID,
		Phase:      string(sess.Phase),
		Language:   sess.Language.String(),
		ImageCount: sess.ImageCount,
		Notice:     sess.Notice,
		CreatedAt:  sess.CreatedAt,
		UpdatedAt:  sess.UpdatedAt,
	}
	if sess.Result != nil {
		resp.Result = resultToResponse(sess)
	}
	return resp
}

func resultToResponse(sess *Session) *dto.DiagnosisResponse {
	r := sess.Result
	return &dto.DiagnosisResponse{
		ID:             sess.DiagnosisID,
		SessionID:      sess.ID,
		Language:       sess.Language.String(),
		ImageCount:     sess.ImageCount,
		PlantName:      r.PlantName,
		ScientificName: r.ScientificName,
		HealthStatus:   string(r.HealthStatus),
		RiskLevel:      string(r.RiskLevel),
		Urgency:        string(r.Urgency),
		Symptoms:       r.Symptoms,
		Causes:         r.Causes,
		Care: dto.CareGuide{
			Light:       r.Care.Light,
			Water:       r.Care.Water,
			Soil:        r.Care.Soil,
			Temperature: r.Care.Temperature,
		},
		TreatmentSteps:       r.TreatmentSteps,
		TreatmentIngredients: r.TreatmentIngredients,
		FunFact:              r.FunFact,
		CreatedAt:            sess.UpdatedAt,
	}
}

// @Summary      Create an analysis session
// @Description  Starts a new session in the idle phase
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        request  body  dto.CreateSessionRequest  false  "Session options"
// @Success      201  {object}  dto.SessionResponse
// @Failure      500  {object}  shared.APIError
// @Router       /sessions [post]
func (h *Handler) CreateSession(c echo.Context) error {
	var req dto.CreateSessionRequest
	if err := c.Bind(&req); err != nil && c.Request().ContentLength > 0 {
		return shared.BadRequest("invalid_request", "invalid request body")
	}

	var lang locale.Language
	if req.Language != "" {
		parsed, ok := locale.Parse(req.Language)
		if !ok {
			return shared.BadRequest("invalid_language", "unsupported language")
		}
		lang = parsed
	}

	sess, err := h.controller.CreateSession(c.Request().Context(), lang)
	if err != nil {
		h.logger.Error("failed to create session", "error", err)
		return shared.InternalError("create_failed", "failed to create session")
	}
	return c.JSON(http.StatusCreated, sessionToResponse(sess))
}

// @Summary      Get session state
// @Tags         sessions
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  shared.APIError
// @Router       /sessions/{id} [get]
func (h *Handler) GetSession(c echo.Context) error {
	sess, err := h.controller.GetSession(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == shared.ErrNotFound {
			return shared.NotFound("session_not_found", "session not found")
		}
		h.logger.Error("failed to get session", "error", err, "session_id", c.Param("id"))
		return shared.InternalError("get_failed", "failed to get session")
	}
	return c.JSON(http.StatusOK, sessionToResponse(sess))
}

// @Summary      Analyze plant photos
// @Description  Uploads one or more photos and runs a single diagnosis call. The session is in the processing phase while the call is outstanding.
// @Tags         sessions
// @Accept       multipart/form-data
// @Produce      json
// @Param        id      path      string  true  "Session ID"
// @Param        images  formData  file    true  "Plant photos (jpeg, png or webp)"
// @Success      200  {object}  dto.SessionResponse
// @Failure      400  {object}  shared.APIError
// @Failure      404  {object}  shared.APIError
// @Failure      409  {object}  shared.APIError
// @Failure      502  {object}  shared.APIError
// @Router       /sessions/{id}/analyze [post]
func (h *Handler) Analyze(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	form, err := c.MultipartForm()
	if err != nil {
		return shared.BadRequest("invalid_form", "expected multipart form data")
	}
	files := form.File["images"]

	set, err := upload.ReadMultipart(ctx, files, h.limits)
	if err != nil {
		return h.uploadError(c, id, err)
	}

	sess, err := h.controller.Submit(ctx, id, set)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, sessionToResponse(sess))
	case errors.Is(err, shared.ErrNotFound):
		return shared.NotFound("session_not_found", "session not found")
	case errors.Is(err, ErrAnalysisInProgress):
		return shared.Conflict("analysis_in_progress", "an analysis is already running for this session")
	case errors.Is(err, ErrInvalidTransition):
		return shared.Conflict("reset_required", "reset the session before submitting new photos")
	case errors.Is(err, ErrAnalysisFailed):
		// The session already carries the localized notice; surface it.
		return shared.BadGateway("analysis_failed", sess.Notice)
	default:
		h.logger.Error("submit failed", "error", err, "session_id", id)
		return shared.InternalError("analyze_failed", "failed to analyze images")
	}
}

func (h *Handler) uploadError(c echo.Context, id string, err error) error {
	switch {
	case errors.Is(err, upload.ErrEmpty):
		sess, getErr := h.controller.GetSession(c.Request().Context(), id)
		lang := locale.Default()
		if getErr == nil {
			lang = sess.Language
		}
		return shared.BadRequest("no_images", locale.NoImagesNotice(lang))
	case errors.Is(err, upload.ErrTooMany):
		return shared.BadRequest("too_many_images", err.Error())
	case errors.Is(err, upload.ErrTooLarge):
		return shared.RequestTooLarge("image_too_large", err.Error())
	case errors.Is(err, upload.ErrUnsupportedType):
		return shared.UnsupportedMediaType("unsupported_image_type", err.Error())
	default:
		h.logger.Error("upload read failed", "error", err, "session_id", id)
		return shared.BadRequest("invalid_upload", "failed to read uploaded images")
	}
}

// @Summary      Reset a session
// @Description  Discards the held result or failure notice and returns to idle. Valid only from the result or failed phase.
// @Tags         sessions
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  shared.APIError
// @Failure      409  {object}  shared.APIError
// @Router       /sessions/{id}/reset [post]
func (h *Handler) Reset(c echo.Context) error {
	sess, err := h.controller.Reset(c.Request().Context(), c.Param("id"))
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, sessionToResponse(sess))
	case errors.Is(err, shared.ErrNotFound):
		return shared.NotFound("session_not_found", "session not found")
	case errors.Is(err, ErrAnalysisInProgress):
		return shared.Conflict("analysis_in_progress", "cannot reset while an analysis is running")
	case errors.Is(err, ErrInvalidTransition):
		return shared.Conflict("invalid_phase", "nothing to reset in the current phase")
	default:
		h.logger.Error("reset failed", "error", err, "session_id", c.Param("id"))
		return shared.InternalError("reset_failed", "failed to reset session")
	}
}

// @Summary      Toggle session language
// @Description  Flips between English and Spanish. Valid in any phase; never changes the phase.
// @Tags         sessions
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  shared.APIError
// @Router       /sessions/{id}/language [post]
func (h *Handler) ToggleLanguage(c echo.Context) error {
	sess, err := h.controller.ToggleLanguage(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("session_not_found", "session not found")
		}
		h.logger.Error("language toggle failed", "error", err, "session_id", c.Param("id"))
		return shared.InternalError("toggle_failed", "failed to toggle language")
	}
	return c.JSON(http.StatusOK, sessionToResponse(sess))
}

// @Summary      Watch phase transitions
// @Description  Upgrades to a websocket and streams one event per phase transition
// @Tags         sessions
// @Param        id  path  string  true  "Session ID"
// @Success      101  "Switching Protocols"
// @Failure      404  {object}  shared.APIError
// @Router       /sessions/{id}/watch [get]
func (h *Handler) Watch(c echo.Context) error {
	id := c.Param("id")
	if _, err := h.controller.GetSession(c.Request().Context(), id); err != nil {
		if err == shared.ErrNotFound {
			return shared.NotFound("session_not_found", "session not found")
		}
		return shared.InternalError("get_failed", "failed to get session")
	}

	ws, err := wsUpgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	events, cancel := h.hub.Subscribe(id)
	defer cancel()

	go h.readLoop(ws)
	h.writeLoop(ws, events)
	return nil
}

// readLoop drains the connection so pongs are processed and a client
// close is noticed.
func (h *Handler) readLoop(ws *websocket.Conn) {
	ws.SetReadLimit(512)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			_ = ws.Close()
			return
		}
	}
}

func (h *Handler) writeLoop(ws *websocket.Conn, events <-chan dto.PhaseEvent) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = ws.Close()
	}()

	for {
		select {
		case event := <-events:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
