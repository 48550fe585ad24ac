package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/leafsense/plant-backend/internal/diagnosis"
	"github.com/leafsense/plant-backend/internal/dto"
	"github.com/leafsense/plant-backend/internal/locale"
	"github.com/leafsense/plant-backend/internal/shared"
	"github.com/leafsense/plant-backend/internal/upload"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func newTestHandler(t *testing.T, analyzer diagnosis.Analyzer) (*Handler, *Controller) {
	t.Helper()
	controller := NewController(newMemStore(), analyzer, newFakeHistory(), diagnosis.NewHashEmbedding(8), NewHub(), locale.English, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(controller, NewHub(), upload.DefaultLimits(), logger), controller
}

func newSessionContext(e *echo.Echo, req *http.Request, id string) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	return c, rec
}

func multipartImages(t *testing.T, payloads ...[]byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, data := range payloads {
		part, err := writer.CreateFormFile("images", "leaf.png")
		if err != nil {
			t.Fatalf("CreateFormFile failed: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write part failed: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer failed: %v", err)
	}
	return body, writer.FormDataContentType()
}

func assertAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	if httpErr.Code != status {
		t.Errorf("expected status %d, got %d", status, httpErr.Code)
	}
	apiErr, ok := httpErr.Message.(*shared.APIError)
	if !ok {
		t.Fatalf("expected *shared.APIError message, got %T", httpErr.Message)
	}
	if apiErr.Code != code {
		t.Errorf("expected code %q, got %q", code, apiErr.Code)
	}
}

func TestHandler_CreateSession(t *testing.T) {
	h, _ := newTestHandler(t, &fakeAnalyzer{})
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions",
		strings.NewReader(`{"language":"es"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, rec := newSessionContext(e, req, "")

	if err := h.CreateSession(c); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp dto.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Phase != "idle" || resp.Language != "es" {
		t.Errorf("unexpected session: %+v", resp)
	}
	if resp.ID == "" {
		t.Error("expected session ID in response")
	}
}

func TestHandler_CreateSession_UnsupportedLanguage(t *testing.T) {
	h, _ := newTestHandler(t, &fakeAnalyzer{})
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions",
		strings.NewReader(`{"language":"fr"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, _ := newSessionContext(e, req, "")

	assertAPIError(t, h.CreateSession(c), http.StatusBadRequest, "invalid_language")
}

func TestHandler_GetSession_NotFound(t *testing.T) {
	h, _ := newTestHandler(t, &fakeAnalyzer{})
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/sess_missing", nil)
	c, _ := newSessionContext(e, req, "sess_missing")

	assertAPIError(t, h.GetSession(c), http.StatusNotFound, "session_not_found")
}

func TestHandler_Analyze_Success(t *testing.T) {
	analyzer := &fakeAnalyzer{analyze: func(context.Context, diagnosis.Request) (*diagnosis.Result, error) {
		return healthyResult(), nil
	}}
	h, controller := newTestHandler(t, analyzer)
	sess, _ := controller.CreateSession(context.Background(), locale.English)
	e := echo.New()

	body, contentType := multipartImages(t, pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+sess.ID+"/analyze", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, rec := newSessionContext(e, req, sess.ID)

	if err := h.Analyze(c); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Phase != "result" {
		t.Errorf("expected result phase, got %s", resp.Phase)
	}
	if resp.Result == nil || resp.Result.PlantName != "Basil" {
		t.Fatalf("expected diagnosis in response, got %+v", resp.Result)
	}
	if resp.Result.TreatmentIngredients == nil {
		t.Error("empty ingredients should serialize as [], not null")
	}
}

func TestHandler_Analyze_NoImages(t *testing.T) {
	h, controller := newTestHandler(t, &fakeAnalyzer{})
	sess, _ := controller.CreateSession(context.Background(), locale.Spanish)
	e := echo.New()

	body, contentType := multipartImages(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+sess.ID+"/analyze", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, _ := newSessionContext(e, req, sess.ID)

	err := h.Analyze(c)
	assertAPIError(t, err, http.StatusBadRequest, "no_images")

	// The guidance message follows the session language.
	var httpErr *echo.HTTPError
	errors.As(err, &httpErr)
	apiErr := httpErr.Message.(*shared.APIError)
	if apiErr.Message != locale.NoImagesNotice(locale.Spanish) {
		t.Errorf("expected Spanish notice, got %q", apiErr.Message)
	}
}

func TestHandler_Analyze_UnsupportedType(t *testing.T) {
	h, controller := newTestHandler(t, &fakeAnalyzer{})
	sess, _ := controller.CreateSession(context.Background(), locale.English)
	e := echo.New()

	body, contentType := multipartImages(t, []byte("GIF89a definitely not a photo"))
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+sess.ID+"/analyze", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, _ := newSessionContext(e, req, sess.ID)

	assertAPIError(t, h.Analyze(c), http.StatusUnsupportedMediaType, "unsupported_image_type")
}

func TestHandler_Analyze_Failure(t *testing.T) {
	analyzer := &fakeAnalyzer{analyze: func(context.Context, diagnosis.Request) (*diagnosis.Result, error) {
		return nil, errors.New("model unavailable")
	}}
	h, controller := newTestHandler(t, analyzer)
	sess, _ := controller.CreateSession(context.Background(), locale.English)
	e := echo.New()

	body, contentType := multipartImages(t, pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+sess.ID+"/analyze", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, _ := newSessionContext(e, req, sess.ID)

	err := h.Analyze(c)
	assertAPIError(t, err, http.StatusBadGateway, "analysis_failed")

	var httpErr *echo.HTTPError
	errors.As(err, &httpErr)
	apiErr := httpErr.Message.(*shared.APIError)
	if apiErr.Message != locale.FailureNotice(locale.English) {
		t.Errorf("expected failure notice, got %q", apiErr.Message)
	}
}

func TestHandler_Analyze_ResetRequired(t *testing.T) {
	analyzer := &fakeAnalyzer{analyze: func(context.Context, diagnosis.Request) (*diagnosis.Result, error) {
		return healthyResult(), nil
	}}
	h, controller := newTestHandler(t, analyzer)
	sess, _ := controller.CreateSession(context.Background(), locale.English)
	if _, err := controller.Submit(context.Background(), sess.ID, testImages(1)); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	e := echo.New()

	body, contentType := multipartImages(t, pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+sess.ID+"/analyze", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, _ := newSessionContext(e, req, sess.ID)

	assertAPIError(t, h.Analyze(c), http.StatusConflict, "reset_required")
}

func TestHandler_Reset(t *testing.T) {
	analyzer := &fakeAnalyzer{analyze: func(context.Context, diagnosis.Request) (*diagnosis.Result, error) {
		return healthyResult(), nil
	}}
	h, controller := newTestHandler(t, analyzer)
	sess, _ := controller.CreateSession(context.Background(), locale.English)
	if _, err := controller.Submit(context.Background(), sess.ID, testImages(1)); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+sess.ID+"/reset", nil)
	c, rec := newSessionContext(e, req, sess.ID)

	if err := h.Reset(c); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	var resp dto.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Phase != "idle" || resp.Result != nil {
		t.Errorf("expected empty idle session, got %+v", resp)
	}
}

func TestHandler_Reset_InvalidPhase(t *testing.T) {
	h, controller := newTestHandler(t, &fakeAnalyzer{})
	sess, _ := controller.CreateSession(context.Background(), locale.English)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+sess.ID+"/reset", nil)
	c, _ := newSessionContext(e, req, sess.ID)

	assertAPIError(t, h.Reset(c), http.StatusConflict, "invalid_phase")
}

func TestHandler_ToggleLanguage(t *testing.T) {
	h, controller := newTestHandler(t, &fakeAnalyzer{})
	sess, _ := controller.CreateSession(context.Background(), locale.English)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+sess.ID+"/language", nil)
	c, rec := newSessionContext(e, req, sess.ID)

	if err := h.ToggleLanguage(c); err != nil {
		t.Fatalf("ToggleLanguage failed: %v", err)
	}
	var resp dto.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Language != "es" {
		t.Errorf("expected es, got %s", resp.Language)
	}
	if resp.Phase != "idle" {
		t.Errorf("toggle must not change phase, got %s", resp.Phase)
	}
}
