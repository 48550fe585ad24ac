package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/leafsense/plant-backend/internal/diagnosis"
	"github.com/leafsense/plant-backend/internal/locale"
	"github.com/leafsense/plant-backend/internal/upload"
)

var (
	// ErrAnalysisInProgress rejects a submission while one analysis
	// call is already outstanding for the session. Submissions are
	// rejected rather than queued or replaced.
	ErrAnalysisInProgress = errors.New("analysis already in progress")

	// ErrInvalidTransition rejects an operation the current phase does
	// not allow, e.g. resetting an idle session.
	ErrInvalidTransition = errors.New("operation not valid in current phase")

	// ErrAnalysisFailed wraps any upstream failure. The session carries
	// the localized notice; this error carries the cause for logs.
	ErrAnalysisFailed = errors.New("analysis failed")
)

type SessionStore interface {
	Create(ctx context.Context, sess *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error
}

// HistoryStore persists successful diagnoses and indexes them for
// similar-case search.
type HistoryStore interface {
	Create(ctx context.Context, rec *diagnosis.Record) error
	UpsertEmbedding(ctx context.Context, recordID string, embedding []float32) error
}

// Controller drives the session state machine:
//
//	idle -> processing -> result -> idle (reset)
//	              \-> failed -> processing (resubmit) or idle (reset)
//
// Transitions happen synchronously around the one suspension point,
// the analyzer call, so a session never holds two phases at once.
type Controller struct {
	store      SessionStore
	analyzer   diagnosis.Analyzer
	history    HistoryStore
	embeddings diagnosis.EmbeddingService
	hub        *Hub
	logger     *slog.Logger

	defaultLanguage locale.Language

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewController(
	store SessionStore,
	analyzer diagnosis.Analyzer,
	history HistoryStore,
	embeddings diagnosis.EmbeddingService,
	hub *Hub,
	defaultLanguage locale.Language,
	logger *slog.Logger,
) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultLanguage == "" {
		defaultLanguage = locale.Default()
	}
	return &Controller{
		store:           store,
		analyzer:        analyzer,
		history:         history,
		embeddings:      embeddings,
		hub:             hub,
		logger:          logger.With("component", "analysis-controller"),
		defaultLanguage: defaultLanguage,
		inFlight:        make(map[string]bool),
	}
}

func (c *Controller) CreateSession(ctx context.Context, lang locale.Language) (*Session, error) {
	if lang == "" {
		lang = c.defaultLanguage
	}
	sess := &Session{
		Phase:    PhaseIdle,
		Language: lang,
	}
	if err := c.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

func (c *Controller) GetSession(ctx context.Context, id string) (*Session, error) {
	return c.store.Get(ctx, id)
}

// Submit captures an upload set and runs exactly one analysis call.
// The session is in processing before the call starts, and in result
// or failed when Submit returns; the images are dropped either way.
func (c *Controller) Submit(ctx context.Context, id string, images upload.Set) (*Session, error) {
	if len(images) == 0 {
		return nil, upload.ErrEmpty
	}

	sess, err := c.begin(ctx, id, len(images))
	if err != nil {
		return nil, err
	}
	defer c.release(id)

	c.hub.Broadcast(sess)

	result, err := c.analyzer.Analyze(ctx, diagnosis.Request{
		Images:   images,
		Language: sess.Language,
	})
	if err != nil {
		return c.fail(ctx, sess, err)
	}

	return c.complete(ctx, sess, result)
}

// begin atomically claims the session and moves it to processing.
// The phase is persisted before the analyzer runs, so concurrent reads
// observe processing while the call is outstanding.
func (c *Controller) begin(ctx context.Context, id string, imageCount int) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight[id] {
		return nil, ErrAnalysisInProgress
	}

	sess, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case sess.Phase == PhaseProcessing:
		return nil, ErrAnalysisInProgress
	case !sess.CanSubmit():
		return nil, fmt.Errorf("%w: submit from %s", ErrInvalidTransition, sess.Phase)
	}

	sess.clearOutcome()
	sess.Phase = PhaseProcessing
	sess.ImageCount = imageCount
	if err := c.store.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("persist processing phase: %w", err)
	}

	c.inFlight[id] = true
	return sess, nil
}

func (c *Controller) release(id string) {
	c.mu.Lock()
	delete(c.inFlight, id)
	c.mu.Unlock()
}

// freshest re-reads the session under the lock so an outcome write
// never clobbers a concurrent update (a language toggle landing while
// the analyzer runs). Falls back to the caller's copy if the read
// fails; the session must still reach a terminal phase.
func (c *Controller) freshest(ctx context.Context, sess *Session) *Session {
	fresh, err := c.store.Get(ctx, sess.ID)
	if err != nil {
		c.logger.Error("failed to re-read session", "session_id", sess.ID, "error", err)
		return sess
	}
	return fresh
}

// fail records exactly one localized notice and leaves the session
// submit-eligible. The captured images are gone; the user resubmits
// manually, there are no automatic retries.
func (c *Controller) fail(ctx context.Context, sess *Session, cause error) (*Session, error) {
	c.logger.Error("analysis failed",
		"session_id", sess.ID,
		"images", sess.ImageCount,
		"error", cause)

	c.mu.Lock()
	sess = c.freshest(ctx, sess)
	sess.clearOutcome()
	sess.Phase = PhaseFailed
	sess.Notice = locale.FailureNotice(sess.Language)
	if err := c.store.Update(ctx, sess); err != nil {
		c.logger.Error("failed to persist failed phase", "session_id", sess.ID, "error", err)
	}
	c.mu.Unlock()

	c.hub.Broadcast(sess)
	return sess, fmt.Errorf("%w: %w", ErrAnalysisFailed, cause)
}

func (c *Controller) complete(ctx context.Context, sess *Session, result *diagnosis.Result) (*Session, error) {
	rec := diagnosis.NewRecord(sess.ID, sess.Language, sess.ImageCount, result)

	// History is best-effort: losing a row never costs the user their
	// on-screen result. The session only advertises a diagnosis ID
	// whose record actually exists.
	diagnosisID := ""
	if c.history != nil {
		if err := c.history.Create(ctx, rec); err != nil {
			c.logger.Error("failed to persist diagnosis", "session_id", sess.ID, "error", err)
		} else {
			diagnosisID = rec.ID
			if c.embeddings != nil {
				if vec, err := c.embeddings.Generate(ctx, diagnosis.EmbeddingText(result)); err == nil {
					if err := c.history.UpsertEmbedding(ctx, rec.ID, vec); err != nil {
						c.logger.Warn("failed to index diagnosis", "diagnosis_id", rec.ID, "error", err)
					}
				}
			}
		}
	}

	c.mu.Lock()
	sess = c.freshest(ctx, sess)
	sess.Phase = PhaseResult
	sess.Result = result
	sess.DiagnosisID = diagnosisID
	sess.Notice = ""
	err := c.store.Update(ctx, sess)
	c.mu.Unlock()
	if err != nil {
		return c.fail(ctx, sess, fmt.Errorf("persist result phase: %w", err))
	}

	c.hub.Broadcast(sess)
	c.logger.Info("analysis complete",
		"session_id", sess.ID,
		"diagnosis_id", sess.DiagnosisID,
		"plant", result.PlantName,
		"status", result.HealthStatus)
	return sess, nil
}

// Reset discards the held result or notice and returns to idle. It is
// only valid from result or failed.
func (c *Controller) Reset(ctx context.Context, id string) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight[id] {
		return nil, ErrAnalysisInProgress
	}

	sess, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.CanReset() {
		return nil, fmt.Errorf("%w: reset from %s", ErrInvalidTransition, sess.Phase)
	}

	sess.clearOutcome()
	sess.Phase = PhaseIdle
	if err := c.store.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("persist idle phase: %w", err)
	}

	c.hub.Broadcast(sess)
	return sess, nil
}

// ToggleLanguage flips the session language. It is valid in any phase
// and never changes the phase or the held result. The read-modify-write
// holds the controller lock so it cannot interleave with an outcome
// write and resurrect a stale phase.
func (c *Controller) ToggleLanguage(ctx context.Context, id string) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	sess.Language = sess.Language.Toggle()
	if err := c.store.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("persist language: %w", err)
	}
	return sess, nil
}
