package analysis

import (
	"time"

	"github.com/leafsense/plant-backend/internal/diagnosis"
	"github.com/leafsense/plant-backend/internal/locale"
)

// Phase is the single source of truth for where a session is in the
// analysis flow. Exactly one phase is active at a time.
type Phase string

const (
	// PhaseIdle: no upload captured, ready to accept images.
	PhaseIdle Phase = "idle"
	// PhaseProcessing: one analysis call is outstanding.
	PhaseProcessing Phase = "processing"
	// PhaseResult: the last analysis succeeded and its result is held.
	PhaseResult Phase = "result"
	// PhaseFailed: the last analysis failed; the localized notice is
	// held and the session accepts a fresh submission.
	PhaseFailed Phase = "failed"
)

// Session is one client's analysis flow. Language is orthogonal state:
// it survives every phase transition and is never reset by the flow.
type Session struct {
	ID       string          `json:"id"`
	Phase    Phase           `json:"phase"`
	Language locale.Language `json:"language"`

	// ImageCount is the size of the captured upload set. The images
	// themselves are never persisted; they live only for the duration
	// of the analysis call.
	ImageCount int `json:"image_count,omitempty"`

	// Result is set exactly while Phase == PhaseResult.
	Result      *diagnosis.Result `json:"result,omitempty"`
	DiagnosisID string            `json:"diagnosis_id,omitempty"`

	// Notice is the single localized failure message, set exactly
	// while Phase == PhaseFailed.
	Notice string `json:"notice,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Session) RedisKey() string {
	return "analysis:" + s.ID
}

// CanSubmit reports whether a new upload may start an analysis.
// A session holding a result must be reset first.
func (s *Session) CanSubmit() bool {
	return s.Phase == PhaseIdle || s.Phase == PhaseFailed
}

// CanReset reports whether the session may return to idle.
func (s *Session) CanReset() bool {
	return s.Phase == PhaseResult || s.Phase == PhaseFailed
}

// clearOutcome drops everything the last analysis produced.
func (s *Session) clearOutcome() {
	s.ImageCount = 0
	s.Result = nil
	s.DiagnosisID = ""
	s.Notice = ""
}
