package dto

import "time"

type SessionResponse struct {
	ID         string    `json:"id" example:"sess_abc123"`
	Phase      string    `json:"phase" example:"idle" enums:"idle,processing,result,failed"`
	Language   string    `json:"language" example:"en"`
	ImageCount int       `json:"image_count,omitempty" example:"2"`
	Notice     string    `json:"notice,omitempty" example:"We couldn't analyze your plant. Please try again."`

	Result *DiagnosisResponse `json:"result,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateSessionRequest struct {
	Language string `json:"language,omitempty" example:"en"`
}

type PhaseEvent struct {
	SessionID string `json:"session_id" example:"sess_abc123"`
	Phase     string `json:"phase" example:"processing"`
	Notice    string `json:"notice,omitempty"`
	At        int64  `json:"at" example:"1724680000000"`
}
