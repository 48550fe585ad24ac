package dto

import "time"

type CareGuide struct {
	Light       string `json:"light" example:"Bright indirect light"`
	Water       string `json:"water" example:"Water when top 3cm of soil is dry"`
	Soil        string `json:"soil" example:"Well-draining potting mix"`
	Temperature string `json:"temperature" example:"18-27°C"`
}

type DiagnosisResponse struct {
	ID             string `json:"id" example:"diag_abc123"`
	SessionID      string `json:"session_id,omitempty" example:"sess_abc123"`
	Language       string `json:"language" example:"en"`
	ImageCount     int    `json:"image_count" example:"2"`
	PlantName      string `json:"plant_name" example:"Monstera"`
	ScientificName string `json:"scientific_name" example:"Monstera deliciosa"`
	HealthStatus   string `json:"health_status" example:"stressed"`
	RiskLevel      string `json:"risk_level" example:"medium"`
	Urgency        string `json:"urgency" example:"low"`

	Symptoms []string `json:"symptoms"`
	Causes   []string `json:"causes"`

	Care CareGuide `json:"care"`

	TreatmentSteps       []string `json:"treatment_steps"`
	TreatmentIngredients []string `json:"treatment_ingredients"`

	FunFact   string    `json:"fun_fact,omitempty" example:"Its leaves split to let wind pass through"`
	CreatedAt time.Time `json:"created_at"`
}

type DiagnosisListResponse struct {
	Total     int                 `json:"total" example:"12"`
	Diagnoses []DiagnosisResponse `json:"diagnoses"`
}
