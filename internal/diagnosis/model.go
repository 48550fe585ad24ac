package diagnosis

import (
	"time"

	"github.com/leafsense/plant-backend/internal/locale"
	"github.com/leafsense/plant-backend/internal/shared"
)

type HealthStatus string

const (
	HealthStatusHealthy  HealthStatus = "healthy"
	HealthStatusStressed HealthStatus = "stressed"
	HealthStatusDiseased HealthStatus = "diseased"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

type CareGuide struct {
	Light       string `json:"light"`
	Water       string `json:"water"`
	Soil        string `json:"soil"`
	Temperature string `json:"temperature"`
}

// Result is the structured diagnosis produced by the model, validated
// and normalized at the trust boundary. It is immutable once built.
type Result struct {
	PlantName            string       `json:"plant_name"`
	ScientificName       string       `json:"scientific_name"`
	HealthStatus         HealthStatus `json:"health_status"`
	RiskLevel            RiskLevel    `json:"risk_level"`
	Urgency              Urgency      `json:"urgency"`
	Symptoms             []string     `json:"symptoms"`
	Causes               []string     `json:"causes"`
	Care                 CareGuide    `json:"care"`
	TreatmentSteps       []string     `json:"treatment_steps"`
	TreatmentIngredients []string     `json:"treatment_ingredients"`
	FunFact              string       `json:"fun_fact"`
}

// Record is the persisted form of a successful diagnosis.
type Record struct {
	ID        string `gorm:"primaryKey" json:"id"`
	SessionID string `gorm:"index" json:"session_id"`

	Language   string `json:"language"`
	ImageCount int    `json:"image_count"`

	PlantName      string `gorm:"not null" json:"plant_name"`
	ScientificName string `json:"scientific_name"`
	HealthStatus   string `gorm:"index" json:"health_status"`
	RiskLevel      string `json:"risk_level"`
	Urgency        string `json:"urgency"`

	Symptoms shared.StringSlice `gorm:"type:json" json:"symptoms"`
	Causes   shared.StringSlice `gorm:"type:json" json:"causes"`

	CareLight       string `json:"care_light"`
	CareWater       string `json:"care_water"`
	CareSoil        string `json:"care_soil"`
	CareTemperature string `json:"care_temperature"`

	TreatmentSteps       shared.StringSlice `gorm:"type:json" json:"treatment_steps"`
	TreatmentIngredients shared.StringSlice `gorm:"type:json" json:"treatment_ingredients"`

	FunFact string `json:"fun_fact"`

	CreatedAt time.Time `json:"created_at"`
}

func NewRecord(sessionID string, lang locale.Language, imageCount int, r *Result) *Record {
	return &Record{
		ID:                   shared.NewID("diag_"),
		SessionID:            sessionID,
		Language:             lang.String(),
		ImageCount:           imageCount,
		PlantName:            r.PlantName,
		ScientificName:       r.ScientificName,
		HealthStatus:         string(r.HealthStatus),
		RiskLevel:            string(r.RiskLevel),
		Urgency:              string(r.Urgency),
		Symptoms:             shared.StringSlice(r.Symptoms),
		Causes:               shared.StringSlice(r.Causes),
		CareLight:            r.Care.Light,
		CareWater:            r.Care.Water,
		CareSoil:             r.Care.Soil,
		CareTemperature:      r.Care.Temperature,
		TreatmentSteps:       shared.StringSlice(r.TreatmentSteps),
		TreatmentIngredients: shared.StringSlice(r.TreatmentIngredients),
		FunFact:              r.FunFact,
	}
}

// Result rebuilds the validated diagnosis from a stored record.
func (rec *Record) Result() *Result {
	return &Result{
		PlantName:            rec.PlantName,
		ScientificName:       rec.ScientificName,
		HealthStatus:         HealthStatus(rec.HealthStatus),
		RiskLevel:            RiskLevel(rec.RiskLevel),
		Urgency:              Urgency(rec.Urgency),
		Symptoms:             []string(rec.Symptoms),
		Causes:               []string(rec.Causes),
		Care:                 CareGuide{Light: rec.CareLight, Water: rec.CareWater, Soil: rec.CareSoil, Temperature: rec.CareTemperature},
		TreatmentSteps:       []string(rec.TreatmentSteps),
		TreatmentIngredients: []string(rec.TreatmentIngredients),
		FunFact:              rec.FunFact,
	}
}
