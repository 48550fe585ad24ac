package diagnosis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrSchema marks a model response that does not conform to the
// diagnosis schema. Callers treat it the same as a transport failure:
// no partial result is ever surfaced.
var ErrSchema = errors.New("response does not match diagnosis schema")

// wireResult mirrors the JSON document the model is instructed to
// produce. Field names follow the prompt, not this package's types.
type wireResult struct {
	PlantName            string    `json:"plantName"`
	ScientificName       string    `json:"scientificName"`
	HealthStatus         string    `json:"healthStatus"`
	RiskLevel            string    `json:"riskLevel"`
	Urgency              string    `json:"urgency"`
	Symptoms             []string  `json:"symptoms"`
	Causes               []string  `json:"causes"`
	CareGuide            wireCare  `json:"careGuide"`
	TreatmentSteps       []string  `json:"treatmentSteps"`
	TreatmentIngredients []string  `json:"treatmentIngredients"`
	FunFact              string    `json:"funFact"`
}

type wireCare struct {
	Light       string `json:"light"`
	Water       string `json:"water"`
	Soil        string `json:"soil"`
	Temperature string `json:"temperature"`
}

// Decode validates raw model output against the diagnosis schema and
// builds a Result. It fails closed: missing required fields or enum
// values outside the contract reject the whole response.
func Decode(raw []byte) (*Result, error) {
	cleaned := stripFences(raw)
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrSchema)
	}

	var wire wireResult
	if err := json.Unmarshal(cleaned, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	if strings.TrimSpace(wire.PlantName) == "" {
		return nil, fmt.Errorf("%w: missing plantName", ErrSchema)
	}

	health, err := parseHealthStatus(wire.HealthStatus)
	if err != nil {
		return nil, err
	}
	risk, err := parseRiskLevel(wire.RiskLevel)
	if err != nil {
		return nil, err
	}
	urgency, err := parseUrgency(wire.Urgency)
	if err != nil {
		return nil, err
	}

	return &Result{
		PlantName:            strings.TrimSpace(wire.PlantName),
		ScientificName:       strings.TrimSpace(wire.ScientificName),
		HealthStatus:         health,
		RiskLevel:            risk,
		Urgency:              urgency,
		Symptoms:             normalizeList(wire.Symptoms),
		Causes:               normalizeList(wire.Causes),
		Care:                 CareGuide(wire.CareGuide),
		TreatmentSteps:       normalizeList(wire.TreatmentSteps),
		TreatmentIngredients: normalizeList(wire.TreatmentIngredients),
		FunFact:              strings.TrimSpace(wire.FunFact),
	}, nil
}

// stripFences removes a markdown code fence if the model wrapped its
// JSON in one despite the response MIME type.
func stripFences(raw []byte) []byte {
	s := strings.TrimSpace(string(raw))
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return []byte(strings.TrimSpace(s))
}

func parseHealthStatus(v string) (HealthStatus, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "healthy":
		return HealthStatusHealthy, nil
	case "stressed", "needs attention", "needs_attention":
		return HealthStatusStressed, nil
	case "diseased", "sick", "unhealthy":
		return HealthStatusDiseased, nil
	}
	return "", fmt.Errorf("%w: invalid healthStatus %q", ErrSchema, v)
}

func parseRiskLevel(v string) (RiskLevel, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "low":
		return RiskLow, nil
	case "medium", "moderate":
		return RiskMedium, nil
	case "high":
		return RiskHigh, nil
	}
	return "", fmt.Errorf("%w: invalid riskLevel %q", ErrSchema, v)
}

func parseUrgency(v string) (Urgency, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "low", "none":
		return UrgencyLow, nil
	case "medium", "moderate":
		return UrgencyMedium, nil
	case "high", "immediate":
		return UrgencyHigh, nil
	}
	return "", fmt.Errorf("%w: invalid urgency %q", ErrSchema, v)
}

// normalizeList trims entries, drops blanks, and guarantees a non-nil
// slice so an empty list survives serialization as [] rather than null.
func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
