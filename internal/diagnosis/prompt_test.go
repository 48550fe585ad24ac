package diagnosis

import (
	"strings"
	"testing"

	"github.com/leafsense/plant-backend/internal/locale"
)

func TestPrompt_DictatesWireSchema(t *testing.T) {
	p := Prompt(locale.English)

	// Every field Decode validates must be named in the instruction.
	for _, field := range []string{
		"plantName", "scientificName", "healthStatus", "riskLevel",
		"urgency", "symptoms", "causes", "careGuide",
		"treatmentSteps", "treatmentIngredients", "funFact",
	} {
		if !strings.Contains(p, field) {
			t.Errorf("prompt missing field %q", field)
		}
	}
	if !strings.Contains(p, "JSON only") {
		t.Error("prompt must forbid non-JSON output")
	}
}

func TestPrompt_LanguageSelection(t *testing.T) {
	if p := Prompt(locale.English); !strings.Contains(p, "in English.") {
		t.Error("English prompt missing language instruction")
	}
	if p := Prompt(locale.Spanish); !strings.Contains(p, "in Spanish.") {
		t.Error("Spanish prompt missing language instruction")
	}
	// Unknown languages fall back to the default rather than leaving a
	// format verb in the instruction.
	if p := Prompt(locale.Language("fr")); !strings.Contains(p, "in English.") {
		t.Error("unknown language should fall back to English")
	}
}
