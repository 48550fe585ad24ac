package diagnosis

import (
	"fmt"

	"github.com/leafsense/plant-backend/internal/locale"
)

const promptTemplate = `You are an expert botanist and plant pathologist.
Examine the attached photo(s), which all show the same plant, and produce
a diagnosis as a single JSON object with exactly these fields:

{
  "plantName": "common name of the plant",
  "scientificName": "latin binomial",
  "healthStatus": "healthy" | "stressed" | "diseased",
  "riskLevel": "low" | "medium" | "high",
  "urgency": "low" | "medium" | "high",
  "symptoms": ["visible symptom", ...],
  "causes": ["likely cause", ...],
  "careGuide": {
    "light": "light requirements",
    "water": "watering guidance",
    "soil": "soil guidance",
    "temperature": "temperature range"
  },
  "treatmentSteps": ["step 1", "step 2", ...],
  "treatmentIngredients": ["ingredient", ...],
  "funFact": "one short interesting fact about this plant"
}

Rules:
- Respond with JSON only, no markdown and no commentary.
- If the plant is healthy, symptoms, causes, treatmentSteps and
  treatmentIngredients must be empty arrays.
- treatmentSteps must be ordered from first action to last.
- Write every human-readable value in %s.`

var promptLanguageNames = map[locale.Language]string{
	locale.English: "English",
	locale.Spanish: "Spanish",
}

// Prompt builds the analysis instruction for one call. The schema the
// prompt dictates is the same one Decode validates against.
func Prompt(lang locale.Language) string {
	name, ok := promptLanguageNames[lang]
	if !ok {
		name = promptLanguageNames[locale.Default()]
	}
	return fmt.Sprintf(promptTemplate, name)
}
