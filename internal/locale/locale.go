package locale

// Language selects the language for model responses and user-visible
// notices. It lives on the analysis session and is orthogonal to the
// session phase: toggling it never changes what phase is active.
type Language string

const (
	English Language = "en"
	Spanish Language = "es"
)

func Default() Language {
	return English
}

// Parse maps a language tag to a supported Language. Unknown tags
// report false so callers can fall back to the configured default.
func Parse(tag string) (Language, bool) {
	switch tag {
	case "en", "en-US", "en-GB":
		return English, true
	case "es", "es-ES", "es-MX":
		return Spanish, true
	}
	return "", false
}

func (l Language) Toggle() Language {
	if l == Spanish {
		return English
	}
	return Spanish
}

func (l Language) String() string {
	return string(l)
}

type key string

const (
	keyAnalysisFailed key = "analysis_failed"
	keyNoImages       key = "no_images"
	keyResultReady    key = "result_ready"
)

var catalog = map[Language]map[key]string{
	English: {
		keyAnalysisFailed: "We couldn't analyze your plant. Please try again.",
		keyNoImages:       "Select at least one photo of your plant.",
		keyResultReady:    "Your plant analysis is ready.",
	},
	Spanish: {
		keyAnalysisFailed: "No pudimos analizar tu planta. Inténtalo de nuevo.",
		keyNoImages:       "Selecciona al menos una foto de tu planta.",
		keyResultReady:    "El análisis de tu planta está listo.",
	},
}

func lookup(l Language, k key) string {
	if msgs, ok := catalog[l]; ok {
		if msg, ok := msgs[k]; ok {
			return msg
		}
	}
	return catalog[English][k]
}

// FailureNotice is the single generic message shown to the user when an
// analysis call fails, whatever the underlying cause.
func FailureNotice(l Language) string {
	return lookup(l, keyAnalysisFailed)
}

func NoImagesNotice(l Language) string {
	return lookup(l, keyNoImages)
}

func ResultReadyNotice(l Language) string {
	return lookup(l, keyResultReady)
}
