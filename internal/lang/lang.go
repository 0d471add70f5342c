// Package lang provides script-based language detection and localized
// UI strings for the supported locales.
package lang

import "strings"

// Language is one of the closed set of supported locales.
type Language string

const (
	English   Language = "en"
	Russian   Language = "ru"
	Ukrainian Language = "uk"
)

// ukrainianOnly are characters that exist in Ukrainian but not Russian.
const ukrainianOnly = "іїєґІЇЄҐ"

// Detect picks a locale by scanning for language-specific character
// ranges. This is an ordered rule list, not a general detector:
// Ukrainian-only letters win, then any Cyrillic means Russian, and
// everything else is English.
func Detect(text string) Language {
	if strings.ContainsAny(text, ukrainianOnly) {
		return Ukrainian
	}
	for _, r := range text {
		if r >= 'А' && r <= 'я' || r == 'Ё' || r == 'ё' {
			return Russian
		}
	}
	return English
}

// Normalize maps an arbitrary tag (for example a Telegram language_code)
// onto the supported set, defaulting to English.
func Normalize(tag string) Language {
	switch Language(strings.ToLower(tag)) {
	case Russian:
		return Russian
	case Ukrainian:
		return Ukrainian
	default:
		return English
	}
}
