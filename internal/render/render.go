package render

import (
	"strings"

	"github.com/dreammap-bot/dreammap/internal/analyzer"
	"github.com/dreammap-bot/dreammap/internal/lang"
)

// flavorCategory keys the recent-line window for symbol flavor lines.
const flavorCategory = "flavor"

var headers = map[lang.Language]string{
	lang.English:   "🌙 Dream reading",
	lang.Russian:   "🌙 Разбор сна",
	lang.Ukrainian: "🌙 Розбір сну",
}

var emotionPrefixes = map[lang.Language]string{
	lang.English:   "Emotions:",
	lang.Russian:   "Эмоции:",
	lang.Ukrainian: "Емоції:",
}

var advicePrefixes = map[lang.Language]string{
	lang.English:   "💡 Advice:",
	lang.Russian:   "💡 Совет:",
	lang.Ukrainian: "💡 Порада:",
}

var esotericPrefixes = map[lang.Language]string{
	lang.English:   "🔮",
	lang.Russian:   "🔮",
	lang.Ukrainian: "🔮",
}

// emotionLabels translates the canonical English labels the model often
// returns into the user's language. Labels already in the user's
// language pass through untouched.
var emotionLabels = map[lang.Language]map[string]string{
	lang.Russian: {
		"fear": "страх", "joy": "радость", "anxiety": "тревога",
		"sadness": "грусть", "calm": "спокойствие", "neutral": "нейтральная",
		"anger": "злость", "surprise": "удивление",
	},
	lang.Ukrainian: {
		"fear": "страх", "joy": "радість", "anxiety": "тривога",
		"sadness": "сум", "calm": "спокій", "neutral": "нейтральна",
		"anger": "злість", "surprise": "подив",
	},
}

type flavorLine struct {
	match string
	line  string
}

// flavorLines are cosmetic one-liners keyed by substring match against
// the extracted symbols. Decoration only, never reinterpretation.
var flavorLines = map[lang.Language][]flavorLine{
	lang.English: {
		{match: "water", line: "Water in a dream often marks the edge of something not yet said."},
		{match: "mirror", line: "A mirror tends to appear when self-image is under review."},
		{match: "falling", line: "Falling usually tracks a waking sense of lost footing."},
		{match: "stairs", line: "Stairs mark a transition between levels of a situation."},
		{match: "fog", line: "Fog points at a decision you cannot yet see clearly."},
		{match: "teeth", line: "Teeth dreams often surface around worries about appearance or control."},
		{match: "flight", line: "Flight is the classic image of wanting more room to move."},
		{match: "door", line: "A door stands for an option that is open but not yet taken."},
	},
	lang.Russian: {
		{match: "вода", line: "Вода во сне часто отмечает границу чего-то ещё не сказанного."},
		{match: "зеркало", line: "Зеркало обычно появляется, когда пересматривается образ себя."},
		{match: "падение", line: "Падение, как правило, связано с ощущением потери опоры наяву."},
		{match: "лестница", line: "Лестница отмечает переход между уровнями одной ситуации."},
		{match: "туман", line: "Туман указывает на решение, которое пока не видно ясно."},
		{match: "зубы", line: "Сны о зубах часто всплывают вокруг беспокойства о контроле."},
		{match: "полёт", line: "Полёт — классический образ желания большего простора."},
		{match: "дверь", line: "Дверь означает возможность, которая открыта, но ещё не использована."},
	},
	lang.Ukrainian: {
		{match: "вода", line: "Вода уві сні часто позначає межу чогось ще не сказаного."},
		{match: "дзеркало", line: "Дзеркало зазвичай з'являється, коли переглядається образ себе."},
		{match: "падіння", line: "Падіння, як правило, пов'язане з відчуттям втрати опори наяву."},
		{match: "сходи", line: "Сходи позначають перехід між рівнями однієї ситуації."},
		{match: "туман", line: "Туман вказує на рішення, яке поки не видно ясно."},
		{match: "зуби", line: "Сни про зуби часто виринають довкола тривоги про контроль."},
		{match: "політ", line: "Політ — класичний образ бажання більшого простору."},
		{match: "двері", line: "Двері означають можливість, яка відкрита, але ще не використана."},
	},
}

// Render assembles the final user-facing message: header, emotion line,
// narrative sections, advice, and at most one symbol flavor line. Only
// non-empty parts are joined. The recent window is optional; when set
// it suppresses flavor lines shown recently in the same chat.
func Render(s *analyzer.DreamStructure, in analyzer.Interpretation, lg lang.Language, recent *RecentWindow) string {
	parts := []string{headers[langOrEnglish(lg)]}

	if line := emotionLine(s, lg); line != "" {
		parts = append(parts, line)
	}
	if psych := strings.TrimSpace(in.Psychological); psych != "" {
		parts = append(parts, psych)
	}
	if eso := strings.TrimSpace(in.Esoteric); eso != "" {
		parts = append(parts, esotericPrefixes[langOrEnglish(lg)]+" "+eso)
	}
	if advice := strings.TrimSpace(in.Advice); advice != "" {
		parts = append(parts, advicePrefixes[langOrEnglish(lg)]+" "+advice)
	}
	if flavor := pickFlavor(s, lg, recent); flavor != "" {
		parts = append(parts, flavor)
	}

	return strings.Join(parts, "\n\n")
}

// emotionLine lists the qualitative emotion labels, scores dropped.
func emotionLine(s *analyzer.DreamStructure, lg lang.Language) string {
	if len(s.Emotions) == 0 {
		return ""
	}
	labels := make([]string, 0, len(s.Emotions))
	for _, e := range s.Emotions {
		label := strings.TrimSpace(e.Label)
		if label == "" {
			continue
		}
		labels = append(labels, localizeLabel(label, lg))
	}
	if len(labels) == 0 {
		return ""
	}
	return emotionPrefixes[langOrEnglish(lg)] + " " + strings.Join(labels, ", ")
}

func localizeLabel(label string, lg lang.Language) string {
	table, ok := emotionLabels[lg]
	if !ok {
		return label
	}
	if translated, ok := table[strings.ToLower(label)]; ok {
		return translated
	}
	return label
}

// pickFlavor returns the first flavor line whose key matches a symbol
// and that the recent window has not shown yet. The chosen line is
// recorded in the window.
func pickFlavor(s *analyzer.DreamStructure, lg lang.Language, recent *RecentWindow) string {
	lines, ok := flavorLines[lg]
	if !ok {
		lines = flavorLines[lang.English]
	}
	symbols := strings.ToLower(strings.Join(s.Symbols, " "))
	if symbols == "" {
		return ""
	}
	for _, fl := range lines {
		if !strings.Contains(symbols, fl.match) {
			continue
		}
		if recent != nil && recent.Seen(flavorCategory, fl.line) {
			continue
		}
		if recent != nil {
			recent.Remember(flavorCategory, fl.line)
		}
		return fl.line
	}
	return ""
}

func langOrEnglish(lg lang.Language) lang.Language {
	if _, ok := headers[lg]; ok {
		return lg
	}
	return lang.English
}
