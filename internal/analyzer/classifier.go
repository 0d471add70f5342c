package analyzer

import (
	"strings"
	"unicode/utf8"

	"github.com/dreammap-bot/dreammap/internal/lang"
)

// Character-count thresholds of the depth decision table. Empirically
// tuned in the source; kept as constants, not derived.
const (
	shortDreamLimit     = 220
	lowSymbolDreamLimit = 300
)

// surrealKeywords flag dreams as symbolic regardless of length.
var surrealKeywords = map[lang.Language][]string{
	lang.English: {
		"fog", "mist", "stairs", "falling", "fell", "ocean", "mirror",
		"teeth", "chase", "chased", "flying", "clock without hands",
		"labyrinth", "abyss",
	},
	lang.Russian: {
		"туман", "лестниц", "падал", "упал", "океан", "зеркал",
		"зуб", "погон", "гнал", "летал", "летел", "часы без стрелок",
		"лабиринт", "бездн",
	},
	lang.Ukrainian: {
		"туман", "сход", "драбин", "падал", "впал", "океан", "дзеркал",
		"зуб", "погон", "тікав", "літав", "годинник без стрілок",
		"лабіринт", "безодн",
	},
}

// socialPhrases mark plain, low-symbol social dreams.
var socialPhrases = map[lang.Language][]string{
	lang.English: {
		"walked", "held hands", "met ", "talked", "had dinner",
		"had coffee", "hugged",
	},
	lang.Russian: {
		"гулял", "гуляла", "держались за руки", "встретил", "встретила",
		"разговаривал", "обнял", "ужинал",
	},
	lang.Ukrainian: {
		"гуляв", "гуляла", "трималися за руки", "зустрів", "зустріла",
		"розмовляв", "обійняв",
	},
}

// Classify labels a dream domestic or symbolic. Pure and deterministic;
// ambiguous cases resolve to symbolic because richer narration is the
// safer default.
func Classify(text string, s *DreamStructure, lg lang.Language) Depth {
	lower := strings.ToLower(text)
	length := utf8.RuneCountInString(text)

	for _, kw := range keywordsFor(surrealKeywords, lg) {
		if strings.Contains(lower, kw) {
			return DepthSymbolic
		}
	}

	if length < shortDreamLimit {
		for _, phrase := range keywordsFor(socialPhrases, lg) {
			if strings.Contains(lower, phrase) {
				return DepthDomestic
			}
		}
	}

	if len(s.Symbols) <= 1 && length < lowSymbolDreamLimit {
		return DepthDomestic
	}

	return DepthSymbolic
}

func keywordsFor(table map[lang.Language][]string, lg lang.Language) []string {
	if kws, ok := table[lg]; ok {
		return kws
	}
	return table[lang.English]
}
