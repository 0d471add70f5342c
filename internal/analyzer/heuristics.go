package analyzer

import (
	"strings"

	"github.com/dreammap-bot/dreammap/internal/lang"
)

// keywordRule maps text fragments to a canonical value. Matching is a
// plain case-insensitive substring scan against a fixed vocabulary;
// stems are used for the Slavic languages so inflected forms match.
type keywordRule struct {
	keys  []string
	value string
}

var symbolRules = map[lang.Language][]keywordRule{
	lang.English: {
		{keys: []string{"ocean", "sea", "water", "river", "lake"}, value: "water"},
		{keys: []string{"falling", "fell", "fall "}, value: "falling"},
		{keys: []string{"stairs", "staircase", "ladder"}, value: "stairs"},
		{keys: []string{"mirror"}, value: "mirror"},
		{keys: []string{"teeth", "tooth"}, value: "teeth"},
		{keys: []string{"fog", "mist"}, value: "fog"},
		{keys: []string{"chase", "chased", "running from"}, value: "chase"},
		{keys: []string{"flying", "flew", "flight"}, value: "flight"},
		{keys: []string{"clock", "watch"}, value: "clock"},
		{keys: []string{"door", "gate"}, value: "door"},
	},
	lang.Russian: {
		{keys: []string{"океан", "море", "вода", "воды", "воде", "река", "реки"}, value: "вода"},
		{keys: []string{"падал", "паден", "упал"}, value: "падение"},
		{keys: []string{"лестниц"}, value: "лестница"},
		{keys: []string{"зеркал"}, value: "зеркало"},
		{keys: []string{"зуб"}, value: "зубы"},
		{keys: []string{"туман"}, value: "туман"},
		{keys: []string{"погон", "гнал", "убегал", "догонял"}, value: "погоня"},
		{keys: []string{"летал", "летел", "полет", "полёт"}, value: "полёт"},
		{keys: []string{"часы", "часов"}, value: "часы"},
		{keys: []string{"дверь", "двери"}, value: "дверь"},
	},
	lang.Ukrainian: {
		{keys: []string{"океан", "море", "вода", "води", "річка", "ріка"}, value: "вода"},
		{keys: []string{"падал", "падінн", "впал"}, value: "падіння"},
		{keys: []string{"сход", "драбин"}, value: "сходи"},
		{keys: []string{"дзеркал"}, value: "дзеркало"},
		{keys: []string{"зуб"}, value: "зуби"},
		{keys: []string{"туман"}, value: "туман"},
		{keys: []string{"погон", "тікав", "тікала", "гнав"}, value: "погоня"},
		{keys: []string{"літав", "літала", "політ"}, value: "політ"},
		{keys: []string{"годинник"}, value: "годинник"},
		{keys: []string{"двері"}, value: "двері"},
	},
}

var themeRules = map[lang.Language][]keywordRule{
	lang.English: {
		{keys: []string{"chase", "chased", "running from", "late", "lost"}, value: "anxiety"},
		{keys: []string{"falling", "fell"}, value: "loss of control"},
		{keys: []string{"friend", "mother", "father", "family", "partner"}, value: "relationships"},
		{keys: []string{"flying", "flew"}, value: "freedom"},
		{keys: []string{"exam", "test", "work", "boss"}, value: "pressure"},
	},
	lang.Russian: {
		{keys: []string{"погон", "убегал", "опоздал", "потерял"}, value: "тревога"},
		{keys: []string{"падал", "упал"}, value: "потеря контроля"},
		{keys: []string{"друг", "подруг", "мама", "мать", "отец", "семь"}, value: "отношения"},
		{keys: []string{"летал", "летел"}, value: "свобода"},
		{keys: []string{"экзамен", "работ", "начальник"}, value: "давление"},
	},
	lang.Ukrainian: {
		{keys: []string{"погон", "тікав", "запізнив", "загубив"}, value: "тривога"},
		{keys: []string{"падал", "впал"}, value: "втрата контролю"},
		{keys: []string{"друг", "подруг", "мама", "мати", "батько", "сім"}, value: "стосунки"},
		{keys: []string{"літав", "літала"}, value: "свобода"},
		{keys: []string{"іспит", "робот", "начальник"}, value: "тиск"},
	},
}

var emotionRules = map[lang.Language][]keywordRule{
	lang.English: {
		{keys: []string{"afraid", "fear", "scared", "terrif"}, value: "fear"},
		{keys: []string{"happy", "joy", "laugh"}, value: "joy"},
		{keys: []string{"anxious", "worried", "anxiety", "nervous"}, value: "anxiety"},
		{keys: []string{"sad", "cried", "crying"}, value: "sadness"},
		{keys: []string{"calm", "peaceful", "quiet"}, value: "calm"},
	},
	lang.Russian: {
		{keys: []string{"страх", "страшно", "боял", "испуг"}, value: "страх"},
		{keys: []string{"радост", "смеял", "счастл"}, value: "радость"},
		{keys: []string{"тревог", "волнов", "беспоко"}, value: "тревога"},
		{keys: []string{"груст", "плакал", "печал"}, value: "грусть"},
		{keys: []string{"спокой", "тихо", "уют"}, value: "спокойствие"},
	},
	lang.Ukrainian: {
		{keys: []string{"страх", "страшно", "боял", "боя"}, value: "страх"},
		{keys: []string{"радіс", "сміял", "щасл"}, value: "радість"},
		{keys: []string{"тривог", "хвилюв"}, value: "тривога"},
		{keys: []string{"сум", "плакал", "печал"}, value: "сум"},
		{keys: []string{"спокій", "спокійн", "тихо"}, value: "спокій"},
	},
}

// neutralEmotion is appended when the vocabulary matches nothing, so
// the quality gate always has an emotion to work with.
var neutralEmotion = map[lang.Language]string{
	lang.English:   "neutral",
	lang.Russian:   "нейтральная",
	lang.Ukrainian: "нейтральна",
}

// backfillHeuristics fills in symbols, themes, and emotions from the
// keyword vocabulary when the model extraction left them empty.
func backfillHeuristics(s *DreamStructure, text string, lg lang.Language) {
	lower := strings.ToLower(text)

	if len(s.Symbols) == 0 {
		s.Symbols = matchRules(lower, rulesFor(symbolRules, lg))
	}
	if len(s.Themes) == 0 {
		s.Themes = matchRules(lower, rulesFor(themeRules, lg))
	}
	if len(s.Emotions) == 0 {
		for _, label := range matchRules(lower, rulesFor(emotionRules, lg)) {
			s.Emotions = append(s.Emotions, Emotion{Label: label, Score: 0.5})
		}
		if len(s.Emotions) == 0 {
			s.Emotions = append(s.Emotions, Emotion{Label: neutralEmotion[lg], Score: 0.3})
		}
	}
}

func rulesFor(table map[lang.Language][]keywordRule, lg lang.Language) []keywordRule {
	if rules, ok := table[lg]; ok {
		return rules
	}
	return table[lang.English]
}

func matchRules(lower string, rules []keywordRule) []string {
	matched := []string{}
	for _, rule := range rules {
		for _, key := range rule.keys {
			if strings.Contains(lower, key) {
				matched = append(matched, rule.value)
				break
			}
		}
	}
	return matched
}
