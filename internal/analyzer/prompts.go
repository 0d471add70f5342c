package analyzer

import (
	"fmt"

	"github.com/dreammap-bot/dreammap/internal/lang"
)

// structPrompt instructs the model to emit the strict-JSON structure.
func structPrompt(dreamText string, lg lang.Language) string {
	switch lg {
	case lang.Ukrainian:
		return "Завдання: розбери сон на структуру й поверни строгий JSON без коментарів.\n" +
			"Поля: location, characters[{name,role}], actions[], symbols[], emotions[{label,score:0..1}], themes[], archetypes[], summary.\n" +
			fmt.Sprintf("Текст сну: %q\n", dreamText) +
			"ПОВЕРТАЙ лише JSON."
	case lang.Russian:
		return "Задача: разберите сон на структуру и верните строгий JSON без комментариев.\n" +
			"Поля: location, characters[{name,role}], actions[], symbols[], emotions[{label,score:0..1}], themes[], archetypes[], summary.\n" +
			fmt.Sprintf("Текст сна: %q\n", dreamText) +
			"ВЕРНИТЕ только JSON."
	default:
		return "Task: parse the dream into a structure and return strict JSON only.\n" +
			"Fields: location, characters[{name,role}], actions[], symbols[], emotions[{label,score:0..1}], themes[], archetypes[], summary.\n" +
			fmt.Sprintf("Dream text: %q\n", dreamText) +
			"RETURN JSON only."
	}
}

// styleHeader calibrates tone and length by depth.
func styleHeader(depth Depth, lg lang.Language) string {
	switch lg {
	case lang.Ukrainian:
		if depth == DepthDomestic {
			return "Стиль: тепло і просто, без містики, 2–3 короткі абзаци про стосунки й повсякденні почуття."
		}
		return "Стиль: образно і глибоко, розгорни символіку, 3–4 абзаци."
	case lang.Russian:
		if depth == DepthDomestic {
			return "Стиль: тепло и просто, без мистики, 2–3 коротких абзаца об отношениях и повседневных чувствах."
		}
		return "Стиль: образно и глубоко, раскрой символику, 3–4 абзаца."
	default:
		if depth == DepthDomestic {
			return "Style: warm and plain, no mysticism, 2-3 short paragraphs about relationships and everyday feelings."
		}
		return "Style: vivid and deep, unfold the symbolism, 3-4 paragraphs."
	}
}

// interpretPrompt embeds the structure, mode, and response rubric.
func interpretPrompt(structJSON string, mode Mode, depth Depth, lg lang.Language) string {
	var base string
	switch lg {
	case lang.Ukrainian:
		base = "На основі структури дай: 1) Психологічну інтерпретацію 2) Езотеричну (м'яко) 3) Пораду/урок (2–3 пункти)."
	case lang.Russian:
		base = "На основе структуры дай: 1) Психологическую интерпретацию 2) Эзотерическую (мягко) 3) Совет/урок (2–3 пункта)."
	default:
		base = "Based on the structure, provide: 1) Psychological interpretation 2) Esoteric (gently) 3) Advice/lesson (2-3 bullets)."
	}

	return fmt.Sprintf("%s\n%s\nMode: %s.\nStructure (JSON): %s\n"+
		"Return a compact response with three labeled sections, each label alone on its own line: PSYCH, ESOTERIC, ADVICE.",
		styleHeader(depth, lg), base, mode, structJSON)
}
