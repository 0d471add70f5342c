package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/dreammap-bot/dreammap/internal/lang"
)

// boilerplate phrases the generator must not fall back on.
var boilerplate = map[lang.Language][]string{
	lang.English: {
		"dreams can mean many things",
		"it is impossible to say for certain",
		"as an ai",
		"i cannot interpret",
		"consult a professional",
	},
	lang.Russian: {
		"сны могут означать что угодно",
		"невозможно сказать точно",
		"как языковая модель",
		"не удалось провести анализ",
		"обратитесь к специалисту",
	},
	lang.Ukrainian: {
		"сни можуть означати будь-що",
		"неможливо сказати точно",
		"як мовна модель",
		"не вдалося провести аналіз",
		"зверніться до фахівця",
	},
}

// meaningMarkers are lexical cues that the text actually explains a
// real-life meaning rather than retelling the dream.
var meaningMarkers = map[lang.Language][]string{
	lang.English:   {"means", "reflects", "suggests", "connects to", "points to", "indicates"},
	lang.Russian:   {"означает", "отражает", "говорит о", "связан", "указывает", "символизирует"},
	lang.Ukrainian: {"означає", "відображає", "свідчить", "пов'язан", "вказує", "символізує"},
}

// validate runs the acceptance rules in order and returns a
// rule-specific critique for the first failure. An empty critique means
// the sections passed.
func (a *Analyzer) validate(s Sections, structure *DreamStructure, lg lang.Language) string {
	psych := strings.TrimSpace(s.Psychological)
	psychLen := utf8.RuneCountInString(psych)
	combined := strings.ToLower(s.Combined())

	// 1. Length floor rules out trivial one-liners.
	if psychLen < a.cfg.MinPsychChars {
		return critiqueTooShort(a.cfg.MinPsychChars, lg)
	}

	// 2. Concreteness: the text must mention details of this dream.
	items := structure.ConcreteItems()
	needed := a.cfg.MinConcreteItems
	if len(items) < needed {
		needed = len(items)
	}
	if needed > 0 && countMentions(combined, items) < needed {
		return critiqueTooGeneric(items, lg)
	}

	// 3. Boilerplate denylist.
	for _, phrase := range keywordsFor(boilerplate, lg) {
		if strings.Contains(combined, phrase) {
			return critiqueBoilerplate(phrase, lg)
		}
	}

	// 4. Non-echo: the reading must not just repeat the summary.
	if echoesSummary(psych, structure.Summary) {
		return critiqueEcho(lg)
	}

	// 5. Meaning disclosure: long enough text is expected to explain.
	if !containsAny(combined, keywordsFor(meaningMarkers, lg)) {
		return critiqueNoMeaning(lg)
	}

	return ""
}

func countMentions(lowerText string, items []string) int {
	count := 0
	for _, item := range items {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" && strings.Contains(lowerText, item) {
			count++
		}
	}
	return count
}

func containsAny(lowerText string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(lowerText, n) {
			return true
		}
	}
	return false
}

// echoesSummary checks whether the generated text starts by quoting the
// summary verbatim (prefix substring match).
func echoesSummary(psych, summary string) bool {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return false
	}
	prefix := truncateRunes(summary, 40)
	if prefix == "" {
		return false
	}
	return strings.HasPrefix(strings.ToLower(psych), strings.ToLower(prefix))
}

func critiqueTooShort(minChars int, lg lang.Language) string {
	switch lg {
	case lang.Ukrainian:
		return fmt.Sprintf("Критика: психологічна секція закоротка (менше %d символів). Розгорни її, спираючись на конкретні деталі сну.", minChars)
	case lang.Russian:
		return fmt.Sprintf("Критика: психологическая секция слишком короткая (меньше %d символов). Разверни её, опираясь на конкретные детали сна.", minChars)
	default:
		return fmt.Sprintf("Critique: the psychological section is too short (under %d characters). Expand it, grounded in the concrete details of the dream.", minChars)
	}
}

func critiqueTooGeneric(items []string, lg lang.Language) string {
	sample := items
	if len(sample) > 4 {
		sample = sample[:4]
	}
	listed := strings.Join(sample, ", ")
	switch lg {
	case lang.Ukrainian:
		return fmt.Sprintf("Критика: текст надто загальний. Згадай щонайменше два конкретні елементи сну: %s.", listed)
	case lang.Russian:
		return fmt.Sprintf("Критика: текст слишком общий. Упомяни как минимум два конкретных элемента сна: %s.", listed)
	default:
		return fmt.Sprintf("Critique: the text is too generic. Mention at least two concrete elements of the dream: %s.", listed)
	}
}

func critiqueBoilerplate(phrase string, lg lang.Language) string {
	switch lg {
	case lang.Ukrainian:
		return fmt.Sprintf("Критика: прибери шаблонну фразу %q і дай змістовну інтерпретацію саме цього сну.", phrase)
	case lang.Russian:
		return fmt.Sprintf("Критика: убери шаблонную фразу %q и дай содержательную интерпретацию именно этого сна.", phrase)
	default:
		return fmt.Sprintf("Critique: remove the template phrase %q and give a substantive interpretation of this specific dream.", phrase)
	}
}

func critiqueEcho(lg lang.Language) string {
	switch lg {
	case lang.Ukrainian:
		return "Критика: не переказуй сон дослівно. Поясни, що він означає для реального життя."
	case lang.Russian:
		return "Критика: не пересказывай сон дословно. Объясни, что он значит для реальной жизни."
	default:
		return "Critique: do not retell the dream verbatim. Explain what it means for waking life."
	}
}

func critiqueNoMeaning(lg lang.Language) string {
	switch lg {
	case lang.Ukrainian:
		return "Критика: явно сформулюй, що сон означає або відображає в реальному житті."
	case lang.Russian:
		return "Критика: явно сформулируй, что сон означает или отражает в реальной жизни."
	default:
		return "Critique: explicitly state what the dream means or reflects in waking life."
	}
}

// ensureQuality validates the generated sections and repairs or
// replaces them. It never fails: the terminal path synthesizes a
// deterministic narrative from the structure alone, so the returned
// sections always carry a non-empty psychological reading. Returns the
// accepted sections, the number of extra LLM calls spent, and whether
// the deterministic fallback was used.
func (a *Analyzer) ensureQuality(ctx context.Context, prompt string, s Sections, structure *DreamStructure, lg lang.Language) (Sections, int, bool) {
	critique := a.validate(s, structure, lg)
	if critique == "" {
		return s, 0, false
	}

	calls := 0
	if a.cfg.RepairAttempts > 0 {
		repairPrompt := prompt + "\n\n" + critique

		raw, err := a.llm.Complete(ctx, repairPrompt)
		calls++
		if err != nil {
			slog.Warn("repair call failed", "error", err)
			raw = ""
		}

		repaired := splitSections(raw)
		if !repaired.Empty() && repaired.Psychological != "" && a.validate(repaired, structure, lg) == "" {
			return repaired, calls, false
		}
	}

	slog.Info("generation unusable after repair, synthesizing fallback")
	return a.synthesizeFallback(structure, lg), calls, true
}
