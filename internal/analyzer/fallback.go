package analyzer

import (
	"fmt"
	"strings"

	"github.com/dreammap-bot/dreammap/internal/lang"
)

// synthesizeFallback builds an interpretation from the structure alone.
// It never calls the model and always terminates: plain cause/effect
// sentences for domestic dreams, image-led sentences naming the
// dominant symbol for symbolic ones. At least one concrete field value
// is always named.
func (a *Analyzer) synthesizeFallback(s *DreamStructure, lg lang.Language) Sections {
	var psych, advice string

	symbols := strings.Join(firstN(s.Symbols, 3), ", ")
	themes := strings.Join(firstN(s.Themes, 2), ", ")
	emotion := s.DominantEmotion()
	anchor := firstNonEmpty(symbols, themes, emotion, s.Location, s.Summary)

	switch lg {
	case lang.Ukrainian:
		if s.Depth == DepthSymbolic {
			psych = fmt.Sprintf("У центрі сну — образ: %s. Такий образ зазвичай відображає внутрішній стан, який шукає вираження.", anchor)
			if emotion != "" {
				psych += fmt.Sprintf(" Домінуюча емоція — %s — підказує, з яким переживанням він пов'язаний у реальному житті.", emotion)
			}
			if themes != "" {
				psych += fmt.Sprintf(" Повторювані теми (%s) вказують, де саме зараз зосереджена твоя увага.", themes)
			}
			advice = "Позначи для себе, яка з названих тем відгукується найсильніше, і приділи їй трохи часу сьогодні."
		} else {
			psych = fmt.Sprintf("Сон простий і побутовий: %s. Такі сни зазвичай означають, що психіка опрацьовує недавні стосунки й повсякденні події, без прихованої символіки.", anchor)
			if emotion != "" {
				psych += fmt.Sprintf(" Настрій сну — %s — відображає твій загальний емоційний фон.", emotion)
			}
			advice = "Зверни увагу на людей зі сну: ймовірно, саме ці стосунки зараз для тебе важливі."
		}
	case lang.Russian:
		if s.Depth == DepthSymbolic {
			psych = fmt.Sprintf("В центре сна — образ: %s. Такой образ обычно отражает внутреннее состояние, которое ищет выражения.", anchor)
			if emotion != "" {
				psych += fmt.Sprintf(" Доминирующая эмоция — %s — подсказывает, с каким переживанием он связан в реальной жизни.", emotion)
			}
			if themes != "" {
				psych += fmt.Sprintf(" Повторяющиеся темы (%s) указывают, где сейчас сосредоточено твоё внимание.", themes)
			}
			advice = "Отметь, какая из названных тем отзывается сильнее всего, и удели ей немного времени сегодня."
		} else {
			psych = fmt.Sprintf("Сон простой и бытовой: %s. Такие сны обычно означают, что психика обрабатывает недавние отношения и повседневные события, без скрытой символики.", anchor)
			if emotion != "" {
				psych += fmt.Sprintf(" Настроение сна — %s — отражает твой общий эмоциональный фон.", emotion)
			}
			advice = "Обрати внимание на людей из сна: вероятно, именно эти отношения сейчас для тебя важны."
		}
	default:
		if s.Depth == DepthSymbolic {
			psych = fmt.Sprintf("At the center of the dream is an image: %s. An image like this usually reflects an inner state looking for expression.", anchor)
			if emotion != "" {
				psych += fmt.Sprintf(" The dominant emotion, %s, suggests which waking-life feeling it connects to.", emotion)
			}
			if themes != "" {
				psych += fmt.Sprintf(" The recurring themes (%s) point to where your attention is currently focused.", themes)
			}
			advice = "Note which of the named themes resonates most, and give it a little time today."
		} else {
			psych = fmt.Sprintf("The dream is plain and everyday: %s. Dreams like this usually mean the mind is processing recent relationships and daily events, with no hidden symbolism.", anchor)
			if emotion != "" {
				psych += fmt.Sprintf(" The mood of the dream, %s, reflects your general emotional background.", emotion)
			}
			advice = "Pay attention to the people in the dream: those relationships are likely what matters to you right now."
		}
	}

	if chars := characterNames(s.Characters); chars != "" {
		switch lg {
		case lang.Ukrainian:
			psych += fmt.Sprintf(" Присутність у сні %s робить цей сюжет особистим.", chars)
		case lang.Russian:
			psych += fmt.Sprintf(" Присутствие во сне %s делает этот сюжет личным.", chars)
		default:
			psych += fmt.Sprintf(" The presence of %s makes the scene personal.", chars)
		}
	}

	return Sections{
		Sectioned:     true,
		Psychological: psych,
		Advice:        advice,
	}
}

func firstN(items []string, n int) []string {
	if len(items) < n {
		return items
	}
	return items[:n]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func characterNames(chars []Character) string {
	var names []string
	for _, c := range firstNCharacters(chars, 2) {
		if c.Name != "" {
			names = append(names, c.Name)
		}
	}
	return strings.Join(names, ", ")
}

func firstNCharacters(chars []Character, n int) []Character {
	if len(chars) < n {
		return chars
	}
	return chars[:n]
}
