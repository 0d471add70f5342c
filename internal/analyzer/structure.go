// Package analyzer implements the dream analysis pipeline: structure
// extraction, depth classification, interpretation generation, and the
// quality gate that guarantees a usable result.
package analyzer

import (
	"strings"
	"unicode/utf8"
)

// Depth is the coarse register of a dream, controlling tone and length
// of the generated narrative.
type Depth string

const (
	DepthDomestic Depth = "domestic"
	DepthSymbolic Depth = "symbolic"
)

// Mode selects the interpretation style requested by the user.
type Mode string

const (
	ModeMixed         Mode = "Mixed"
	ModePsychological Mode = "Psychological"
	ModeCustom        Mode = "Custom"
)

// Character is a person or figure appearing in the dream.
type Character struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Emotion is a labeled emotion with an intensity in [0,1].
type Emotion struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// DreamStructure is the fact record extracted from a dream narrative.
// Every field defaults to an empty container rather than nil so that
// downstream consumers never branch on absence vs. emptiness.
type DreamStructure struct {
	Location   string      `json:"location"`
	Characters []Character `json:"characters"`
	Actions    []string    `json:"actions"`
	Symbols    []string    `json:"symbols"`
	Emotions   []Emotion   `json:"emotions"`
	Themes     []string    `json:"themes"`
	Archetypes []string    `json:"archetypes"`
	Summary    string      `json:"summary"`

	// Depth is attached after classification, never requested from the
	// model.
	Depth Depth `json:"-"`
}

// summaryLimit is how many runes of the raw input are used when the
// model omits the summary field.
const summaryLimit = 240

// EmptyStructure returns an all-empty but valid DreamStructure.
func EmptyStructure() DreamStructure {
	return DreamStructure{
		Characters: []Character{},
		Actions:    []string{},
		Symbols:    []string{},
		Emotions:   []Emotion{},
		Themes:     []string{},
		Archetypes: []string{},
	}
}

// normalize enforces the structure invariants: non-nil containers,
// emotion scores clamped into [0,1], and a summary backfilled from the
// raw input when the model omitted it.
func (s *DreamStructure) normalize(rawText string) {
	if s.Characters == nil {
		s.Characters = []Character{}
	}
	if s.Actions == nil {
		s.Actions = []string{}
	}
	if s.Symbols == nil {
		s.Symbols = []string{}
	}
	if s.Emotions == nil {
		s.Emotions = []Emotion{}
	}
	if s.Themes == nil {
		s.Themes = []string{}
	}
	if s.Archetypes == nil {
		s.Archetypes = []string{}
	}

	for i := range s.Emotions {
		if s.Emotions[i].Score < 0 {
			s.Emotions[i].Score = 0
		}
		if s.Emotions[i].Score > 1 {
			s.Emotions[i].Score = 1
		}
	}

	if strings.TrimSpace(s.Summary) == "" {
		s.Summary = truncateRunes(strings.TrimSpace(rawText), summaryLimit)
	}
}

// ConcreteItems lists every concrete detail of the structure that the
// quality gate can look for in generated text.
func (s *DreamStructure) ConcreteItems() []string {
	var items []string
	if s.Location != "" {
		items = append(items, s.Location)
	}
	for _, c := range s.Characters {
		if c.Name != "" {
			items = append(items, c.Name)
		}
	}
	items = append(items, s.Actions...)
	items = append(items, s.Symbols...)
	for _, e := range s.Emotions {
		if e.Label != "" {
			items = append(items, e.Label)
		}
	}
	return items
}

// DominantEmotion returns the highest-scoring emotion label, or "".
func (s *DreamStructure) DominantEmotion() string {
	best := ""
	bestScore := -1.0
	for _, e := range s.Emotions {
		if e.Score > bestScore {
			best = e.Label
			bestScore = e.Score
		}
	}
	return best
}

// truncateRunes cuts a string to at most n runes, preferring a word
// boundary when one is close enough.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:n])
	if idx := strings.LastIndex(cut, " "); idx > n/2 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " .,;:!?")
}
