package render

import (
	"strings"
	"testing"

	"github.com/dreammap-bot/dreammap/internal/analyzer"
	"github.com/dreammap-bot/dreammap/internal/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStructure() analyzer.DreamStructure {
	s := analyzer.EmptyStructure()
	s.Symbols = []string{"вода", "зеркало"}
	s.Emotions = []analyzer.Emotion{
		{Label: "fear", Score: 0.8},
		{Label: "calm", Score: 0.2},
	}
	s.Summary = "сон про море"
	return s
}

func sampleInterpretation() analyzer.Interpretation {
	return analyzer.Interpretation{
		Psychological: "Вода отражает перемены.",
		Esoteric:      "Вода считается порогом бессознательного.",
		Advice:        "Запиши сон утром.",
	}
}

func TestRender(t *testing.T) {
	t.Run("all sections in order", func(t *testing.T) {
		s := sampleStructure()
		out := Render(&s, sampleInterpretation(), lang.Russian, nil)

		require.NotEmpty(t, out)
		blocks := strings.Split(out, "\n\n")
		assert.Equal(t, "🌙 Разбор сна", blocks[0])

		psychAt := strings.Index(out, "Вода отражает")
		esoAt := strings.Index(out, "порогом")
		adviceAt := strings.Index(out, "💡 Совет:")
		assert.Greater(t, esoAt, psychAt)
		assert.Greater(t, adviceAt, esoAt)
	})

	t.Run("emotion line drops scores and localizes labels", func(t *testing.T) {
		s := sampleStructure()
		out := Render(&s, sampleInterpretation(), lang.Russian, nil)

		assert.Contains(t, out, "Эмоции: страх, спокойствие")
		assert.NotContains(t, out, "0.8")
	})

	t.Run("empty esoteric section is pruned", func(t *testing.T) {
		s := sampleStructure()
		in := sampleInterpretation()
		in.Esoteric = ""
		out := Render(&s, in, lang.Russian, nil)

		assert.NotContains(t, out, "🔮")
		assert.Contains(t, out, "💡 Совет:")
	})

	t.Run("always header plus at least one section", func(t *testing.T) {
		s := analyzer.EmptyStructure()
		out := Render(&s, analyzer.Interpretation{Psychological: "reading"}, lang.English, nil)

		assert.True(t, strings.HasPrefix(out, "🌙 Dream reading"))
		assert.Contains(t, out, "\n\nreading")
	})

	t.Run("unknown locale falls back to english chrome", func(t *testing.T) {
		s := sampleStructure()
		out := Render(&s, sampleInterpretation(), lang.Language("de"), nil)
		assert.True(t, strings.HasPrefix(out, "🌙 Dream reading"))
	})

	t.Run("flavor line matches extracted symbol", func(t *testing.T) {
		s := sampleStructure()
		out := Render(&s, sampleInterpretation(), lang.Russian, nil)
		assert.Contains(t, out, "Вода во сне часто отмечает")
	})

	t.Run("no symbols no flavor", func(t *testing.T) {
		s := analyzer.EmptyStructure()
		s.Emotions = []analyzer.Emotion{{Label: "calm", Score: 0.4}}
		out := Render(&s, sampleInterpretation(), lang.English, nil)
		assert.NotContains(t, out, "Water in a dream")
	})
}

func TestRender_FlavorWindow(t *testing.T) {
	s := sampleStructure()
	in := sampleInterpretation()
	w := NewRecentWindow(4)

	first := Render(&s, in, lang.Russian, w)
	assert.Contains(t, first, "Вода во сне часто отмечает")

	// Same symbols again: the water line is in the window, so the
	// mirror line is chosen instead.
	second := Render(&s, in, lang.Russian, w)
	assert.NotContains(t, second, "Вода во сне часто отмечает")
	assert.Contains(t, second, "Зеркало обычно появляется")

	// Both lines used up: no flavor at all.
	third := Render(&s, in, lang.Russian, w)
	assert.NotContains(t, third, "Вода во сне")
	assert.NotContains(t, third, "Зеркало обычно")
}

func TestRecentWindow(t *testing.T) {
	t.Run("evicts oldest past capacity", func(t *testing.T) {
		w := NewRecentWindow(2)
		w.Remember("c", "a")
		w.Remember("c", "b")
		w.Remember("c", "d")

		assert.False(t, w.Seen("c", "a"))
		assert.True(t, w.Seen("c", "b"))
		assert.True(t, w.Seen("c", "d"))
		assert.Equal(t, 2, w.Len("c"))
	})

	t.Run("categories are independent", func(t *testing.T) {
		w := NewRecentWindow(2)
		w.Remember("x", "a")
		assert.True(t, w.Seen("x", "a"))
		assert.False(t, w.Seen("y", "a"))
	})

	t.Run("re-remember refreshes position", func(t *testing.T) {
		w := NewRecentWindow(2)
		w.Remember("c", "a")
		w.Remember("c", "b")
		w.Remember("c", "a")
		w.Remember("c", "d")

		assert.True(t, w.Seen("c", "a"))
		assert.False(t, w.Seen("c", "b"))
	})

	t.Run("zero capacity defaults", func(t *testing.T) {
		w := NewRecentWindow(0)
		w.Remember("c", "a")
		assert.True(t, w.Seen("c", "a"))
	})
}
