package analyzer

import (
	"testing"

	"github.com/dreammap-bot/dreammap/internal/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackfillHeuristics(t *testing.T) {
	t.Run("fills symbols and themes from the vocabulary", func(t *testing.T) {
		s := EmptyStructure()
		backfillHeuristics(&s, "Мне снилось, что я падала с лестницы в океан", lang.Russian)

		assert.Contains(t, s.Symbols, "вода")
		assert.Contains(t, s.Symbols, "падение")
		assert.Contains(t, s.Symbols, "лестница")
		assert.Contains(t, s.Themes, "потеря контроля")
	})

	t.Run("english vocabulary", func(t *testing.T) {
		s := EmptyStructure()
		backfillHeuristics(&s, "I was flying over the sea and felt scared", lang.English)

		assert.Contains(t, s.Symbols, "water")
		assert.Contains(t, s.Symbols, "flight")
		assert.Contains(t, s.Themes, "freedom")
		require.NotEmpty(t, s.Emotions)
		assert.Equal(t, "fear", s.Emotions[0].Label)
		assert.Equal(t, 0.5, s.Emotions[0].Score)
	})

	t.Run("ukrainian vocabulary", func(t *testing.T) {
		s := EmptyStructure()
		backfillHeuristics(&s, "мені наснився туман і дзеркало", lang.Ukrainian)

		assert.Contains(t, s.Symbols, "туман")
		assert.Contains(t, s.Symbols, "дзеркало")
	})

	t.Run("neutral emotion when nothing matches", func(t *testing.T) {
		s := EmptyStructure()
		backfillHeuristics(&s, "ничего особенного", lang.Russian)

		require.Len(t, s.Emotions, 1)
		assert.Equal(t, "нейтральная", s.Emotions[0].Label)
		assert.Equal(t, 0.3, s.Emotions[0].Score)
	})

	t.Run("does not overwrite extracted fields", func(t *testing.T) {
		s := EmptyStructure()
		s.Symbols = []string{"ocean"}
		s.Themes = []string{"change"}
		s.Emotions = []Emotion{{Label: "joy", Score: 0.9}}
		backfillHeuristics(&s, "falling down the stairs in the fog, scared", lang.English)

		assert.Equal(t, []string{"ocean"}, s.Symbols)
		assert.Equal(t, []string{"change"}, s.Themes)
		assert.Equal(t, []Emotion{{Label: "joy", Score: 0.9}}, s.Emotions)
	})

	t.Run("no match leaves empty non-nil slices", func(t *testing.T) {
		s := EmptyStructure()
		backfillHeuristics(&s, "nothing notable happened", lang.English)

		assert.NotNil(t, s.Symbols)
		assert.Empty(t, s.Symbols)
		assert.NotNil(t, s.Themes)
		assert.Empty(t, s.Themes)
	})
}
