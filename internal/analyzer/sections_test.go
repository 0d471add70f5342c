package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSections(t *testing.T) {
	t.Run("all three markers", func(t *testing.T) {
		raw := "PSYCH\npsychological text\nmore of it\nESOTERIC\nesoteric text\nADVICE\nadvice text"
		s := splitSections(raw)

		assert.True(t, s.Sectioned)
		assert.Equal(t, "psychological text\nmore of it", s.Psychological)
		assert.Equal(t, "esoteric text", s.Esoteric)
		assert.Equal(t, "advice text", s.Advice)
	})

	t.Run("case-insensitive markers with colon", func(t *testing.T) {
		raw := "psych:\nreading\nEsoteric:\nsigns\nadvice:\ndo this"
		s := splitSections(raw)

		assert.True(t, s.Sectioned)
		assert.Equal(t, "reading", s.Psychological)
		assert.Equal(t, "signs", s.Esoteric)
		assert.Equal(t, "do this", s.Advice)
	})

	t.Run("decorated markers", func(t *testing.T) {
		raw := "**PSYCH**\nreading\n## ADVICE\ndo this"
		s := splitSections(raw)

		assert.True(t, s.Sectioned)
		assert.Equal(t, "reading", s.Psychological)
		assert.Equal(t, "do this", s.Advice)
		assert.Empty(t, s.Esoteric)
	})

	t.Run("no markers at all", func(t *testing.T) {
		raw := "just one block of interpretation text"
		s := splitSections(raw)

		assert.False(t, s.Sectioned)
		assert.Equal(t, raw, s.Psychological)
		assert.Empty(t, s.Esoteric)
		assert.Empty(t, s.Advice)
	})

	t.Run("marker mid-line is not a marker", func(t *testing.T) {
		raw := "the psych reading says a lot"
		s := splitSections(raw)
		assert.False(t, s.Sectioned)
		assert.Equal(t, raw, s.Psychological)
	})

	t.Run("empty input", func(t *testing.T) {
		s := splitSections("")
		assert.True(t, s.Empty())
		assert.False(t, s.Sectioned)
	})

	t.Run("missing esoteric section", func(t *testing.T) {
		raw := "PSYCH\nreading\nADVICE\ntip"
		s := splitSections(raw)
		assert.True(t, s.Sectioned)
		assert.Empty(t, s.Esoteric)
		assert.Equal(t, "tip", s.Advice)
	})
}
