// Package visualizer turns an extracted dream structure into a scene
// description suitable for an image generator.
package visualizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dreammap-bot/dreammap/internal/analyzer"
	"github.com/dreammap-bot/dreammap/internal/lang"
	"github.com/dreammap-bot/dreammap/internal/llm"
)

// Visualizer builds scene descriptions with one model call.
type Visualizer struct {
	llm llm.Client
}

// New creates a Visualizer.
func New(client llm.Client) *Visualizer {
	return &Visualizer{llm: client}
}

// Describe asks the model for a concise scene description (<=120 words)
// derived from the structure. An empty model reply is returned as an
// empty string; the caller decides the user-facing fallback.
func (v *Visualizer) Describe(ctx context.Context, s *analyzer.DreamStructure, lg lang.Language) (string, error) {
	reply, err := v.llm.Complete(ctx, scenePrompt(s, lg))
	if err != nil {
		return "", fmt.Errorf("describe scene: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

func scenePrompt(s *analyzer.DreamStructure, lg lang.Language) string {
	structJSON, err := json.Marshal(s)
	if err != nil {
		structJSON = []byte("{}")
	}

	switch lg {
	case lang.Ukrainian:
		return "Сформуй короткий опис сцени для генерації зображення (<=120 слів): " +
			"сеттінг, ключові символи, домінуючі кольори/світло, настрій за емоціями.\n" +
			"Структура: " + string(structJSON)
	case lang.Russian:
		return "Сформируй краткое описание сцены для генерации изображения (<=120 слов): " +
			"сеттинг, ключевые символы, доминирующие цвета/свет, настроение по эмоциям.\n" +
			"Структура: " + string(structJSON)
	default:
		return "Create a concise scene description for image generation (<=120 words): " +
			"setting, key symbols, dominant colors/light, mood from emotions.\n" +
			"Structure: " + string(structJSON)
	}
}
