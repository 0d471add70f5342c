package analyzer

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/dreammap-bot/dreammap/internal/lang"
)

// generate issues the interpretation call. An empty reply gets exactly
// one more identical attempt; both failing is a valid state the quality
// gate handles, not an error. Returns the raw reply and the number of
// calls spent.
func (a *Analyzer) generate(ctx context.Context, prompt string) (string, int) {
	calls := 0
	for attempt := 0; attempt <= a.cfg.GenerateRetries; attempt++ {
		raw, err := a.llm.Complete(ctx, prompt)
		calls++
		if err != nil {
			slog.Warn("interpretation call failed", "attempt", attempt, "error", err)
			continue
		}
		if raw != "" {
			return raw, calls
		}
	}
	return "", calls
}

// buildInterpretPrompt serializes the structure into the generation
// prompt. The structure always marshals; a failure would be a
// programming error, so it degrades to the summary alone.
func buildInterpretPrompt(s *DreamStructure, mode Mode, lg lang.Language) string {
	structJSON, err := json.Marshal(s)
	if err != nil {
		structJSON = []byte(s.Summary)
	}
	return interpretPrompt(string(structJSON), mode, s.Depth, lg)
}
