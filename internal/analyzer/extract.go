package analyzer

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/dreammap-bot/dreammap/internal/lang"
)

// Extract asks the model for the strict-JSON dream structure and parses
// the reply. Extraction failure is absorbed, never fatal: a malformed
// reply degrades to brace-block recovery, then to an empty structure,
// and missing fields are backfilled from the raw input and the keyword
// vocabulary.
func (a *Analyzer) Extract(ctx context.Context, text string, lg lang.Language) DreamStructure {
	raw, err := a.llm.Complete(ctx, structPrompt(text, lg))
	if err != nil {
		slog.Warn("structure extraction call failed", "error", err)
		raw = ""
	}

	structure := parseStructure(raw)
	structure.normalize(text)
	backfillHeuristics(&structure, text, lg)
	return structure
}

// parseStructure parses the model reply, recovering from surrounding
// prose by locating the last top-level {...} block.
func parseStructure(raw string) DreamStructure {
	s := EmptyStructure()
	if raw == "" {
		return s
	}

	if err := json.Unmarshal([]byte(raw), &s); err == nil {
		return s
	}

	block := lastJSONObject(raw)
	if block == "" {
		return EmptyStructure()
	}

	s = EmptyStructure()
	if err := json.Unmarshal([]byte(block), &s); err != nil {
		slog.Debug("structure reply unparseable, using empty structure", "error", err)
		return EmptyStructure()
	}
	return s
}

// lastJSONObject returns the last balanced top-level {...} block in s,
// or "" if none exists.
func lastJSONObject(s string) string {
	last := ""
	depth := 0
	start := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start != -1 {
					last = s[start : i+1]
				}
			}
		}
	}
	return last
}
