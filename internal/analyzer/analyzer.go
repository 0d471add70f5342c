package analyzer

import (
	"context"
	"log/slog"

	"github.com/dreammap-bot/dreammap/internal/lang"
	"github.com/dreammap-bot/dreammap/internal/llm"
)

// Interpretation is the narrative result of one analysis. Psychological
// is guaranteed non-empty; Esoteric may be empty.
type Interpretation struct {
	Psychological string
	Esoteric      string
	Advice        string
}

// Analysis is the full result of one pipeline pass over a dream text.
type Analysis struct {
	Structure      DreamStructure
	Interpretation Interpretation
	Language       lang.Language
	Mode           Mode

	// Fallback reports whether the deterministic synthesis produced
	// the narrative instead of the model.
	Fallback bool

	// LLMCalls counts outbound completion calls spent on this pass.
	LLMCalls int
}

// Config holds the pipeline configuration. The thresholds are the
// source's empirically tuned values; they are configuration points, not
// derived numbers.
type Config struct {
	LLM llm.Client

	// MinPsychChars is the length floor of the psychological section.
	MinPsychChars int
	// MinConcreteItems is how many structure details the generated
	// text must mention.
	MinConcreteItems int
	// GenerateRetries is how many extra identical generation calls an
	// empty reply earns.
	GenerateRetries int
	// RepairAttempts is how many critique-guided regenerations a
	// failing reply earns.
	RepairAttempts int
}

// Analyzer runs the analysis pipeline. Safe for concurrent use: each
// Analyze call keeps all state on its own stack.
type Analyzer struct {
	llm llm.Client
	cfg Config
}

// New creates a new Analyzer.
func New(cfg Config) *Analyzer {
	if cfg.MinPsychChars == 0 {
		cfg.MinPsychChars = 100
	}
	if cfg.MinConcreteItems == 0 {
		cfg.MinConcreteItems = 2
	}
	if cfg.GenerateRetries == 0 {
		cfg.GenerateRetries = 1
	}
	if cfg.RepairAttempts == 0 {
		cfg.RepairAttempts = 1
	}
	return &Analyzer{llm: cfg.LLM, cfg: cfg}
}

// Analyze runs the full pipeline over one dream text. It never returns
// an error: every failure mode is absorbed and converted into a
// degraded but valid, structure-grounded result.
func (a *Analyzer) Analyze(ctx context.Context, text string, mode Mode, lg lang.Language) *Analysis {
	structure := a.Extract(ctx, text, lg)
	calls := 1

	structure.Depth = Classify(text, &structure, lg)
	slog.Debug("dream classified", "depth", structure.Depth, "lang", lg, "symbols", len(structure.Symbols))

	prompt := buildInterpretPrompt(&structure, mode, lg)
	raw, genCalls := a.generate(ctx, prompt)
	calls += genCalls

	sections := splitSections(raw)
	accepted, repairCalls, usedFallback := a.ensureQuality(ctx, prompt, sections, &structure, lg)
	calls += repairCalls

	return &Analysis{
		Structure: structure,
		Interpretation: Interpretation{
			Psychological: accepted.Psychological,
			Esoteric:      accepted.Esoteric,
			Advice:        accepted.Advice,
		},
		Language: lg,
		Mode:     mode,
		Fallback: usedFallback,
		LLMCalls: calls,
	}
}
