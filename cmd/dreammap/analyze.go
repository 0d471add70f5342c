package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/dreammap-bot/dreammap/internal/analyzer"
	"github.com/dreammap-bot/dreammap/internal/config"
	"github.com/dreammap-bot/dreammap/internal/lang"
	"github.com/dreammap-bot/dreammap/internal/llm"
	"github.com/dreammap-bot/dreammap/internal/render"
	"github.com/spf13/cobra"
)

var analyzeMode string

var analyzeCmd = &cobra.Command{
	Use:   "analyze [dream text]",
	Short: "Analyze a dream from the command line",
	Long: `Run the analysis pipeline on a dream text and print the rendered
interpretation. Useful for prompt tuning without a Telegram round trip.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeMode, "mode", "Mixed", "interpretation mode: Mixed, Psychological, or Custom")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForAnalysis(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("dream text is empty")
	}

	mode, err := parseMode(analyzeMode)
	if err != nil {
		return err
	}

	gemini := llm.NewGeminiClient(llm.GeminiConfig{
		APIKey: cfg.GoogleAPIKey,
		Model:  cfg.GeminiModel,
	})
	anl := analyzer.New(analyzer.Config{LLM: gemini})

	lg := lang.Detect(text)
	res := anl.Analyze(ctx, text, mode, lg)

	fmt.Println(render.Render(&res.Structure, res.Interpretation, lg, nil))
	fmt.Println()
	fmt.Printf("depth=%s language=%s llm_calls=%d fallback=%t\n",
		res.Structure.Depth, res.Language, res.LLMCalls, res.Fallback)

	return nil
}

func parseMode(s string) (analyzer.Mode, error) {
	switch strings.ToLower(s) {
	case "mixed":
		return analyzer.ModeMixed, nil
	case "psychological", "psych":
		return analyzer.ModePsychological, nil
	case "custom":
		return analyzer.ModeCustom, nil
	default:
		return "", fmt.Errorf("invalid mode: %s (must be Mixed, Psychological, or Custom)", s)
	}
}
