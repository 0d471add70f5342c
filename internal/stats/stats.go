// Package stats aggregates recurring motifs over a user's stored
// analyses.
package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dreammap-bot/dreammap/internal/analyzer"
	"github.com/dreammap-bot/dreammap/internal/db"
	"github.com/dreammap-bot/dreammap/internal/lang"
)

const (
	// recentLimit bounds the aggregation window to the newest analyses.
	recentLimit = 50
	topN        = 5
)

// Count is a labeled occurrence count.
type Count struct {
	Label string
	N     int
}

// Average is a labeled mean emotion score.
type Average struct {
	Label string
	Score float64
}

// Summary holds the aggregate view shown by the stats command.
type Summary struct {
	TotalDreams   int64
	TotalAnalyses int64
	TopThemes     []Count
	TopArchetypes []Count
	AvgEmotions   []Average
}

// Service reads stored analyses and computes summaries.
type Service struct {
	store *db.Store
}

// New creates a stats service over the store.
func New(store *db.Store) *Service {
	return &Service{store: store}
}

// Collect builds the summary for one user from the persisted rows.
func (s *Service) Collect(ctx context.Context, userID int64) (Summary, error) {
	dreams, err := s.store.CountDreams(ctx, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("count dreams: %w", err)
	}
	analyses, err := s.store.CountAnalyses(ctx, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("count analyses: %w", err)
	}
	structs, err := s.store.ListRecentStructures(ctx, db.ListRecentStructuresParams{
		UserID: userID, Limit: recentLimit,
	})
	if err != nil {
		return Summary{}, fmt.Errorf("list structures: %w", err)
	}

	sum := Aggregate(structs)
	sum.TotalDreams = dreams
	sum.TotalAnalyses = analyses
	return sum, nil
}

// Aggregate counts themes and archetypes and averages emotion scores
// across the given structure JSON blobs. Rows that fail to parse are
// skipped. Ties break alphabetically so the output is stable.
func Aggregate(structJSONs []string) Summary {
	themes := make(map[string]int)
	archetypes := make(map[string]int)
	emotionSums := make(map[string]float64)
	nEmotions := 0

	for _, raw := range structJSONs {
		var st analyzer.DreamStructure
		if err := json.Unmarshal([]byte(raw), &st); err != nil {
			continue
		}
		for _, t := range st.Themes {
			themes[t]++
		}
		for _, a := range st.Archetypes {
			archetypes[a]++
		}
		for _, e := range st.Emotions {
			if e.Label == "" {
				continue
			}
			emotionSums[e.Label] += e.Score
			nEmotions++
		}
	}

	divisor := float64(nEmotions)
	if divisor == 0 {
		divisor = 1
	}
	averages := make([]Average, 0, len(emotionSums))
	for label, total := range emotionSums {
		averages = append(averages, Average{
			Label: label,
			Score: math.Round(total/divisor*1000) / 1000,
		})
	}
	sort.Slice(averages, func(i, j int) bool {
		if averages[i].Score != averages[j].Score {
			return averages[i].Score > averages[j].Score
		}
		return averages[i].Label < averages[j].Label
	})

	return Summary{
		TopThemes:     topCounts(themes, topN),
		TopArchetypes: topCounts(archetypes, topN),
		AvgEmotions:   averages,
	}
}

func topCounts(m map[string]int, n int) []Count {
	out := make([]Count, 0, len(m))
	for label, count := range m {
		out = append(out, Count{Label: label, N: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].N != out[j].N {
			return out[i].N > out[j].N
		}
		return out[i].Label < out[j].Label
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

type reportLabels struct {
	total    string
	analyzed string
	themes   string
	arch     string
	emotions string
}

var reportTexts = map[lang.Language]reportLabels{
	lang.English: {
		total: "Total dreams", analyzed: "Analyzed", themes: "Top themes",
		arch: "Archetypes", emotions: "Emotions (avg)",
	},
	lang.Russian: {
		total: "Всего снов", analyzed: "С анализом", themes: "Топ темы",
		arch: "Архетипы", emotions: "Эмоции (avg)",
	},
	lang.Ukrainian: {
		total: "Всього снів", analyzed: "З аналізом", themes: "Топ теми",
		arch: "Архетипи", emotions: "Емоції (avg)",
	},
}

// Format renders the summary as the user-facing stats message.
func Format(sum Summary, lg lang.Language) string {
	ui := lang.UI(lg)
	labels, ok := reportTexts[lg]
	if !ok {
		labels = reportTexts[lang.English]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", ui.StatsTitle)
	fmt.Fprintf(&b, "%s: %d\n", labels.total, sum.TotalDreams)
	fmt.Fprintf(&b, "%s: %d\n", labels.analyzed, sum.TotalAnalyses)
	fmt.Fprintf(&b, "%s: %s\n", labels.themes, formatCounts(sum.TopThemes))
	fmt.Fprintf(&b, "%s: %s\n", labels.arch, formatCounts(sum.TopArchetypes))
	fmt.Fprintf(&b, "%s: %s", labels.emotions, formatAverages(sum.AvgEmotions))
	return b.String()
}

func formatCounts(counts []Count) string {
	if len(counts) == 0 {
		return "—"
	}
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%s(%d)", c.Label, c.N)
	}
	return strings.Join(parts, ", ")
}

func formatAverages(avgs []Average) string {
	if len(avgs) == 0 {
		return "—"
	}
	parts := make([]string, len(avgs))
	for i, a := range avgs {
		parts[i] = fmt.Sprintf("%s=%.3g", a.Label, a.Score)
	}
	return strings.Join(parts, ", ")
}
