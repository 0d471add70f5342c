// Package qa answers follow-up questions over a user's stored dreams.
package qa

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dreammap-bot/dreammap/internal/analyzer"
	"github.com/dreammap-bot/dreammap/internal/db"
	"github.com/dreammap-bot/dreammap/internal/lang"
	"github.com/dreammap-bot/dreammap/internal/llm"
	"github.com/dreammap-bot/dreammap/internal/vectorstore"
)

const (
	// recentLimit bounds the recency context pulled from the database.
	recentLimit = 10
	// contextSummaries caps how many summaries go into the prompt.
	contextSummaries = 5
	// retrievalK is how many similar dreams the vector store contributes.
	retrievalK = 3
)

// Retriever finds a user's dreams similar to a query. Satisfied by
// vectorstore.DreamStore; nil disables retrieval.
type Retriever interface {
	SearchForUser(ctx context.Context, query string, userID int64, k int) ([]vectorstore.SearchResult, error)
}

// Service builds answers from stored summaries and one model call.
type Service struct {
	store     *db.Store
	llm       llm.Client
	retriever Retriever
}

// New creates a Q&A service. retriever may be nil.
func New(store *db.Store, client llm.Client, retriever Retriever) *Service {
	return &Service{store: store, llm: client, retriever: retriever}
}

// Answer replies to a follow-up question grounded in the user's recent
// dream summaries. The exchange is persisted; a failed insert is logged
// and does not block the reply. An unusable model reply yields the
// localized no-answer text instead of an error.
func (s *Service) Answer(ctx context.Context, userID int64, question string, lg lang.Language) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return lang.UI(lg).AskUsage, nil
	}

	summaries, err := s.recentSummaries(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load summaries: %w", err)
	}
	summaries = s.mergeRetrieved(ctx, userID, question, summaries)

	reply, err := s.llm.Complete(ctx, qaPrompt(question, summaries, lg))
	if err != nil {
		slog.Warn("qa completion failed", "error", err)
		reply = ""
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = lang.UI(lg).AskNoAnswer
	}

	if err := s.store.InsertQA(ctx, db.InsertQAParams{
		UserID: userID, Question: question, Answer: reply,
	}); err != nil {
		slog.Warn("persist qa exchange failed", "error", err)
	}

	return reply, nil
}

// recentSummaries pulls summaries out of the newest structure rows.
func (s *Service) recentSummaries(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.store.ListRecentStructures(ctx, db.ListRecentStructuresParams{
		UserID: userID, Limit: recentLimit,
	})
	if err != nil {
		return nil, err
	}

	var summaries []string
	for _, raw := range rows {
		var st analyzer.DreamStructure
		if err := json.Unmarshal([]byte(raw), &st); err != nil {
			continue
		}
		if st.Summary != "" {
			summaries = append(summaries, st.Summary)
		}
	}
	if len(summaries) > contextSummaries {
		summaries = summaries[:contextSummaries]
	}
	return summaries, nil
}

// mergeRetrieved appends vector-search hits not already in the recency
// context. Retrieval failures degrade to the recency context alone.
func (s *Service) mergeRetrieved(ctx context.Context, userID int64, question string, summaries []string) []string {
	if s.retriever == nil {
		return summaries
	}
	hits, err := s.retriever.SearchForUser(ctx, question, userID, retrievalK)
	if err != nil {
		slog.Warn("vector retrieval failed", "error", err)
		return summaries
	}

	seen := make(map[string]bool, len(summaries))
	for _, summ := range summaries {
		seen[summ] = true
	}
	for _, hit := range hits {
		if hit.Summary == "" || seen[hit.Summary] {
			continue
		}
		summaries = append(summaries, hit.Summary)
		seen[hit.Summary] = true
	}
	return summaries
}

func qaPrompt(question string, summaries []string, lg lang.Language) string {
	listed := strings.Join(summaries, "; ")
	switch lg {
	case lang.Ukrainian:
		return fmt.Sprintf(
			"Питання: %s\nКороткі резюме снів: %s\nДай персональну відповідь, спираючись на повторювані мотиви. Без діагнозів.",
			question, listed)
	case lang.Russian:
		return fmt.Sprintf(
			"Вопрос: %s\nКраткие резюме снов: %s\nДай персональный ответ, опираясь на повторяющиеся мотивы. Без диагнозов.",
			question, listed)
	default:
		return fmt.Sprintf(
			"Question: %s\nShort dream summaries: %s\nProvide a careful, non-diagnostic, personalized answer referencing patterns.",
			question, listed)
	}
}
