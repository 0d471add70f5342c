package qa

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dreammap-bot/dreammap/internal/db"
	"github.com/dreammap-bot/dreammap/internal/lang"
	"github.com/dreammap-bot/dreammap/internal/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLLM struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubLLM) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

type stubRetriever struct {
	hits []vectorstore.SearchResult
	err  error
}

func (s *stubRetriever) SearchForUser(_ context.Context, _ string, _ int64, _ int) ([]vectorstore.SearchResult, error) {
	return s.hits, s.err
}

func seedUser(t *testing.T, store *db.Store, summaries ...string) int64 {
	t.Helper()
	ctx := context.Background()
	userID, err := store.GetOrCreateUser(ctx, db.GetOrCreateUserParams{TgUserID: 1, Username: "u", Language: "ru"})
	require.NoError(t, err)
	for _, summ := range summaries {
		dreamID, err := store.InsertDream(ctx, db.InsertDreamParams{UserID: userID, RawText: summ, ModelVersion: "m"})
		require.NoError(t, err)
		err = store.InsertAnalysis(ctx, db.InsertAnalysisParams{
			DreamID:    dreamID,
			JSONStruct: `{"summary":"` + summ + `"}`,
		})
		require.NoError(t, err)
	}
	return userID
}

func TestAnswer(t *testing.T) {
	t.Run("prompt carries question and summaries", func(t *testing.T) {
		store := db.NewTestStore(t)
		userID := seedUser(t, store, "сон про океан", "сон про лестницу")
		llm := &stubLLM{reply: "Вода повторяется в ваших снах."}
		svc := New(store, llm, nil)

		answer, err := svc.Answer(context.Background(), userID, "что значит вода?", lang.Russian)
		require.NoError(t, err)
		assert.Equal(t, "Вода повторяется в ваших снах.", answer)

		require.Len(t, llm.prompts, 1)
		assert.Contains(t, llm.prompts[0], "Вопрос: что значит вода?")
		assert.Contains(t, llm.prompts[0], "сон про океан")
		assert.Contains(t, llm.prompts[0], "сон про лестницу")
	})

	t.Run("empty reply falls back to localized text", func(t *testing.T) {
		store := db.NewTestStore(t)
		userID := seedUser(t, store, "сон")
		svc := New(store, &stubLLM{reply: ""}, nil)

		answer, err := svc.Answer(context.Background(), userID, "вопрос", lang.Russian)
		require.NoError(t, err)
		assert.Equal(t, lang.UI(lang.Russian).AskNoAnswer, answer)
	})

	t.Run("model error degrades like an empty reply", func(t *testing.T) {
		store := db.NewTestStore(t)
		userID := seedUser(t, store, "dream")
		svc := New(store, &stubLLM{err: errors.New("quota")}, nil)

		answer, err := svc.Answer(context.Background(), userID, "question", lang.English)
		require.NoError(t, err)
		assert.Equal(t, lang.UI(lang.English).AskNoAnswer, answer)
	})

	t.Run("blank question returns usage hint without a model call", func(t *testing.T) {
		store := db.NewTestStore(t)
		llm := &stubLLM{reply: "unused"}
		svc := New(store, llm, nil)

		answer, err := svc.Answer(context.Background(), 1, "   ", lang.Ukrainian)
		require.NoError(t, err)
		assert.Equal(t, lang.UI(lang.Ukrainian).AskUsage, answer)
		assert.Empty(t, llm.prompts)
	})

	t.Run("persists the exchange", func(t *testing.T) {
		store := db.NewTestStore(t)
		userID := seedUser(t, store, "dream")
		svc := New(store, &stubLLM{reply: "an answer"}, nil)

		_, err := svc.Answer(context.Background(), userID, "a question", lang.English)
		require.NoError(t, err)

		var question, answer string
		err = store.QueryRowContext(context.Background(),
			"SELECT question, answer FROM qa WHERE user_id = ?", userID).Scan(&question, &answer)
		require.NoError(t, err)
		assert.Equal(t, "a question", question)
		assert.Equal(t, "an answer", answer)
	})
}

func TestAnswer_Retrieval(t *testing.T) {
	t.Run("retrieved summaries join the prompt without duplicates", func(t *testing.T) {
		store := db.NewTestStore(t)
		userID := seedUser(t, store, "recent dream")
		retriever := &stubRetriever{hits: []vectorstore.SearchResult{
			{Summary: "old water dream"},
			{Summary: "recent dream"},
		}}
		llm := &stubLLM{reply: "answer"}
		svc := New(store, llm, retriever)

		_, err := svc.Answer(context.Background(), userID, "water?", lang.English)
		require.NoError(t, err)

		require.Len(t, llm.prompts, 1)
		assert.Contains(t, llm.prompts[0], "old water dream")
		assert.Equal(t, 1, strings.Count(llm.prompts[0], "recent dream"))
	})

	t.Run("retrieval failure degrades to recency context", func(t *testing.T) {
		store := db.NewTestStore(t)
		userID := seedUser(t, store, "recent dream")
		retriever := &stubRetriever{err: errors.New("store closed")}
		llm := &stubLLM{reply: "answer"}
		svc := New(store, llm, retriever)

		answer, err := svc.Answer(context.Background(), userID, "water?", lang.English)
		require.NoError(t, err)
		assert.Equal(t, "answer", answer)
		assert.Contains(t, llm.prompts[0], "recent dream")
	})
}
