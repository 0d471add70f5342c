package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dreammap-bot/dreammap/internal/analyzer"
	"github.com/dreammap-bot/dreammap/internal/db"
	"github.com/dreammap-bot/dreammap/internal/lang"
	"github.com/dreammap-bot/dreammap/internal/qa"
	"github.com/dreammap-bot/dreammap/internal/stats"
	"github.com/dreammap-bot/dreammap/internal/vectorstore"
	"github.com/dreammap-bot/dreammap/internal/visualizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLLM struct {
	replies []string
	calls   int
}

func (s *stubLLM) Complete(_ context.Context, _ string) (string, error) {
	s.calls++
	if s.calls-1 < len(s.replies) {
		return s.replies[s.calls-1], nil
	}
	return "", nil
}

type stubIndexer struct {
	records []vectorstore.DreamRecord
}

func (s *stubIndexer) InsertDream(_ context.Context, rec vectorstore.DreamRecord) (uint64, error) {
	s.records = append(s.records, rec)
	return uint64(len(s.records)), nil
}

// fakeTelegram records outgoing Bot API calls and serves queued updates.
type fakeTelegram struct {
	mu       sync.Mutex
	sent     []string
	updates  []Update
	getCalls int
	onGet    func(call int)
}

func (f *fakeTelegram) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			f.getCalls++
			if f.onGet != nil {
				f.onGet(f.getCalls)
			}
			var batch []Update
			if f.getCalls == 1 {
				batch = f.updates
			}
			result, _ := json.Marshal(batch)
			json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": json.RawMessage(result)})
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var req sendMessageRequest
			json.NewDecoder(r.Body).Decode(&req)
			f.sent = append(f.sent, req.Text)
			json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": map[string]any{}})
		default:
			json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": true})
		}
	}
}

func (f *fakeTelegram) sentMessages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func newTestBot(t *testing.T, fake *fakeTelegram, llmReplies ...string) (*Bot, *stubIndexer) {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	store := db.NewTestStore(t)
	llm := &stubLLM{replies: llmReplies}
	indexer := &stubIndexer{}

	b := New(Config{
		Client:       NewClient(ClientConfig{Token: "test-token", BaseURL: srv.URL}),
		Store:        store,
		Analyzer:     analyzer.New(analyzer.Config{LLM: llm}),
		QA:           qa.New(store, llm, nil),
		Stats:        stats.New(store),
		Visualizer:   visualizer.New(llm),
		Indexer:      indexer,
		ModelVersion: "gemini-1.5-flash",
		PollTimeout:  1,
	})
	return b, indexer
}

func message(text, locale string) Update {
	return Update{
		UpdateID: 1,
		Message: &Message{
			MessageID: 10,
			From:      &User{ID: 42, Username: "anna", LanguageCode: locale},
			Chat:      Chat{ID: 100},
			Text:      text,
		},
	}
}

func TestHandleUpdate_Start(t *testing.T) {
	fake := &fakeTelegram{}
	b, _ := newTestBot(t, fake)

	b.handleUpdate(context.Background(), message("/start", "ru"))

	sent := fake.sentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, lang.UI(lang.Russian).Hello, sent[0])
}

func TestHandleUpdate_FreeTextDream(t *testing.T) {
	fake := &fakeTelegram{}
	b, indexer := newTestBot(t, fake,
		`{"summary":"прогулка у моря","symbols":["вода"],"themes":["отношения"],"emotions":[{"label":"спокойствие","score":0.6}]}`,
	)

	b.handleUpdate(context.Background(), message("Мне снилось море и наш старый дом", "ru"))

	sent := fake.sentMessages()
	require.Len(t, sent, 2, "processing notice then the rendered analysis")
	assert.Equal(t, lang.UI(lang.Russian).Processing, sent[0])
	assert.Contains(t, sent[1], "🌙 Разбор сна")
	assert.NotEmpty(t, sent[1])

	// Rows persisted.
	store := b.store
	ctx := context.Background()
	userID, err := store.GetOrCreateUser(ctx, db.GetOrCreateUserParams{TgUserID: 42, Username: "anna", Language: "ru"})
	require.NoError(t, err)
	dreams, err := store.CountDreams(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dreams)
	analyses, err := store.CountAnalyses(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), analyses)

	// Summary indexed for retrieval.
	require.Len(t, indexer.records, 1)
	assert.Equal(t, "прогулка у моря", indexer.records[0].Summary)
}

func TestHandleUpdate_DreamCommandWithoutText(t *testing.T) {
	fake := &fakeTelegram{}
	b, _ := newTestBot(t, fake)

	b.handleUpdate(context.Background(), message("/dream", "uk"))

	sent := fake.sentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, lang.UI(lang.Ukrainian).PromptDream, sent[0])
}

func TestHandleUpdate_Stats(t *testing.T) {
	fake := &fakeTelegram{}
	b, _ := newTestBot(t, fake)

	b.handleUpdate(context.Background(), message("/stats", "en"))

	sent := fake.sentMessages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], lang.UI(lang.English).StatsTitle)
	assert.Contains(t, sent[0], "Total dreams: 0")
}

func TestHandleUpdate_Ask(t *testing.T) {
	t.Run("usage hint without arguments", func(t *testing.T) {
		fake := &fakeTelegram{}
		b, _ := newTestBot(t, fake)

		b.handleUpdate(context.Background(), message("/ask", "ru"))

		sent := fake.sentMessages()
		require.Len(t, sent, 1)
		assert.Equal(t, lang.UI(lang.Russian).AskUsage, sent[0])
	})

	t.Run("answers with the model reply", func(t *testing.T) {
		fake := &fakeTelegram{}
		b, _ := newTestBot(t, fake, "Вода повторяется в ваших снах.")

		b.handleUpdate(context.Background(), message("/ask что значит вода?", "ru"))

		sent := fake.sentMessages()
		require.Len(t, sent, 1)
		assert.Equal(t, "Вода повторяется в ваших снах.", sent[0])
	})
}

func TestHandleUpdate_Image(t *testing.T) {
	t.Run("usage hint without arguments", func(t *testing.T) {
		fake := &fakeTelegram{}
		b, _ := newTestBot(t, fake)

		b.handleUpdate(context.Background(), message("/image", "en"))

		sent := fake.sentMessages()
		require.Len(t, sent, 1)
		assert.Equal(t, lang.UI(lang.English).ImageUsage, sent[0])
	})

	t.Run("free tier is gated", func(t *testing.T) {
		fake := &fakeTelegram{}
		b, _ := newTestBot(t, fake)

		b.handleUpdate(context.Background(), message("/image a dream about the sea", "en"))

		sent := fake.sentMessages()
		require.Len(t, sent, 1)
		assert.Equal(t, lang.UI(lang.English).ImagePaid, sent[0])
	})

	t.Run("premium user gets a scene description", func(t *testing.T) {
		fake := &fakeTelegram{}
		b, _ := newTestBot(t, fake,
			`{"summary":"a dream about the sea","symbols":["water"]}`,
			"A moonlit sea, silver light on the waves.",
		)
		ctx := context.Background()
		_, err := b.store.GetOrCreateUser(ctx, db.GetOrCreateUserParams{TgUserID: 42, Username: "anna", Language: "en"})
		require.NoError(t, err)
		require.NoError(t, b.store.SetPremium(ctx, 42, true))

		b.handleUpdate(ctx, message("/image a dream about the sea", "en"))

		sent := fake.sentMessages()
		require.Len(t, sent, 1)
		assert.Contains(t, sent[0], lang.UI(lang.English).ImageOK)
		assert.Contains(t, sent[0], "moonlit sea")
	})
}

func TestHandleUpdate_IgnoresNonText(t *testing.T) {
	fake := &fakeTelegram{}
	b, _ := newTestBot(t, fake)

	b.handleUpdate(context.Background(), Update{UpdateID: 1, Message: nil})
	b.handleUpdate(context.Background(), Update{UpdateID: 2, Message: &Message{Chat: Chat{ID: 1}}})

	assert.Empty(t, fake.sentMessages())
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fake := &fakeTelegram{
		updates: []Update{message("/start", "en")},
	}
	fake.onGet = func(call int) {
		if call >= 2 {
			cancel()
		}
	}
	b, _ := newTestBot(t, fake)

	err := b.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, fake.sentMessages(), 1)
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		in      string
		command string
		args    string
	}{
		{"/start", "/start", ""},
		{"/ask what does water mean?", "/ask", "what does water mean?"},
		{"/stats@dreammap_bot", "/stats", ""},
		{"plain dream text", "", "plain dream text"},
		{"  /dream  the sea  ", "/dream", "the sea"},
	}
	for _, tt := range tests {
		command, args := splitCommand(tt.in)
		assert.Equal(t, tt.command, command, "input %q", tt.in)
		assert.Equal(t, tt.args, args, "input %q", tt.in)
	}
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, lang.Russian, detectLanguage("мне снился сон", ""))
	assert.Equal(t, lang.Ukrainian, detectLanguage("мені наснився сон", "ru"))
	assert.Equal(t, lang.English, detectLanguage("i had a dream", "ru"))
	// Script-neutral commands keep the client locale.
	assert.Equal(t, lang.Russian, detectLanguage("/start", "ru"))
	assert.Equal(t, lang.English, detectLanguage("/start", ""))
}
