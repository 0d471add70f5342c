package bot

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/dreammap-bot/dreammap/internal/analyzer"
	"github.com/dreammap-bot/dreammap/internal/db"
	"github.com/dreammap-bot/dreammap/internal/lang"
	"github.com/dreammap-bot/dreammap/internal/qa"
	"github.com/dreammap-bot/dreammap/internal/render"
	"github.com/dreammap-bot/dreammap/internal/stats"
	"github.com/dreammap-bot/dreammap/internal/vectorstore"
	"github.com/dreammap-bot/dreammap/internal/visualizer"
)

// pollRetryDelay spaces out retries after a failed getUpdates call.
const pollRetryDelay = 3 * time.Second

// DreamIndexer stores dream summaries for later retrieval. Satisfied by
// vectorstore.DreamStore; nil disables indexing.
type DreamIndexer interface {
	InsertDream(ctx context.Context, rec vectorstore.DreamRecord) (uint64, error)
}

// Bot wires the Telegram transport to the analysis pipeline.
type Bot struct {
	client       *Client
	store        *db.Store
	analyzer     *analyzer.Analyzer
	qa           *qa.Service
	stats        *stats.Service
	visualizer   *visualizer.Visualizer
	indexer      DreamIndexer
	modelVersion string
	pollTimeout  int

	// windows tracks recently used decoration lines per chat. The
	// update loop is single-threaded, so no locking is needed.
	windows map[int64]*render.RecentWindow
}

// Config holds bot dependencies.
type Config struct {
	Client       *Client
	Store        *db.Store
	Analyzer     *analyzer.Analyzer
	QA           *qa.Service
	Stats        *stats.Service
	Visualizer   *visualizer.Visualizer
	Indexer      DreamIndexer
	ModelVersion string

	// PollTimeout is the long-poll hold in seconds.
	PollTimeout int
}

// New creates a bot.
func New(cfg Config) *Bot {
	pollTimeout := cfg.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 50
	}
	return &Bot{
		client:       cfg.Client,
		store:        cfg.Store,
		analyzer:     cfg.Analyzer,
		qa:           cfg.QA,
		stats:        cfg.Stats,
		visualizer:   cfg.Visualizer,
		indexer:      cfg.Indexer,
		modelVersion: cfg.ModelVersion,
		pollTimeout:  pollTimeout,
		windows:      make(map[int64]*render.RecentWindow),
	}
}

// Run starts the long-poll loop. It returns when ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	slog.Info("starting bot", "poll_timeout", b.pollTimeout)

	var offset int64
	for {
		select {
		case <-ctx.Done():
			slog.Info("bot shutting down")
			return ctx.Err()
		default:
		}

		updates, err := b.client.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Error("get updates failed", "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pollRetryDelay):
			}
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			b.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate dispatches one update. Handler failures are logged, the
// loop never stops because of a single chat.
func (b *Bot) handleUpdate(ctx context.Context, update Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || strings.TrimSpace(msg.Text) == "" {
		return
	}

	text := msg.Text
	lg := detectLanguage(text, msg.From.LanguageCode)
	command, args := splitCommand(text)

	var err error
	switch command {
	case "/start":
		err = b.client.SendMessage(ctx, msg.Chat.ID, lang.UI(lg).Hello)
	case "/dream":
		if args == "" {
			err = b.client.SendMessage(ctx, msg.Chat.ID, lang.UI(lg).PromptDream)
		} else {
			err = b.handleDream(ctx, msg, args, lg)
		}
	case "/stats":
		err = b.handleStats(ctx, msg, lg)
	case "/ask":
		err = b.handleAsk(ctx, msg, args, lg)
	case "/image":
		err = b.handleImage(ctx, msg, args, lg)
	case "":
		err = b.handleDream(ctx, msg, text, lg)
	default:
		// Unknown commands are ignored, same as unsupported media.
	}

	if err != nil {
		slog.Error("handler failed", "command", command, "chat_id", msg.Chat.ID, "error", err)
	}
}

// handleDream runs the full pipeline for one dream text.
func (b *Bot) handleDream(ctx context.Context, msg *Message, text string, lg lang.Language) error {
	if err := b.client.SendMessage(ctx, msg.Chat.ID, lang.UI(lg).Processing); err != nil {
		return err
	}
	if err := b.client.SendTyping(ctx, msg.Chat.ID); err != nil {
		slog.Debug("send typing failed", "error", err)
	}

	userID, err := b.store.GetOrCreateUser(ctx, db.GetOrCreateUserParams{
		TgUserID: msg.From.ID, Username: msg.From.Username, Language: string(lg),
	})
	if err != nil {
		return err
	}

	dreamID, err := b.store.InsertDream(ctx, db.InsertDreamParams{
		UserID: userID, RawText: strings.TrimSpace(text), ModelVersion: b.modelVersion,
	})
	if err != nil {
		return err
	}

	res := b.analyzer.Analyze(ctx, text, analyzer.ModeMixed, lg)
	b.persistAnalysis(ctx, dreamID, userID, res)

	rendered := render.Render(&res.Structure, res.Interpretation, lg, b.window(msg.Chat.ID))
	return b.client.SendMessage(ctx, msg.Chat.ID, rendered)
}

// persistAnalysis stores the analysis row and indexes the summary.
// Both are fire-and-forget: storage trouble never blocks the reply.
func (b *Bot) persistAnalysis(ctx context.Context, dreamID, userID int64, res *analyzer.Analysis) {
	structJSON, err := json.Marshal(&res.Structure)
	if err != nil {
		slog.Warn("marshal structure failed", "error", err)
		structJSON = []byte("{}")
	}

	in := res.Interpretation
	mixed := in.Psychological
	if in.Esoteric != "" {
		mixed += "\n\n" + in.Esoteric
	}

	if err := b.store.InsertAnalysis(ctx, db.InsertAnalysisParams{
		DreamID:    dreamID,
		Language:   string(res.Language),
		Mode:       string(res.Mode),
		JSONStruct: string(structJSON),
		Mixed:      mixed,
		Psych:      in.Psychological,
		Esoteric:   in.Esoteric,
		Advice:     in.Advice,
	}); err != nil {
		slog.Warn("persist analysis failed", "dream_id", dreamID, "error", err)
	}

	if b.indexer == nil || res.Structure.Summary == "" {
		return
	}
	if _, err := b.indexer.InsertDream(ctx, vectorstore.DreamRecord{
		DreamID:  dreamID,
		UserID:   userID,
		Summary:  res.Structure.Summary,
		Themes:   strings.Join(res.Structure.Themes, ", "),
		Language: string(res.Language),
	}); err != nil {
		slog.Warn("index dream failed", "dream_id", dreamID, "error", err)
	}
}

func (b *Bot) handleStats(ctx context.Context, msg *Message, lg lang.Language) error {
	userID, err := b.store.GetOrCreateUser(ctx, db.GetOrCreateUserParams{
		TgUserID: msg.From.ID, Username: msg.From.Username, Language: string(lg),
	})
	if err != nil {
		return err
	}

	sum, err := b.stats.Collect(ctx, userID)
	if err != nil {
		return err
	}
	return b.client.SendMessage(ctx, msg.Chat.ID, stats.Format(sum, lg))
}

func (b *Bot) handleAsk(ctx context.Context, msg *Message, question string, lg lang.Language) error {
	if question == "" {
		return b.client.SendMessage(ctx, msg.Chat.ID, lang.UI(lg).AskUsage)
	}

	userID, err := b.store.GetOrCreateUser(ctx, db.GetOrCreateUserParams{
		TgUserID: msg.From.ID, Username: msg.From.Username, Language: string(lg),
	})
	if err != nil {
		return err
	}

	if err := b.client.SendTyping(ctx, msg.Chat.ID); err != nil {
		slog.Debug("send typing failed", "error", err)
	}

	answer, err := b.qa.Answer(ctx, userID, question, lg)
	if err != nil {
		return err
	}
	return b.client.SendMessage(ctx, msg.Chat.ID, answer)
}

// handleImage is the premium-gated scene description feature.
func (b *Bot) handleImage(ctx context.Context, msg *Message, args string, lg lang.Language) error {
	ui := lang.UI(lg)
	if args == "" {
		return b.client.SendMessage(ctx, msg.Chat.ID, ui.ImageUsage)
	}

	premium, err := b.store.IsPremium(ctx, msg.From.ID)
	if err != nil {
		return err
	}
	if !premium {
		return b.client.SendMessage(ctx, msg.Chat.ID, ui.ImagePaid)
	}

	structure := b.analyzer.Extract(ctx, args, lg)
	desc, err := b.visualizer.Describe(ctx, &structure, lg)
	if err != nil {
		slog.Warn("visualization failed", "error", err)
		desc = ""
	}
	if desc == "" {
		return b.client.SendMessage(ctx, msg.Chat.ID, ui.NoAPI)
	}
	return b.client.SendMessage(ctx, msg.Chat.ID, ui.ImageOK+"\n"+desc)
}

func (b *Bot) window(chatID int64) *render.RecentWindow {
	w, ok := b.windows[chatID]
	if !ok {
		w = render.NewRecentWindow(0)
		b.windows[chatID] = w
	}
	return w
}

// detectLanguage picks the reply locale from the message text, falling
// back to the sender's client locale for script-neutral text.
func detectLanguage(text, clientLocale string) lang.Language {
	lg := lang.Detect(text)
	if lg == lang.English && clientLocale != "" {
		if normalized := lang.Normalize(clientLocale); normalized != lang.English {
			// Latin-script command from a ru/uk client keeps their UI
			// language.
			if !strings.ContainsAny(text, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ") || strings.HasPrefix(text, "/") {
				return normalized
			}
		}
	}
	return lg
}

// splitCommand separates a leading /command from its arguments. Plain
// text returns an empty command.
func splitCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	parts := strings.SplitN(text, " ", 2)
	command := parts[0]
	// Strip the @botname suffix used in group chats.
	if at := strings.Index(command, "@"); at != -1 {
		command = command[:at]
	}
	args := ""
	if len(parts) == 2 {
		args = strings.TrimSpace(parts[1])
	}
	return command, args
}
