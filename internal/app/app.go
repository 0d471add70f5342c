package app

import (
	"context"
	"log/slog"

	"github.com/dreammap-bot/dreammap/internal/analyzer"
	"github.com/dreammap-bot/dreammap/internal/bot"
	"github.com/dreammap-bot/dreammap/internal/config"
	"github.com/dreammap-bot/dreammap/internal/db"
	"github.com/dreammap-bot/dreammap/internal/llm"
	"github.com/dreammap-bot/dreammap/internal/qa"
	"github.com/dreammap-bot/dreammap/internal/stats"
	"github.com/dreammap-bot/dreammap/internal/vectorstore"
	"github.com/dreammap-bot/dreammap/internal/visualizer"
)

// App is the main application container holding all dependencies.
type App struct {
	Config     *config.Config
	Store      *db.Store
	LLM        llm.Client
	Analyzer   *analyzer.Analyzer
	QA         *qa.Service
	Stats      *stats.Service
	Visualizer *visualizer.Visualizer
	Dreams     *vectorstore.DreamStore
	Bot        *bot.Bot
}

// New creates a new application instance with all dependencies wired up.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}

	gemini := llm.NewGeminiClient(llm.GeminiConfig{
		APIKey: cfg.GoogleAPIKey,
		Model:  cfg.GeminiModel,
	})

	// The vector store is optional: without it Q&A degrades to the
	// recency context alone.
	dreams, err := vectorstore.New(vectorstore.Config{Path: cfg.VecLitePath})
	if err != nil {
		slog.Warn("vector store unavailable, retrieval disabled", "error", err)
		dreams = nil
	} else {
		slog.Info("vector store initialized", "path", cfg.VecLitePath, "dreams", dreams.Count())
	}

	var retriever qa.Retriever
	var indexer bot.DreamIndexer
	if dreams != nil {
		retriever = dreams
		indexer = dreams
	}

	anl := analyzer.New(analyzer.Config{LLM: gemini})
	asker := qa.New(store, gemini, retriever)
	statsSvc := stats.New(store)
	viz := visualizer.New(gemini)

	b := bot.New(bot.Config{
		Client:       bot.NewClient(bot.ClientConfig{Token: cfg.TelegramBotToken}),
		Store:        store,
		Analyzer:     anl,
		QA:           asker,
		Stats:        statsSvc,
		Visualizer:   viz,
		Indexer:      indexer,
		ModelVersion: cfg.GeminiModel,
		PollTimeout:  int(cfg.PollTimeout.Seconds()),
	})

	return &App{
		Config:     cfg,
		Store:      store,
		LLM:        gemini,
		Analyzer:   anl,
		QA:         asker,
		Stats:      statsSvc,
		Visualizer: viz,
		Dreams:     dreams,
		Bot:        b,
	}, nil
}

// Close closes all resources.
func (a *App) Close() error {
	if a.Dreams != nil {
		if err := a.Dreams.Close(); err != nil {
			slog.Warn("close vector store", "error", err)
		}
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
