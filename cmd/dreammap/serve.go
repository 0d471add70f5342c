package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dreammap-bot/dreammap/internal/app"
	"github.com/dreammap-bot/dreammap/internal/config"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot daemon",
	Long: `Run the DreamMap daemon that long-polls Telegram for messages,
analyzes submitted dreams, and replies with interpretations.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForServe(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer application.Close()

	slog.Info("starting DreamMap daemon",
		"model", cfg.GeminiModel,
		"poll_timeout", cfg.PollTimeout,
	)

	// Run the bot in background
	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Bot.Run(ctx)
	}()

	// Wait for shutdown signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		if err != nil && err != context.Canceled {
			return fmt.Errorf("bot error: %w", err)
		}
	}

	slog.Info("shutting down...")
	cancel()

	return nil
}
