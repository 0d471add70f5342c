package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dreammap-bot/dreammap/internal/config"
	"github.com/dreammap-bot/dreammap/internal/db"
	"github.com/dreammap-bot/dreammap/internal/lang"
	"github.com/dreammap-bot/dreammap/internal/stats"
	"github.com/dreammap-bot/dreammap/internal/vectorstore"
	"github.com/spf13/cobra"
)

var statsTgUserID int64

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	Long:  `Display statistics about users, dreams, and analyses in the database.`,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().Int64Var(&statsTgUserID, "user", 0, "Telegram user id for a per-user motif summary")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if statsTgUserID != 0 {
		return printUserStats(ctx, store, statsTgUserID)
	}

	fmt.Println("=== DreamMap Statistics ===")
	fmt.Println()
	fmt.Printf("Database: %s\n", cfg.DatabasePath)
	fmt.Println()

	for _, table := range []string{"users", "dreams", "analyses", "qa"} {
		var n int64
		if err := store.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			slog.Warn("count failed", "table", table, "error", err)
			continue
		}
		fmt.Printf("  %s: %d\n", table, n)
	}
	fmt.Println()

	if cfg.VecLitePath != "" {
		dreams, err := vectorstore.New(vectorstore.Config{Path: cfg.VecLitePath})
		if err != nil {
			slog.Warn("failed to open vector store", "error", err)
		} else {
			defer dreams.Close()
			fmt.Println("Vector store:")
			fmt.Printf("  Path: %s\n", cfg.VecLitePath)
			fmt.Printf("  Documents: %d\n", dreams.Count())
			fmt.Println()
		}
	}

	return nil
}

func printUserStats(ctx context.Context, store *db.Store, tgUserID int64) error {
	var userID int64
	err := store.QueryRowContext(ctx, "SELECT id FROM users WHERE tg_user_id = ?", tgUserID).Scan(&userID)
	if err != nil {
		return fmt.Errorf("unknown user %d: %w", tgUserID, err)
	}

	sum, err := stats.New(store).Collect(ctx, userID)
	if err != nil {
		return fmt.Errorf("collect stats: %w", err)
	}

	fmt.Println(stats.Format(sum, lang.English))
	return nil
}
