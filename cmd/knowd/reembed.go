package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/probeworks/knowd/internal/config"
	"github.com/probeworks/knowd/internal/store"
	"github.com/probeworks/knowd/internal/worker"
	"github.com/spf13/cobra"
)

var reembedBatchSize int

var reembedCmd = &cobra.Command{
	Use:   "reembed",
	Short: "Regenerate vectors that no longer match the active embedding provider",
	Long: `Scans for entries whose stored vector is missing or has a different
dimensionality than the active embedding provider and re-embeds them.
Run after changing the embedding configuration or after a provider
demotion left entries behind.`,
	RunE: runReembed,
}

func init() {
	reembedCmd.Flags().IntVar(&reembedBatchSize, "batch-size", 50, "entries per batch")
}

func runReembed(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	provider := buildProvider(cfg)
	adapter := buildAdapter(ctx, cfg, provider)

	db, err := store.NewSQLiteStore(cfg.Database.Path, adapter)
	if err != nil {
		return err
	}
	defer db.Close()

	warmCorpus(ctx, db, adapter)

	updated, err := worker.NewReembedder(db, adapter, reembedBatchSize).Run(ctx)
	if err != nil {
		return fmt.Errorf("re-embed pass: %w", err)
	}

	fmt.Printf("re-embedded %d entries with %s\n", updated, adapter.ModelName())
	return nil
}
