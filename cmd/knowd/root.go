package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/probeworks/knowd/internal/api"
	"github.com/probeworks/knowd/internal/config"
	"github.com/probeworks/knowd/internal/learner"
	"github.com/probeworks/knowd/internal/retriever"
	"github.com/probeworks/knowd/internal/store"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "knowd",
	Short: "knowd - knowledge retrieval and learning service",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// Signal handling
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)
	slog.Info("configuration loaded")

	// Chat provider and embedding adapter (tier probe happens here)
	provider := buildProvider(cfg)
	adapter := buildAdapter(ctx, cfg, provider)
	slog.Info("embedder initialized", "model", adapter.ModelName())

	// Initialize store (migrations, WAL mode)
	db, err := store.NewSQLiteStore(cfg.Database.Path, adapter)
	if err != nil {
		return err
	}
	slog.Info("store initialized", "path", cfg.Database.Path)

	// Warm the TF-IDF fallback with the existing corpus so a demotion
	// lands on fitted statistics rather than an empty vocabulary.
	warmCorpus(ctx, db, adapter)

	// Assemble retrieval and learning components
	ret := retriever.New(db, adapter, retriever.Config{
		TopK:            cfg.Retrieval.TopK,
		PriorityWeight:  cfg.Retrieval.PriorityWeight,
		ScopeWeight:     cfg.Retrieval.ScopeWeight,
		SimilarityFloor: cfg.Retrieval.SimilarityFloor,
	})
	learn := learner.New(db, provider)

	// HTTP router and server
	handler := api.NewHandler(db, ret, learn, adapter, cfg.Auth.APIKey, Version, cfg.Retrieval.ContextBudget)
	router := api.NewRouter(handler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout),
	}

	go func() {
		slog.Info("server starting", "address", addr)
		// ErrServerClosed is the expected error when Shutdown() is
		// called gracefully; anything else is a real failure.
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	// Block until signal received
	<-ctx.Done()
	slog.Info("shutdown initiated")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := db.Close(); err != nil {
		slog.Error("store close error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	rootCmd.AddCommand(reembedCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
