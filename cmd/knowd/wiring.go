package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/probeworks/knowd/internal/config"
	"github.com/probeworks/knowd/internal/embedding"
	"github.com/probeworks/knowd/internal/llm"
	"github.com/probeworks/knowd/internal/store"
	"github.com/probeworks/knowd/internal/types"
)

// buildProvider selects the chat provider used for knowledge extraction.
func buildProvider(cfg *config.Config) llm.Provider {
	switch cfg.LLM.Provider {
	case "ollama":
		return llm.NewOllamaProvider(cfg.Embedding.OllamaURL, cfg.LLM.Model)
	default:
		return llm.NewOpenAIProvider(
			cfg.Embedding.APIKey,
			cfg.LLM.Model,
			cfg.Embedding.Model,
			cfg.Embedding.Dimensions,
		)
	}
}

// buildAdapter assembles the embedding tier list, best first: the chat
// provider's embedding capability when it advertises one, a reachable
// local Ollama model, and always the TF-IDF fallback so the adapter can
// degrade instead of fail.
func buildAdapter(ctx context.Context, cfg *config.Config, provider llm.Provider) *embedding.Adapter {
	var tiers []embedding.Embedder

	if capable, ok := provider.(llm.EmbeddingCapable); ok && cfg.Embedding.APIKey != "" {
		tiers = append(tiers, capable.Embedder())
	}

	ollama := embedding.NewOllama(cfg.Embedding.OllamaURL, cfg.Embedding.OllamaModel, cfg.Embedding.OllamaDims)
	if ollama.Available(ctx) {
		tiers = append(tiers, ollama)
	} else {
		slog.Info("local embedding model unavailable, tier skipped", "url", cfg.Embedding.OllamaURL)
	}

	tiers = append(tiers, embedding.NewTFIDF(cfg.Embedding.TFIDFDims))

	return embedding.NewAdapter(time.Duration(cfg.Embedding.Timeout), tiers...)
}

// warmCorpus replays stored content through the adapter's corpus indexer.
func warmCorpus(ctx context.Context, db *store.SQLiteStore, adapter *embedding.Adapter) {
	entries, err := db.List(ctx, types.Filter{
		Statuses: []types.Status{types.StatusActive, types.StatusPending},
	})
	if err != nil {
		slog.Warn("corpus warm-up failed", "error", err)
		return
	}
	for _, entry := range entries {
		adapter.IndexContent(entry.Content)
	}
	slog.Info("corpus warmed", "entries", len(entries))
}
