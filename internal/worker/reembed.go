// Package worker holds maintenance passes that run outside the request
// path.
package worker

import (
	"context"
	"log/slog"

	"github.com/probeworks/knowd/internal/embedding"
	"github.com/probeworks/knowd/internal/types"
)

// ReembedStore defines the store operations the re-embed pass needs.
// Implemented by store.SQLiteStore.
type ReembedStore interface {
	ListEmbeddingMismatch(ctx context.Context, dims, limit int) ([]types.KnowledgeEntry, error)
	UpdateEmbedding(ctx context.Context, id string, embedding []float32) error
}

// Reembedder regenerates stored vectors whose dimensionality no longer
// matches the active embedding adapter. It is an explicit maintenance
// operation run after an adapter change or demotion, not a periodic loop.
type Reembedder struct {
	store     ReembedStore
	embedder  embedding.Embedder
	batchSize int
}

// NewReembedder creates a re-embed pass over the given store and adapter.
func NewReembedder(s ReembedStore, e embedding.Embedder, batchSize int) *Reembedder {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Reembedder{store: s, embedder: e, batchSize: batchSize}
}

// Run re-embeds mismatched entries in batches until none remain or ctx is
// cancelled. Per-entry failures are logged and skipped; the pass reports
// how many entries it rewrote. Dimensionality is re-read each batch so a
// provider demotion mid-pass redirects the scan instead of corrupting it.
func (r *Reembedder) Run(ctx context.Context) (int, error) {
	slog.Info("re-embed pass started",
		"component", "worker",
		"model", r.embedder.ModelName(),
	)

	var updated int
	for {
		if ctx.Err() != nil {
			return updated, ctx.Err()
		}

		dims := r.embedder.Dimensions()
		if dims <= 0 {
			return updated, embedding.ErrProviderUnavailable
		}

		entries, err := r.store.ListEmbeddingMismatch(ctx, dims, r.batchSize)
		if err != nil {
			return updated, err
		}
		if len(entries) == 0 {
			break
		}

		var progressed bool
		for _, entry := range entries {
			vec, err := r.embedder.Embed(ctx, entry.Content)
			if err != nil {
				slog.Warn("re-embed failed for entry",
					"component", "worker",
					"knowledge_id", entry.ID,
					"error", err,
				)
				continue
			}
			if len(vec) != dims {
				// Adapter demoted mid-batch; restart scan on new tier.
				progressed = true
				break
			}
			if err := r.store.UpdateEmbedding(ctx, entry.ID, vec); err != nil {
				slog.Error("store embedding failed",
					"component", "worker",
					"knowledge_id", entry.ID,
					"error", err,
				)
				continue
			}
			updated++
			progressed = true
		}

		// Every entry in the batch failed; bail instead of spinning.
		if !progressed {
			break
		}
	}

	slog.Info("re-embed pass completed",
		"component", "worker",
		"entries_updated", updated,
	)

	return updated, nil
}
