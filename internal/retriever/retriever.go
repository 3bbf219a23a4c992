// Package retriever implements hybrid retrieval over the knowledge store:
// a keyword pre-filter, semantic scoring against stored vectors, and a
// context re-rank combining similarity with priority and scope signals.
package retriever

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/probeworks/knowd/internal/embedding"
	"github.com/probeworks/knowd/internal/store"
	"github.com/probeworks/knowd/internal/types"
)

// Config holds the re-ranking knobs. The weights operate on a similarity
// scale of [0,1].
type Config struct {
	// TopK caps the number of returned results.
	TopK int
	// PriorityWeight is the α applied to normalized priority.
	PriorityWeight float64
	// ScopeWeight is the β applied to scope specificity.
	ScopeWeight float64
	// SimilarityFloor is assigned to candidates whose stored vector is
	// missing or dimensionally incompatible with the query vector.
	SimilarityFloor float64
}

// DefaultConfig returns the design-default retrieval configuration.
func DefaultConfig() Config {
	return Config{
		TopK:            10,
		PriorityWeight:  0.1,
		ScopeWeight:     0.15,
		SimilarityFloor: 0.1,
	}
}

// Lister is the slice of the store the retriever reads from.
type Lister interface {
	List(ctx context.Context, filter types.Filter) ([]types.KnowledgeEntry, error)
}

// Retriever executes the three-stage retrieval algorithm.
type Retriever struct {
	store    Lister
	embedder embedding.Embedder
	cfg      Config
}

// New creates a Retriever over the given store and embedding adapter.
func New(s Lister, e embedding.Embedder, cfg Config) *Retriever {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultConfig().TopK
	}
	return &Retriever{store: s, embedder: e, cfg: cfg}
}

// Retrieve returns active entries ranked for the query, best first. An
// empty keyword candidate set returns empty without falling back to an
// unfiltered search. Embedding outages degrade to stage-1 priority
// ordering; they never surface to the caller.
func (r *Retriever) Retrieve(ctx context.Context, query string, filter types.Filter) ([]types.ScoredEntry, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is empty", store.ErrInvalidInput)
	}

	// Stage 1: keyword pre-filter. Only active entries are candidates.
	filter.Statuses = []types.Status{types.StatusActive}
	candidates, err := r.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	if len(candidates) == 0 {
		return []types.ScoredEntry{}, nil
	}

	// Stage 2: semantic scoring. The candidate list arrives ordered by
	// priority then recency, which is exactly the degraded ordering.
	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		slog.Warn("query embedding unavailable, degrading to keyword ranking", "error", err)
		results := make([]types.ScoredEntry, 0, len(candidates))
		for _, entry := range candidates {
			results = append(results, types.ScoredEntry{KnowledgeEntry: entry})
		}
		return truncate(results, r.cfg.TopK), nil
	}

	results := make([]types.ScoredEntry, 0, len(candidates))
	maxPriority := 0
	for _, entry := range candidates {
		if entry.Priority > maxPriority {
			maxPriority = entry.Priority
		}
	}

	for _, entry := range candidates {
		similarity := r.cfg.SimilarityFloor
		if len(entry.Embedding) == len(queryVec) && len(entry.Embedding) > 0 {
			similarity = cosineSimilarity(queryVec, entry.Embedding)
		}

		// Stage 3: context re-rank.
		var normPriority float64
		if maxPriority > 0 {
			normPriority = float64(entry.Priority) / float64(maxPriority)
		}
		specificity := types.ScopeSpecificity(entry.Scope, filter.ScopePrefix)

		results = append(results, types.ScoredEntry{
			KnowledgeEntry: entry,
			Similarity:     similarity,
			FinalScore: similarity +
				r.cfg.PriorityWeight*normPriority +
				r.cfg.ScopeWeight*specificity,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].FinalScore != results[j].FinalScore {
			return results[i].FinalScore > results[j].FinalScore
		}
		if results[i].Priority != results[j].Priority {
			return results[i].Priority > results[j].Priority
		}
		return results[i].UpdatedAt.After(results[j].UpdatedAt)
	})

	return truncate(results, r.cfg.TopK), nil
}

func truncate(results []types.ScoredEntry, topK int) []types.ScoredEntry {
	if len(results) > topK {
		return results[:topK]
	}
	return results
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
