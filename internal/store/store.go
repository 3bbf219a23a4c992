package store

import (
	"context"

	"github.com/probeworks/knowd/internal/types"
)

// Store defines the interface contract for all knowledge persistence
// operations. The store exclusively owns version and history bookkeeping;
// callers never write history rows directly.
type Store interface {
	Create(ctx context.Context, entry types.NewKnowledgeEntry) (*types.KnowledgeEntry, error)
	Get(ctx context.Context, id string) (*types.KnowledgeEntry, error)
	List(ctx context.Context, filter types.Filter) ([]types.KnowledgeEntry, error)
	Update(ctx context.Context, id string, patch types.EntryPatch) (*types.KnowledgeEntry, error)
	Archive(ctx context.Context, id, changedBy string) error
	SetStatus(ctx context.Context, id string, to types.Status) error
	GetHistory(ctx context.Context, id string) ([]types.HistorySnapshot, error)
	RecordUsage(ctx context.Context, event types.UsageEvent) (int64, error)
	UpdateUsageFeedback(ctx context.Context, usageID int64, helpful int) error
	ListEmbeddingMismatch(ctx context.Context, dims, limit int) ([]types.KnowledgeEntry, error)
	UpdateEmbedding(ctx context.Context, id string, embedding []float32) error
	Stats(ctx context.Context) (*types.StoreStats, error)
	Close() error
}
