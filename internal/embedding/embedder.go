package embedding

import (
	"context"
	"errors"
)

var (
	// ErrEmptyInput is returned when asked to embed empty text.
	ErrEmptyInput = errors.New("cannot embed empty text")

	// ErrProviderUnavailable is returned when every embedding tier has
	// been exhausted. Callers absorb it and degrade to keyword-only
	// behavior rather than failing the request.
	ErrProviderUnavailable = errors.New("all embedding providers unavailable")
)

// Embedder defines the interface contract for embedding generation
// services. Dimensions is constant for the lifetime of an instance.
type Embedder interface {
	Embed(ctx context.Context, content string) ([]float32, error)
	Dimensions() int
	ModelName() string
}

// CorpusIndexer is an optional capability: embedders that fit statistics
// over the indexed corpus (the TF-IDF fallback) implement it, and the
// store feeds every created or updated content through it. Detected via
// type assertion, not declared on Embedder.
type CorpusIndexer interface {
	IndexContent(content string)
}
