// Package llm abstracts the chat providers used for knowledge extraction.
// Embedding support is an optional capability probed via type assertion,
// not part of the core interface; providers without it simply never serve
// as the first embedding tier.
package llm

import (
	"context"
	"errors"
	"time"

	"github.com/probeworks/knowd/internal/embedding"
)

// TimeoutChat bounds every chat completion call.
const TimeoutChat = 60 * time.Second

// ErrEmptyResponse is returned when a provider call succeeds but carries
// no usable reply.
var ErrEmptyResponse = errors.New("provider returned empty response")

// Provider is the interface all chat providers implement.
type Provider interface {
	// Name returns the provider identifier (e.g. "openai", "ollama").
	Name() string
	// Chat sends the messages and returns the assistant's reply text.
	Chat(ctx context.Context, messages []Message) (string, error)
}

// Message is a chat message.
type Message struct {
	Role    string // "system", "user", "assistant"
	Content string
}

// EmbeddingCapable is the optional embedding capability. A provider that
// implements it contributes the highest-priority embedding tier.
type EmbeddingCapable interface {
	Embedder() embedding.Embedder
}
