package embedding

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Compile-time interface checks
var (
	_ Embedder      = (*Adapter)(nil)
	_ CorpusIndexer = (*Adapter)(nil)
)

// DefaultTimeout bounds each provider call. A call exceeding it counts as
// a provider failure and feeds the demotion policy.
const DefaultTimeout = 5 * time.Second

// Adapter turns text into vectors using a prioritized list of provider
// tiers. The tier order is fixed at construction. When the active tier
// fails a call it is retried once, then the adapter demotes to the next
// tier for the remainder of the process lifetime. Demotion state is held
// behind a mutex so two concurrent failures cannot skip a tier.
type Adapter struct {
	timeout time.Duration

	mu     sync.Mutex
	tiers  []Embedder
	active int
}

// NewAdapter builds an adapter over the given tiers, best first. At least
// one tier is required; the caller conventionally appends a TFIDF tier
// last so the adapter can always degrade instead of failing.
func NewAdapter(timeout time.Duration, tiers ...Embedder) *Adapter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Adapter{timeout: timeout, tiers: tiers}
}

// Embed vectorizes text with the active tier, demoting on repeated
// failure. Returns ErrEmptyInput for blank text and ErrProviderUnavailable
// once every tier is exhausted.
func (a *Adapter) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	for {
		idx, tier := a.activeTier()
		if tier == nil {
			return nil, ErrProviderUnavailable
		}

		vec, err := a.call(ctx, tier, text)
		if err == nil {
			return vec, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		// One retry against the same tier before demoting.
		vec, retryErr := a.call(ctx, tier, text)
		if retryErr == nil {
			return vec, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		a.demote(idx, retryErr)
	}
}

func (a *Adapter) call(ctx context.Context, tier Embedder, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return tier.Embed(ctx, text)
}

// activeTier returns the current tier and its index, or nil when all
// tiers are exhausted.
func (a *Adapter) activeTier() (int, Embedder) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.active >= len(a.tiers) {
		return -1, nil
	}
	return a.active, a.tiers[a.active]
}

// demote moves past the given tier. The index guard keeps a concurrent
// caller that failed against the same tier from demoting twice.
func (a *Adapter) demote(idx int, cause error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if idx != a.active {
		return
	}

	failed := a.tiers[a.active].ModelName()
	a.active++

	if a.active < len(a.tiers) {
		slog.Warn("embedding provider demoted",
			"failed_model", failed,
			"next_model", a.tiers[a.active].ModelName(),
			"error", cause,
		)
	} else {
		slog.Error("all embedding providers exhausted",
			"failed_model", failed,
			"error", cause,
		)
	}
}

// Dimensions returns the active tier's dimensionality, or 0 when all
// tiers are exhausted. A demotion that changes dimensionality invalidates
// stored vectors; the re-embed maintenance pass restores them.
func (a *Adapter) Dimensions() int {
	_, tier := a.activeTier()
	if tier == nil {
		return 0
	}
	return tier.Dimensions()
}

// ModelName returns the active tier's model name.
func (a *Adapter) ModelName() string {
	_, tier := a.activeTier()
	if tier == nil {
		return "none"
	}
	return tier.ModelName()
}

// IndexContent forwards corpus statistics to every tier that fits them,
// so the TF-IDF fallback is warm if the adapter ever demotes to it.
func (a *Adapter) IndexContent(content string) {
	a.mu.Lock()
	tiers := make([]Embedder, len(a.tiers))
	copy(tiers, a.tiers)
	a.mu.Unlock()

	for _, tier := range tiers {
		if idx, ok := tier.(CorpusIndexer); ok {
			idx.IndexContent(content)
		}
	}
}

// Reconfigure replaces the tier list and resets demotion state. This is
// the explicit reconfiguration path; callers follow it with a re-embed
// maintenance pass.
func (a *Adapter) Reconfigure(tiers ...Embedder) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tiers = tiers
	a.active = 0
}
