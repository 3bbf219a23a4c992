package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"sync"
	"unicode"
)

// Compile-time interface checks
var (
	_ Embedder      = (*TFIDF)(nil)
	_ CorpusIndexer = (*TFIDF)(nil)
)

// TFIDF is the last-resort embedding tier: a hashed TF-IDF vectorizer
// fitted incrementally over the indexed corpus. Vectors are sparse in
// spirit but hashed onto a fixed dimensionality so the adapter's constant
// dimension contract holds. Semantic quality is degraded; retrieval
// against these vectors is effectively weighted keyword overlap.
type TFIDF struct {
	dimensions int

	mu       sync.RWMutex
	docCount int
	docFreq  map[string]int
}

// NewTFIDF creates a TF-IDF vectorizer with the given fixed dimensionality.
func NewTFIDF(dimensions int) *TFIDF {
	if dimensions <= 0 {
		dimensions = 256
	}
	return &TFIDF{
		dimensions: dimensions,
		docFreq:    make(map[string]int),
	}
}

// IndexContent updates corpus statistics with one document. Called by the
// store for every created or updated content value.
func (t *TFIDF) IndexContent(content string) {
	terms := tokenize(content)
	if len(terms) == 0 {
		return
	}

	seen := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		seen[term] = struct{}{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.docCount++
	for term := range seen {
		t.docFreq[term]++
	}
}

// Embed vectorizes text against the current corpus statistics. It never
// performs I/O and never fails on non-empty input.
func (t *TFIDF) Embed(_ context.Context, text string) ([]float32, error) {
	terms := tokenize(text)
	if len(terms) == 0 {
		return nil, ErrEmptyInput
	}

	counts := make(map[string]int, len(terms))
	for _, term := range terms {
		counts[term]++
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	vec := make([]float32, t.dimensions)
	for term, count := range counts {
		tf := float64(count) / float64(len(terms))
		// Smoothed IDF; unseen terms still contribute.
		idf := math.Log(1 + float64(t.docCount+1)/float64(t.docFreq[term]+1))
		vec[t.slot(term)] += float32(tf * idf)
	}

	// L2 normalize so cosine similarity behaves like the dense tiers.
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= inv
		}
	}

	return vec, nil
}

// Dimensions returns the fixed hashed dimensionality.
func (t *TFIDF) Dimensions() int {
	return t.dimensions
}

// ModelName returns a stable identifier for the fallback vectorizer.
func (t *TFIDF) ModelName() string {
	return "tfidf-hashed"
}

func (t *TFIDF) slot(term string) int {
	h := fnv.New32a()
	h.Write([]byte(term))
	return int(h.Sum32() % uint32(t.dimensions))
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
