package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type fakeEmbeddingsService struct {
	resp *openai.CreateEmbeddingResponse
	err  error
}

func (f *fakeEmbeddingsService) New(_ context.Context, _ openai.EmbeddingNewParams, _ ...option.RequestOption) (*openai.CreateEmbeddingResponse, error) {
	return f.resp, f.err
}

func TestOpenAI_Embed(t *testing.T) {
	o := &OpenAI{
		embeddings: &fakeEmbeddingsService{
			resp: &openai.CreateEmbeddingResponse{
				Data: []openai.Embedding{
					{Embedding: []float64{0.25, -0.5, 0.75}},
				},
			},
		},
		model:      "text-embedding-3-small",
		dimensions: 3,
	}

	vec, err := o.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 3 || vec[0] != 0.25 || vec[1] != -0.5 {
		t.Errorf("vec = %v", vec)
	}
}

func TestOpenAI_EmbedAPIError(t *testing.T) {
	o := &OpenAI{
		embeddings: &fakeEmbeddingsService{err: errors.New("rate limited")},
		model:      "text-embedding-3-small",
		dimensions: 3,
	}

	if _, err := o.Embed(context.Background(), "hello"); err == nil {
		t.Error("expected error")
	}
}

func TestOpenAI_EmbedNoData(t *testing.T) {
	o := &OpenAI{
		embeddings: &fakeEmbeddingsService{resp: &openai.CreateEmbeddingResponse{}},
		model:      "text-embedding-3-small",
		dimensions: 3,
	}

	if _, err := o.Embed(context.Background(), "hello"); err == nil {
		t.Error("expected error for empty data")
	}
}
