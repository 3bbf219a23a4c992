package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/probeworks/knowd/internal/embedding"
)

// Compile-time interface checks
var (
	_ Provider         = (*OpenAIProvider)(nil)
	_ EmbeddingCapable = (*OpenAIProvider)(nil)
)

// ChatService defines the interface for making chat completion calls.
// This abstraction enables testing without calling the real OpenAI API.
type ChatService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAIProvider implements Provider using OpenAI's API. It advertises
// embedding capability, so it doubles as the first embedding tier.
type OpenAIProvider struct {
	chat           ChatService
	model          openai.ChatModel
	embeddingModel string
	embeddingDims  int
	apiKey         string
}

// NewOpenAIProvider creates an OpenAI chat provider.
func NewOpenAIProvider(apiKey, model, embeddingModel string, embeddingDims int) *OpenAIProvider {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{
		chat:           client.Chat.Completions,
		model:          openai.ChatModel(model),
		embeddingModel: embeddingModel,
		embeddingDims:  embeddingDims,
		apiKey:         apiKey,
	}
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Chat sends a completion request and returns the reply text.
func (p *OpenAIProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, TimeoutChat)
	defer cancel()

	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			params = append(params, openai.SystemMessage(msg.Content))
		case "assistant":
			params = append(params, openai.AssistantMessage(msg.Content))
		default:
			params = append(params, openai.UserMessage(msg.Content))
		}
	}

	resp, err := p.chat.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F(params),
		Model:    openai.F(p.model),
	})
	if err != nil {
		return "", fmt.Errorf("openai chat call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}

// Embedder returns the OpenAI embedding client backing the embedding
// capability probe.
func (p *OpenAIProvider) Embedder() embedding.Embedder {
	return embedding.NewOpenAI(p.apiKey, p.embeddingModel, p.embeddingDims)
}
