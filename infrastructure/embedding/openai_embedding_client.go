package embedding

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"

	"code-command-generator/domain"
)

// OpenAIEmbeddingClient implements the domain.EmbeddingClient interface using the OpenAI API.
type OpenAIEmbeddingClient struct {
	client *openai.Client
	model  openai.EmbeddingModel // e.g., text-embedding-3-small
}

// NewOpenAIEmbeddingClient creates a new OpenAIEmbeddingClient for the given key and model.
func NewOpenAIEmbeddingClient(apiKey string, model openai.EmbeddingModel) (*OpenAIEmbeddingClient, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is required for embeddings")
	}
	if model == "" {
		model = openai.SmallEmbedding3
	}
	return &OpenAIEmbeddingClient{client: openai.NewClient(apiKey), model: model}, nil
}

// GenerateEmbeddings generates embeddings for the given texts using the configured model.
func (c *OpenAIEmbeddingClient) GenerateEmbeddings(ctx context.Context, texts []string) ([]domain.Embedding, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: c.model,
	})
	if err != nil {
		return nil, err
	}

	embeddings := make([]domain.Embedding, len(resp.Data))
	for i, data := range resp.Data {
		embeddings[i] = domain.Embedding(data.Embedding)
	}
	return embeddings, nil
}
