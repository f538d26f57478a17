package domain

import "context"

// Embedding represents a numerical vector representation of a snippet.
type Embedding []float32

// EmbeddingClient generates embeddings used to find near-duplicate snippets.
type EmbeddingClient interface {
	// GenerateEmbeddings generates one embedding per text, in order.
	GenerateEmbeddings(ctx context.Context, texts []string) ([]Embedding, error)
}
