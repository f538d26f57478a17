package domain

import "context"

// ArtifactRecord is a previously synthesized artifact kept for reuse.
type ArtifactRecord struct {
	ID        string            `json:"id"`
	Kind      ArtifactKind      `json:"kind"`
	Language  LanguageTag       `json:"language"`
	Content   string            `json:"content"`
	FilePath  string            `json:"file_path"`
	Artifact  string            `json:"artifact"`
	Embedding Embedding         `json:"embedding"`
	Score     float32           `json:"score,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// ArtifactStore defines the interface for a similarity-searchable artifact memory.
type ArtifactStore interface {
	// Upsert adds or updates records in the store.
	Upsert(ctx context.Context, records []ArtifactRecord) error
	// Query returns up to k records most similar to the embedding.
	Query(ctx context.Context, embedding Embedding, k int) ([]ArtifactRecord, error)
}

// ArtifactCache is an exact-match cache of synthesized artifacts.
type ArtifactCache interface {
	Get(key string) (string, bool)
	Add(key, artifact string)
}
