// Package embeddings turns text into embedding vectors through an ordered
// chain of remote providers.
package embeddings

import "context"

// Provider is one remote embedding backend. Embed is used for retrieval
// queries at request time; EmbedBatch is used for corpus documents during
// offline preprocessing.
type Provider interface {
	// Name identifies the provider in logs and configuration
	Name() string

	// Embed generates an embedding for a single query text
	Embed(ctx context.Context, text string) ([]float64, error)

	// EmbedBatch generates embeddings for multiple document texts
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}
