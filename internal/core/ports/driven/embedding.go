package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// The model and dimensionality must match what the index was built with:
// vectors from different embedding models are not comparable, so exactly
// one embedding configuration is kept per index.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (384 in the
	// reference configuration).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight
	// request. Used at initialization before committing to a ready state.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
