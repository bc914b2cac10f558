package driven

import (
	"context"

	"github.com/askdocs/askdocs-cli/internal/core/domain"
)

// ScoredChunk is a similarity search hit: a stored chunk with its cosine
// similarity to the query vector, normalised to [0,1].
type ScoredChunk struct {
	Chunk domain.Chunk
	Score float64
}

// VectorStore owns the mapping between chunk identity, embedding vector
// and persisted metadata.
//
// Insertion is purely additive: the store never reorders, renumbers or
// deletes existing entries. An interrupted batch leaves the index
// consistent up to the last completed Insert call. Rebuilding means
// removing the storage location and starting over.
type VectorStore interface {
	// Insert persists the chunks with their embeddings. Every chunk must
	// carry a vector of the store's configured dimension.
	Insert(ctx context.Context, chunks []domain.Chunk) error

	// Query returns the topK stored chunks nearest to the vector,
	// ordered by descending similarity.
	Query(ctx context.Context, vector []float32, topK int) ([]ScoredChunk, error)

	// ChunkCount reports the number of stored chunks.
	ChunkCount(ctx context.Context) (int, error)

	// DocumentCount reports the number of distinct ingested documents.
	DocumentCount(ctx context.Context) (int, error)

	// HasDocument reports whether a document with this content
	// fingerprint has already been ingested.
	HasDocument(ctx context.Context, fingerprint string) (bool, error)

	// RegisterDocument records a document's identity and fingerprint.
	// Called alongside Insert so re-ingestion can be detected.
	RegisterDocument(ctx context.Context, doc domain.Document) error

	// Close releases resources.
	Close() error
}
