// Package memory provides an in-memory vector store for tests and
// ephemeral runs. Nothing survives process exit.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/askdocs/askdocs-cli/internal/adapters/driven/vectorstore"
	"github.com/askdocs/askdocs-cli/internal/core/domain"
	"github.com/askdocs/askdocs-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store keeps chunks and fingerprints in process memory. Insertion is
// append-only; existing entries are never reordered.
type Store struct {
	mu           sync.RWMutex
	dimensions   int
	chunks       []domain.Chunk
	fingerprints map[string]struct{}
	documents    map[string]struct{}
}

// NewStore creates an empty in-memory store for vectors of the given
// dimension.
func NewStore(dimensions int) *Store {
	return &Store{
		dimensions:   dimensions,
		fingerprints: make(map[string]struct{}),
		documents:    make(map[string]struct{}),
	}
}

// Insert appends the chunks. Every chunk must carry a vector of the
// configured dimension.
func (s *Store) Insert(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range chunks {
		if len(chunk.Embedding) != s.dimensions {
			return fmt.Errorf("chunk %s: embedding has %d dimensions, store expects %d",
				chunk.ID, len(chunk.Embedding), s.dimensions)
		}
	}
	s.chunks = append(s.chunks, chunks...)
	return nil
}

// Query returns the topK chunks nearest to the vector by cosine
// similarity, ordered by descending score.
func (s *Store) Query(_ context.Context, vector []float32, topK int) ([]driven.ScoredChunk, error) {
	if len(vector) != s.dimensions {
		return nil, fmt.Errorf("query vector has %d dimensions, store expects %d", len(vector), s.dimensions)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]driven.ScoredChunk, 0, len(s.chunks))
	for _, chunk := range s.chunks {
		hits = append(hits, driven.ScoredChunk{
			Chunk: chunk,
			Score: vectorstore.CosineSimilarity(vector, chunk.Embedding),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	if topK > 0 && topK < len(hits) {
		hits = hits[:topK]
	}
	return hits, nil
}

// ChunkCount reports the number of stored chunks.
func (s *Store) ChunkCount(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// DocumentCount reports the number of registered documents.
func (s *Store) DocumentCount(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents), nil
}

// HasDocument reports whether a document with this fingerprint has been
// registered.
func (s *Store) HasDocument(_ context.Context, fingerprint string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.fingerprints[fingerprint]
	return ok, nil
}

// RegisterDocument records the document identity and fingerprint.
func (s *Store) RegisterDocument(_ context.Context, doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fingerprints[doc.Fingerprint] = struct{}{}
	s.documents[doc.ID] = struct{}{}
	return nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}
