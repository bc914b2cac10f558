package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/askdocs/askdocs-cli/internal/core/domain"
	"github.com/askdocs/askdocs-cli/internal/core/ports/driven"
	"github.com/askdocs/askdocs-cli/internal/logger"
)

// Retriever embeds a question and asks the vector store for the nearest
// chunks.
//
// Two call paths exist on purpose: Retrieve applies the similarity cutoff
// and feeds generation; Sources returns the raw top-k for citation panels
// and never filters.
type Retriever struct {
	embedder   driven.EmbeddingService
	store      driven.VectorStore
	cutoff     float64
	topK       int
	previewLen int
}

// NewRetriever creates a retriever with the configured cutoff, top-k and
// preview length.
func NewRetriever(embedder driven.EmbeddingService, store driven.VectorStore, settings domain.Settings) *Retriever {
	return &Retriever{
		embedder:   embedder,
		store:      store,
		cutoff:     settings.SimilarityCutoff,
		topK:       settings.TopK,
		previewLen: settings.PreviewLength,
	}
}

// Retrieve returns the top-k chunks for the question with the similarity
// cutoff applied. An empty index yields an empty result, not an error.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]domain.RetrievalResult, error) {
	results, err := r.search(ctx, question, r.topK)
	if err != nil {
		return nil, err
	}

	filtered := results[:0]
	for _, res := range results {
		if res.Score >= r.cutoff {
			filtered = append(filtered, res)
		}
	}
	logger.Debug("Retrieval: %d of %d chunks passed cutoff %.2f", len(filtered), len(results), r.cutoff)
	return filtered, nil
}

// Sources returns the raw top-k chunks for the question without the
// cutoff, for display surfaces. topK <= 0 falls back to the configured
// default.
func (r *Retriever) Sources(ctx context.Context, question string, topK int) ([]domain.RetrievalResult, error) {
	if topK <= 0 {
		topK = r.topK
	}
	return r.search(ctx, question, topK)
}

func (r *Retriever) search(ctx context.Context, question string, topK int) ([]domain.RetrievalResult, error) {
	logger.Section("Retrieval")
	logger.Debug("Question: %q, top-k: %d", question, topK)

	vector, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	hits, err := r.store.Query(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	logger.Debug("Index returned %d hits", len(hits))

	results := make([]domain.RetrievalResult, len(hits))
	for i, hit := range hits {
		results[i] = domain.RetrievalResult{
			Chunk:   hit.Chunk,
			Score:   hit.Score,
			Preview: truncatePreview(hit.Chunk.Text, r.previewLen),
		}
	}
	return results, nil
}

// truncatePreview bounds text to limit runes for display. Full text is
// always used for prompt construction.
func truncatePreview(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit]) + "..."
}
