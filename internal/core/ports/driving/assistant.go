package driving

import (
	"context"

	"github.com/askdocs/askdocs-cli/internal/core/domain"
	"github.com/askdocs/askdocs-cli/internal/core/ports/driven"
)

// Assistant is the facade over the retrieval-augmented query pipeline.
// It owns system lifecycle state: operations invalid in the current state
// return well-defined "not ready" results instead of failing the caller.
//
// A single Assistant serialises ingestion internally; concurrent queries
// against a stable index are safe.
type Assistant interface {
	// Initialize verifies the generation and embedding capabilities and
	// opens the persisted index. On failure the system stays
	// uninitialized and the cause is returned.
	Initialize(ctx context.Context) error

	// AddPath ingests a file or directory (recursively). Per-file
	// failures are contained and reported in the returned report.
	AddPath(ctx context.Context, path string) (*domain.IngestReport, error)

	// Query answers a question grounded on retrieved context. Before the
	// system is ready or indexed, a notice answer is returned, not an
	// error.
	Query(ctx context.Context, question string) (*domain.Answer, error)

	// QueryStream is Query with the generated text delivered
	// incrementally. The returned sources are known before streaming
	// starts.
	QueryStream(ctx context.Context, question string) (<-chan driven.StreamDelta, []domain.RetrievalResult, error)

	// Sources returns the raw top-k retrieval results for display,
	// without the similarity cutoff applied.
	Sources(ctx context.Context, question string, topK int) ([]domain.RetrievalResult, error)

	// Stats reports index statistics for observability surfaces.
	Stats(ctx context.Context) domain.IndexStats

	// State returns the current lifecycle state.
	State() domain.SystemState

	// Info returns a configuration and state snapshot.
	Info() domain.SystemInfo

	// History returns the session chat history.
	History() *domain.ChatHistory

	// Close releases all capability resources.
	Close() error
}
