package driven

import (
	"context"

	"github.com/askdocs/askdocs-cli/internal/core/domain"
)

// StreamDelta is one increment of a streamed generation. After a delta
// with a non-nil Err, or after the full answer has been produced, the
// channel is closed. Cancelling the context closes the channel without
// waiting for the producer to finish.
type StreamDelta struct {
	// Text is the next fragment of generated output.
	Text string

	// Err is a terminal error. When set, Text is empty.
	Err error
}

// LLMService provides local language model generation.
//
// Implementations may include:
//   - Ollama (local inference server)
//   - llama.cpp compatible HTTP servers
type LLMService interface {
	// Generate produces a complete text completion from a prompt.
	Generate(ctx context.Context, prompt string, params domain.GenerationParams) (string, error)

	// GenerateStream produces the same final content as Generate but
	// yields it incrementally as the model emits tokens.
	GenerateStream(ctx context.Context, prompt string, params domain.GenerationParams) (<-chan StreamDelta, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight
	// request. Used at initialization before committing to a ready state.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
