package domain

import (
	"fmt"
	"strings"
)

// Default configuration values, matching the reference deployment.
const (
	DefaultChunkSize        = 1024
	DefaultChunkOverlap     = 200
	DefaultSimilarityCutoff = 0.7
	DefaultTopK             = 5
	DefaultMaxFileSizeMB    = 50
	DefaultPreviewLength    = 500
	DefaultEmbeddingModel   = "all-minilm"
	DefaultEmbeddingDims    = 384
)

// GenerationParams holds fixed generation configuration, overridable
// per call.
type GenerationParams struct {
	Temperature   float64 `toml:"temperature"`
	TopP          float64 `toml:"top_p"`
	TopK          int     `toml:"top_k"`
	RepeatPenalty float64 `toml:"repeat_penalty"`
	MaxTokens     int     `toml:"max_tokens"`
	ContextWindow int     `toml:"context_window"`
}

// Settings is the full configuration surface of the assistant.
type Settings struct {
	// EmbeddingModel identifies the embedding model. One embedding model
	// per index: mixing models makes similarity scores meaningless.
	EmbeddingModel string `toml:"embedding_model"`

	// EmbeddingDimensions is the vector size produced by the model.
	EmbeddingDimensions int `toml:"embedding_dimensions"`

	// GenerationModel identifies the local generation model.
	GenerationModel string `toml:"generation_model"`

	// VectorStore selects the store backend: "sqlite" or "memory".
	VectorStore string `toml:"vector_store"`

	// DataDir is the root directory for the persisted index, chat history
	// files and batch output. Empty means ~/.askdocs.
	DataDir string `toml:"data_dir"`

	// ChunkSize is the target chunk length in characters.
	ChunkSize int `toml:"chunk_size"`

	// ChunkOverlap is the overlap between consecutive chunks.
	ChunkOverlap int `toml:"chunk_overlap"`

	// SimilarityCutoff drops retrieved chunks scoring below it from the
	// generation path. Raw top-k display paths ignore it.
	SimilarityCutoff float64 `toml:"similarity_cutoff"`

	// TopK is the number of nearest chunks retrieved per query.
	TopK int `toml:"top_k"`

	// MaxFileSizeMB rejects larger files before extraction.
	MaxFileSizeMB int `toml:"max_file_size_mb"`

	// SupportedExtensions is the accepted file extension set.
	SupportedExtensions []string `toml:"supported_extensions"`

	// PreviewLength bounds displayed chunk text.
	PreviewLength int `toml:"preview_length"`

	// Generation holds the model sampling parameters.
	Generation GenerationParams `toml:"generation"`
}

// DefaultSettings returns the reference configuration.
func DefaultSettings() Settings {
	return Settings{
		EmbeddingModel:      DefaultEmbeddingModel,
		EmbeddingDimensions: DefaultEmbeddingDims,
		GenerationModel:     "llama3.2",
		VectorStore:         "sqlite",
		ChunkSize:           DefaultChunkSize,
		ChunkOverlap:        DefaultChunkOverlap,
		SimilarityCutoff:    DefaultSimilarityCutoff,
		TopK:                DefaultTopK,
		MaxFileSizeMB:       DefaultMaxFileSizeMB,
		SupportedExtensions: []string{".pdf", ".docx", ".txt", ".md", ".csv", ".xlsx"},
		PreviewLength:       DefaultPreviewLength,
		Generation: GenerationParams{
			Temperature:   0.1,
			TopP:          0.9,
			TopK:          40,
			RepeatPenalty: 1.1,
			MaxTokens:     2048,
			ContextWindow: 4096,
		},
	}
}

// Validate checks the settings for internal consistency.
// All violations are reported together, wrapped in ErrInvalidConfig.
func (s Settings) Validate() error {
	var problems []string

	if s.ChunkSize <= 0 {
		problems = append(problems, fmt.Sprintf("chunk_size must be positive, got %d", s.ChunkSize))
	}
	if s.ChunkOverlap < 0 {
		problems = append(problems, fmt.Sprintf("chunk_overlap must not be negative, got %d", s.ChunkOverlap))
	}
	if s.ChunkOverlap >= s.ChunkSize && s.ChunkSize > 0 {
		problems = append(problems, fmt.Sprintf("chunk_overlap (%d) must be smaller than chunk_size (%d)", s.ChunkOverlap, s.ChunkSize))
	}
	if s.SimilarityCutoff < 0 || s.SimilarityCutoff > 1 {
		problems = append(problems, fmt.Sprintf("similarity_cutoff must be within [0,1], got %g", s.SimilarityCutoff))
	}
	if s.TopK <= 0 {
		problems = append(problems, fmt.Sprintf("top_k must be positive, got %d", s.TopK))
	}
	if s.MaxFileSizeMB <= 0 {
		problems = append(problems, fmt.Sprintf("max_file_size_mb must be positive, got %d", s.MaxFileSizeMB))
	}
	if s.EmbeddingDimensions <= 0 {
		problems = append(problems, fmt.Sprintf("embedding_dimensions must be positive, got %d", s.EmbeddingDimensions))
	}
	if s.VectorStore != "sqlite" && s.VectorStore != "memory" {
		problems = append(problems, fmt.Sprintf("vector_store must be %q or %q, got %q", "sqlite", "memory", s.VectorStore))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// SupportsExtension reports whether the extension (including the dot,
// any case) is in the supported set.
func (s Settings) SupportsExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range s.SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// MaxFileSizeBytes returns the size cap in bytes.
func (s Settings) MaxFileSizeBytes() int64 {
	return int64(s.MaxFileSizeMB) * 1024 * 1024
}
