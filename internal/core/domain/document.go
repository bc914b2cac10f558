package domain

import "time"

// Document represents a single source file submitted for ingestion.
// Documents themselves are not persisted; only their derived chunks are.
// The fingerprint identifies the logical content so that re-ingesting an
// unchanged file can be detected and skipped.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Path is the original file location on disk.
	Path string

	// FileName is the base name of the source file.
	FileName string

	// FileType is the lowercase file extension (e.g. ".pdf").
	FileType string

	// SizeBytes is the file size at ingestion time.
	SizeBytes int64

	// Content is the full extracted text before chunking.
	Content string

	// Fingerprint is the SHA-256 hex digest of the file content.
	Fingerprint string

	// IngestedAt is when the document was processed.
	IngestedAt time.Time
}

// Chunk is the atomic retrievable unit: a bounded slice of a document's
// extracted text together with its embedding vector. Chunks are immutable
// once created; updates happen by re-ingesting the parent document.
type Chunk struct {
	// ID is the unique identifier, stable across restarts for the same
	// logical chunk (derived from document ID and position).
	ID string

	// DocumentID links to the parent document.
	DocumentID string

	// FileName is inherited from the parent document.
	FileName string

	// FileType is inherited from the parent document.
	FileType string

	// Text is the chunk content.
	Text string

	// Index is the 0-based position within the parent document.
	Index int

	// TotalChunks is the number of sibling chunks in the parent document.
	TotalChunks int

	// Embedding is the vector representation used for similarity search.
	Embedding []float32
}

// RetrievalResult is a chunk matched against a query, with its similarity
// score. Ephemeral: produced per query and discarded after use except when
// copied into chat history.
type RetrievalResult struct {
	// Chunk is the matched chunk with its full text.
	Chunk Chunk

	// Score is the similarity score on a [0,1] scale, higher is better.
	Score float64

	// Preview is the chunk text truncated to a bounded display length.
	// Prompts always use the full text; presentation surfaces use this.
	Preview string
}

// SourceRef is the citation form of a retrieval result used in chat
// history and batch output.
type SourceRef struct {
	FileName   string  `json:"file_name"`
	ChunkIndex int     `json:"chunk_index"`
	Score      float64 `json:"score"`
	Preview    string  `json:"preview,omitempty"`
}

// Cite converts a retrieval result into its citation form.
func (r RetrievalResult) Cite() SourceRef {
	return SourceRef{
		FileName:   r.Chunk.FileName,
		ChunkIndex: r.Chunk.Index,
		Score:      r.Score,
		Preview:    r.Preview,
	}
}
