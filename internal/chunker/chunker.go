// Package chunker splits extracted document text into overlapping
// fixed-size chunks.
package chunker

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/askdocs/askdocs-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultOverlap is the default number of overlapping characters between
// consecutive chunks.
const DefaultOverlap = domain.DefaultChunkOverlap

// chunkNamespace is the UUIDv5 namespace for chunk identifiers. Chunk IDs
// are derived from document ID and position so the same logical chunk has
// the same ID across process restarts.
var chunkNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://askdocs.dev/chunk"))

// Splitter produces overlapping fixed-size chunks from document text.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Overlap must stay strictly below chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// ChunkSize returns the configured target chunk size.
func (s *Splitter) ChunkSize() int {
	return s.chunkSize
}

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split divides the document content into ordered chunks. Every chunk
// inherits the document's metadata and carries its 0-based index plus the
// total sibling count. The final chunk may be shorter than the target
// size. Empty content yields zero chunks.
func (s *Splitter) Split(doc domain.Document) []domain.Chunk {
	if doc.Content == "" {
		return nil
	}

	// Sizes are in characters, so slice runes rather than bytes.
	// Byte offsets would cut multi-byte text mid-rune at every boundary.
	content := []rune(doc.Content)
	contentLen := len(content)

	step := s.chunkSize - s.overlap
	estimated := contentLen/step + 1
	chunks := make([]domain.Chunk, 0, estimated)

	index := 0
	for start := 0; start < contentLen; start += step {
		end := start + s.chunkSize
		if end > contentLen {
			end = contentLen
		}

		chunks = append(chunks, domain.Chunk{
			ID:         ChunkID(doc.ID, index),
			DocumentID: doc.ID,
			FileName:   doc.FileName,
			FileType:   doc.FileType,
			Text:       string(content[start:end]),
			Index:      index,
		})
		index++

		if end == contentLen {
			break
		}
	}

	for i := range chunks {
		chunks[i].TotalChunks = len(chunks)
	}

	return chunks
}

// ChunkID derives the stable identifier for the chunk at the given
// position of a document.
func ChunkID(documentID string, index int) string {
	return uuid.NewSHA1(chunkNamespace, fmt.Appendf(nil, "%s:%d", documentID, index)).String()
}
