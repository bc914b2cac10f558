package driven

import "context"

// TextExtractor converts a source file into plain text.
// Parsing, OCR and table extraction are external capabilities behind this
// interface; the core never inspects file formats itself.
//
// Implementations may include:
//   - direct readers for plain-text formats (.txt, .md, .csv)
//   - a docling-serve HTTP client for rich formats (.pdf, .docx, .xlsx)
type TextExtractor interface {
	// Supports reports whether this extractor handles the given
	// lowercase file extension (including the dot).
	Supports(ext string) bool

	// Extract returns the plain text content of the file.
	// An empty string with a nil error means extraction succeeded but
	// the document has no textual content.
	Extract(ctx context.Context, path string) (string, error)
}
