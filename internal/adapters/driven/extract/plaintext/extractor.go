// Package plaintext extracts text from formats that are already plain
// text on disk.
package plaintext

import (
	"context"
	"fmt"
	"os"

	"github.com/askdocs/askdocs-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor reads plain-text files directly.
type Extractor struct {
	extensions map[string]struct{}
}

// New creates a plain text extractor for .txt, .md and .csv files.
func New() *Extractor {
	return &Extractor{
		extensions: map[string]struct{}{
			".txt": {},
			".md":  {},
			".csv": {},
		},
	}
}

// Supports reports whether the extension is a plain-text format.
func (e *Extractor) Supports(ext string) bool {
	_, ok := e.extensions[ext]
	return ok
}

// Extract returns the file content as-is.
func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
