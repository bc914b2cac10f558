// Package extract provides text extraction adapters and a composite that
// dispatches to the first extractor supporting a file's extension.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/askdocs/askdocs-cli/internal/core/ports/driven"
)

// Ensure Composite implements the interface.
var _ driven.TextExtractor = (*Composite)(nil)

// Composite routes extraction to the first registered extractor that
// supports the file's extension. Registration order is selection order.
type Composite struct {
	extractors []driven.TextExtractor
}

// NewComposite creates a composite over the given extractors.
func NewComposite(extractors ...driven.TextExtractor) *Composite {
	return &Composite{extractors: extractors}
}

// Supports reports whether any registered extractor handles the
// extension.
func (c *Composite) Supports(ext string) bool {
	for _, e := range c.extractors {
		if e.Supports(ext) {
			return true
		}
	}
	return false
}

// Extract dispatches to the first extractor supporting the file's
// extension.
func (c *Composite) Extract(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range c.extractors {
		if e.Supports(ext) {
			return e.Extract(ctx, path)
		}
	}
	return "", fmt.Errorf("no extractor for %s files", ext)
}
