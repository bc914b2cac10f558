package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/askdocs/askdocs-cli/internal/chunker"
	"github.com/askdocs/askdocs-cli/internal/core/domain"
	"github.com/askdocs/askdocs-cli/internal/core/ports/driven"
	"github.com/askdocs/askdocs-cli/internal/logger"
)

// DocumentProcessor turns source files into chunked documents. It owns
// validation against the supported extension set and size cap; text
// extraction itself is delegated to the TextExtractor capability.
type DocumentProcessor struct {
	extractor driven.TextExtractor
	splitter  *chunker.Splitter
	settings  domain.Settings
}

// NewDocumentProcessor creates a document processor.
func NewDocumentProcessor(extractor driven.TextExtractor, splitter *chunker.Splitter, settings domain.Settings) *DocumentProcessor {
	return &DocumentProcessor{
		extractor: extractor,
		splitter:  splitter,
		settings:  settings,
	}
}

// ValidateFile checks a single file against the supported extension set
// and the size cap. Large-but-accepted files get a warning.
func (p *DocumentProcessor) ValidateFile(path string) domain.FileValidation {
	var v domain.FileValidation

	info, err := os.Stat(path)
	if err != nil {
		v.Errors = append(v.Errors, fmt.Sprintf("file does not exist: %s", path))
		return v
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !p.settings.SupportsExtension(ext) {
		v.Errors = append(v.Errors, fmt.Sprintf("unsupported file type: %s", ext))
	}

	cap := p.settings.MaxFileSizeBytes()
	switch {
	case info.Size() > cap:
		v.Errors = append(v.Errors, fmt.Sprintf("file too large: %s (max: %d MB)",
			domain.FormatFileSize(info.Size()), p.settings.MaxFileSizeMB))
	case info.Size() > cap*8/10:
		v.Warnings = append(v.Warnings, fmt.Sprintf("large file: %s", domain.FormatFileSize(info.Size())))
	}

	v.Info = domain.FileInfo{
		Name:          filepath.Base(path),
		Path:          path,
		Extension:     ext,
		SizeBytes:     info.Size(),
		SizeFormatted: domain.FormatFileSize(info.Size()),
		Modified:      info.ModTime(),
	}
	v.Valid = len(v.Errors) == 0
	return v
}

// ScanDirectory walks a directory tree and summarises its files: total
// count, supported count, per-extension breakdown and details for the
// supported files.
func (p *DocumentProcessor) ScanDirectory(dir string) (*domain.DirectoryInfo, error) {
	root, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("directory does not exist: %s: %w", dir, domain.ErrNotFound)
	}
	if !root.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	info := &domain.DirectoryInfo{
		Path:      dir,
		FileTypes: make(map[string]int),
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Skipping unreadable path %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return nil
		}

		info.TotalFiles++
		info.TotalSizeBytes += fi.Size()

		ext := strings.ToLower(filepath.Ext(path))
		info.FileTypes[ext]++

		if p.settings.SupportsExtension(ext) {
			info.SupportedFiles++
			info.Files = append(info.Files, domain.FileInfo{
				Name:          d.Name(),
				Path:          path,
				Extension:     ext,
				SizeBytes:     fi.Size(),
				SizeFormatted: domain.FormatFileSize(fi.Size()),
				Modified:      fi.ModTime(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning directory: %w", err)
	}

	info.TotalSizeFormatted = domain.FormatFileSize(info.TotalSizeBytes)
	return info, nil
}

// ProcessFile validates, extracts and chunks a single file.
//
// Failures are reported through the domain error taxonomy so callers can
// classify them per file: ErrUnsupportedFile, ErrFileTooLarge,
// ErrExtractionFailed and ErrNoContent all describe this one file and
// never abort a surrounding batch.
func (p *DocumentProcessor) ProcessFile(ctx context.Context, path string) (*domain.Document, []domain.Chunk, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !p.settings.SupportsExtension(ext) {
		return nil, nil, fmt.Errorf("%s: %w", ext, domain.ErrUnsupportedFile)
	}

	if info.Size() > p.settings.MaxFileSizeBytes() {
		return nil, nil, fmt.Errorf("%s is %s (cap %d MB): %w",
			filepath.Base(path), domain.FormatFileSize(info.Size()),
			p.settings.MaxFileSizeMB, domain.ErrFileTooLarge)
	}

	logger.Debug("Extracting text from %s", path)
	text, err := p.extractor.Extract(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %v: %w", path, err, domain.ErrExtractionFailed)
	}

	if strings.TrimSpace(text) == "" {
		return nil, nil, fmt.Errorf("%s: %w", path, domain.ErrNoContent)
	}

	fingerprint := contentFingerprint(text)
	doc := &domain.Document{
		ID:          documentID(path, fingerprint),
		Path:        path,
		FileName:    filepath.Base(path),
		FileType:    ext,
		SizeBytes:   info.Size(),
		Content:     text,
		Fingerprint: fingerprint,
		IngestedAt:  time.Now(),
	}

	chunks := p.splitter.Split(*doc)
	logger.Debug("Split %s into %d chunks", doc.FileName, len(chunks))

	return doc, chunks, nil
}

// documentID derives a stable identifier from path and content so the
// same logical document keeps its chunk IDs across restarts, while
// re-ingesting a changed file produces fresh ones.
func documentID(path, fingerprint string) string {
	sum := sha256.Sum256([]byte(path + "\n" + fingerprint))
	return hex.EncodeToString(sum[:8])
}

// contentFingerprint hashes extracted text for re-ingestion detection.
func contentFingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
