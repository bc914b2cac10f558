package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdocs/askdocs-cli/internal/chunker"
	"github.com/askdocs/askdocs-cli/internal/core/domain"
)

func testSettings() domain.Settings {
	s := domain.DefaultSettings()
	s.SupportedExtensions = []string{".txt", ".md", ".pdf"}
	s.ChunkSize = 64
	s.ChunkOverlap = 16
	s.MaxFileSizeMB = 1
	return s
}

func newTestProcessor(extractor *mockExtractor, settings domain.Settings) *DocumentProcessor {
	splitter := chunker.New(
		chunker.WithChunkSize(settings.ChunkSize),
		chunker.WithOverlap(settings.ChunkOverlap),
	)
	return NewDocumentProcessor(extractor, splitter, settings)
}

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "guide.txt", []byte("on disk"))

	content := strings.Repeat("All work and no play makes a dull day. ", 10)
	extractor := &mockExtractor{contents: map[string]string{path: content}}
	p := newTestProcessor(extractor, testSettings())

	doc, chunks, err := p.ProcessFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "guide.txt", doc.FileName)
	assert.Equal(t, ".txt", doc.FileType)
	assert.Equal(t, content, doc.Content)
	assert.NotEmpty(t, doc.ID)
	assert.NotEmpty(t, doc.Fingerprint)
	assert.False(t, doc.IngestedAt.IsZero())

	require.NotEmpty(t, chunks)
	for i, c := range chunks {
		assert.Equal(t, doc.ID, c.DocumentID)
		assert.Equal(t, i, c.Index)
		assert.Equal(t, len(chunks), c.TotalChunks)
	}
}

func TestProcessFile_StableIdentity(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "guide.txt", []byte("x"))

	extractor := &mockExtractor{contents: map[string]string{path: "same content"}}
	p := newTestProcessor(extractor, testSettings())
	ctx := context.Background()

	first, _, err := p.ProcessFile(ctx, path)
	require.NoError(t, err)
	second, _, err := p.ProcessFile(ctx, path)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same path and content must keep the same ID")
	assert.Equal(t, first.Fingerprint, second.Fingerprint)

	// Changed content gets a fresh identity.
	extractor.contents[path] = "different content"
	third, _, err := p.ProcessFile(ctx, path)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
	assert.NotEqual(t, first.Fingerprint, third.Fingerprint)
}

func TestProcessFile_Missing(t *testing.T) {
	p := newTestProcessor(&mockExtractor{}, testSettings())

	_, _, err := p.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProcessFile_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "image.png", []byte("binary"))

	p := newTestProcessor(&mockExtractor{}, testSettings())

	_, _, err := p.ProcessFile(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFile)
}

func TestProcessFile_TooLarge(t *testing.T) {
	dir := t.TempDir()
	// 1 MB cap in testSettings; write just past it.
	path := writeFile(t, dir, "big.txt", bytes.Repeat([]byte("a"), 1024*1024+1))

	p := newTestProcessor(&mockExtractor{}, testSettings())

	_, _, err := p.ProcessFile(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestProcessFile_ExtractionFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "corrupt.pdf", []byte("%PDF"))

	extractor := &mockExtractor{extractErr: errors.New("parser blew up")}
	p := newTestProcessor(extractor, testSettings())

	_, _, err := p.ProcessFile(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestProcessFile_WhitespaceOnly(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "blank.txt", []byte("x"))

	extractor := &mockExtractor{contents: map[string]string{path: "  \n\t  \n"}}
	p := newTestProcessor(extractor, testSettings())

	_, _, err := p.ProcessFile(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoContent)
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.md", []byte("fine"))

	p := newTestProcessor(&mockExtractor{}, testSettings())

	v := p.ValidateFile(path)
	assert.True(t, v.Valid)
	assert.Empty(t, v.Errors)
	assert.Equal(t, "notes.md", v.Info.Name)
	assert.Equal(t, ".md", v.Info.Extension)
}

func TestValidateFile_Problems(t *testing.T) {
	dir := t.TempDir()
	p := newTestProcessor(&mockExtractor{}, testSettings())

	t.Run("missing", func(t *testing.T) {
		v := p.ValidateFile(filepath.Join(dir, "ghost.txt"))
		assert.False(t, v.Valid)
		require.Len(t, v.Errors, 1)
		assert.Contains(t, v.Errors[0], "does not exist")
	})

	t.Run("unsupported", func(t *testing.T) {
		path := writeFile(t, dir, "image.png", []byte("binary"))
		v := p.ValidateFile(path)
		assert.False(t, v.Valid)
		require.Len(t, v.Errors, 1)
		assert.Contains(t, v.Errors[0], "unsupported file type")
	})

	t.Run("too large", func(t *testing.T) {
		path := writeFile(t, dir, "big.txt", bytes.Repeat([]byte("a"), 1024*1024+1))
		v := p.ValidateFile(path)
		assert.False(t, v.Valid)
		require.Len(t, v.Errors, 1)
		assert.Contains(t, v.Errors[0], "file too large")
	})

	t.Run("near cap warns", func(t *testing.T) {
		path := writeFile(t, dir, "almost.txt", bytes.Repeat([]byte("a"), 1024*1024*9/10))
		v := p.ValidateFile(path)
		assert.True(t, v.Valid)
		require.Len(t, v.Warnings, 1)
		assert.Contains(t, v.Warnings[0], "large file")
	})
}

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", []byte("one"))
	writeFile(t, dir, "b.md", []byte("two"))
	writeFile(t, dir, "c.png", []byte("skip"))

	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeFile(t, sub, "d.txt", []byte("three"))

	p := newTestProcessor(&mockExtractor{}, testSettings())

	info, err := p.ScanDirectory(dir)
	require.NoError(t, err)

	assert.Equal(t, 4, info.TotalFiles)
	assert.Equal(t, 3, info.SupportedFiles)
	assert.Len(t, info.Files, 3)
	assert.Equal(t, 2, info.FileTypes[".txt"])
	assert.Equal(t, 1, info.FileTypes[".md"])
	assert.Equal(t, 1, info.FileTypes[".png"])
	assert.NotEmpty(t, info.TotalSizeFormatted)
}

func TestScanDirectory_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", []byte("one"))

	p := newTestProcessor(&mockExtractor{}, testSettings())

	_, err := p.ScanDirectory(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestScanDirectory_Missing(t *testing.T) {
	p := newTestProcessor(&mockExtractor{}, testSettings())

	_, err := p.ScanDirectory(filepath.Join(t.TempDir(), "ghost"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
