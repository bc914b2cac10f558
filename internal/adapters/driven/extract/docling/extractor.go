// Package docling extracts text from rich document formats by calling a
// docling-serve instance over HTTP. OCR and table extraction run inside
// the service; this adapter only moves bytes.
package docling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/askdocs/askdocs-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:5001"
	DefaultTimeout = 5 * time.Minute // OCR on large scans is slow
)

// Config holds configuration for the docling extractor.
type Config struct {
	// BaseURL is the docling-serve base URL (default: http://localhost:5001).
	BaseURL string

	// Timeout is the request timeout (default: 5m).
	Timeout time.Duration
}

// Extractor converts rich documents via docling-serve.
type Extractor struct {
	client     *http.Client
	baseURL    string
	extensions map[string]struct{}
}

// convertResponse is the docling-serve response format.
type convertResponse struct {
	Document struct {
		MarkdownContent string `json:"md_content"`
		TextContent     string `json:"text_content"`
	} `json:"document"`
	Status string `json:"status"`
}

// New creates a docling extractor for .pdf, .docx and .xlsx files.
func New(cfg Config) *Extractor {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Extractor{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		extensions: map[string]struct{}{
			".pdf":  {},
			".docx": {},
			".xlsx": {},
		},
	}
}

// Supports reports whether the extension is a rich format handled by
// docling.
func (e *Extractor) Supports(ext string) bool {
	_, ok := e.extensions[ext]
	return ok
}

// Extract uploads the file and returns the converted text content.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("copy file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		e.baseURL+"/v1alpha/convert/file",
		&body,
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("docling error (status %d): failed to read response", resp.StatusCode)
		}
		return "", fmt.Errorf("docling error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var convResp convertResponse
	if err := json.NewDecoder(resp.Body).Decode(&convResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if convResp.Document.TextContent != "" {
		return convResp.Document.TextContent, nil
	}
	return convResp.Document.MarkdownContent, nil
}
