package domain

import (
	"time"

	"github.com/dustin/go-humanize"
)

// IndexStats describes the persisted index for observability surfaces.
type IndexStats struct {
	// Status is a short human-readable state description.
	Status string `json:"status"`

	// ChunkCount is the number of stored chunks. Nil when the backing
	// store cannot report a count cheaply; display as "Unknown".
	ChunkCount *int `json:"chunk_count,omitempty"`

	// DocumentCount is the number of distinct ingested documents.
	// Nil when unknown.
	DocumentCount *int `json:"document_count,omitempty"`

	// VectorStoreType names the store backend ("sqlite", "memory").
	VectorStoreType string `json:"vector_store_type"`

	// EmbeddingModel is the model the index vectors were produced with.
	EmbeddingModel string `json:"embedding_model"`

	// ChunkSize and ChunkOverlap echo the chunking configuration.
	ChunkSize    int `json:"chunk_size"`
	ChunkOverlap int `json:"chunk_overlap"`
}

// FileInfo describes a single file discovered during directory scanning
// or upload validation.
type FileInfo struct {
	Name          string    `json:"name"`
	Path          string    `json:"path"`
	Extension     string    `json:"extension"`
	SizeBytes     int64     `json:"size"`
	SizeFormatted string    `json:"size_formatted"`
	Modified      time.Time `json:"modified"`
}

// DirectoryInfo summarises the files under a directory before ingestion.
type DirectoryInfo struct {
	Path               string         `json:"path"`
	TotalFiles         int            `json:"total_files"`
	SupportedFiles     int            `json:"supported_files"`
	FileTypes          map[string]int `json:"file_types"`
	TotalSizeBytes     int64          `json:"total_size"`
	TotalSizeFormatted string         `json:"total_size_formatted"`
	Files              []FileInfo     `json:"files"`
}

// FileValidation is the outcome of checking one file against the
// supported extension set and size cap.
type FileValidation struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Info     FileInfo `json:"info"`
}

// SystemInfo is a point-in-time snapshot of configuration and layout,
// shown by the /info chat command and the status surface.
type SystemInfo struct {
	Timestamp time.Time `json:"timestamp"`
	Settings  Settings  `json:"config"`
	DataDir   string    `json:"data_dir"`
	State     string    `json:"state"`
}

// FormatFileSize renders a byte count in human-readable form.
func FormatFileSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
