package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfig indicates missing or invalid configuration at
	// startup. Fatal to initialization; reported with actionable detail.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrModelUnavailable indicates the generation model failed to load.
	// Initialization fails cleanly and the system stays uninitialized.
	ErrModelUnavailable = errors.New("generation model unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service failed to
	// load or is unreachable. Retrieval is impossible without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrUnsupportedFile indicates a file extension outside the supported
	// set. Per-item failure; a batch continues past it.
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrFileTooLarge indicates a file over the configured size cap.
	// Per-item failure; the file is rejected before extraction.
	ErrFileTooLarge = errors.New("file exceeds size limit")

	// ErrExtractionFailed indicates per-document text extraction failed.
	// The document contributes zero chunks; the batch continues.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrNoContent indicates extraction succeeded but yielded empty text.
	// A warning outcome, distinct from ErrExtractionFailed.
	ErrNoContent = errors.New("no content extracted")

	// ErrNotInitialized indicates an operation was attempted before the
	// system reached a ready state.
	ErrNotInitialized = errors.New("system not initialized")

	// ErrNoIndex indicates a query was issued with no documents indexed.
	// Callers surface a "not ready" response, never a crash.
	ErrNoIndex = errors.New("no documents indexed")

	// ErrGenerationFailed indicates the generation call itself failed.
	// Swallowed at the answer boundary so one failed question does not
	// end an interactive session.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrAlreadyIndexed indicates a document with identical content has
	// already been ingested; the file is skipped, not re-chunked.
	ErrAlreadyIndexed = errors.New("document already indexed")
)
