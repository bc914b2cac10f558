package domain

// IngestStatus classifies the outcome of ingesting one file.
type IngestStatus string

const (
	// IngestAdded means the file was chunked, embedded and inserted.
	IngestAdded IngestStatus = "added"

	// IngestSkippedUnsupported means the extension is outside the
	// supported set.
	IngestSkippedUnsupported IngestStatus = "unsupported"

	// IngestSkippedTooLarge means the file exceeds the size cap.
	IngestSkippedTooLarge IngestStatus = "too large"

	// IngestSkippedEmpty means extraction succeeded but produced no text.
	IngestSkippedEmpty IngestStatus = "no content"

	// IngestSkippedDuplicate means identical content was already indexed.
	IngestSkippedDuplicate IngestStatus = "already indexed"

	// IngestFailed means extraction or insertion failed for this file.
	IngestFailed IngestStatus = "failed"
)

// IngestOutcome records what happened to a single file during ingestion.
type IngestOutcome struct {
	Path     string       `json:"path"`
	FileName string       `json:"file_name"`
	Status   IngestStatus `json:"status"`
	Chunks   int          `json:"chunks"`
	Detail   string       `json:"detail,omitempty"`
}

// IngestReport aggregates per-file outcomes of one ingestion request.
// Failures are contained per file; a report with failures is still a
// successful batch.
type IngestReport struct {
	Outcomes []IngestOutcome `json:"outcomes"`
}

// Add appends an outcome to the report.
func (r *IngestReport) Add(outcome IngestOutcome) {
	r.Outcomes = append(r.Outcomes, outcome)
}

// Added counts files that made it into the index.
func (r *IngestReport) Added() int {
	return r.count(IngestAdded)
}

// Failed counts files that errored.
func (r *IngestReport) Failed() int {
	return r.count(IngestFailed)
}

// Skipped counts files rejected or empty, excluding hard failures.
func (r *IngestReport) Skipped() int {
	return len(r.Outcomes) - r.Added() - r.Failed()
}

// TotalChunks sums the chunks inserted across all files.
func (r *IngestReport) TotalChunks() int {
	total := 0
	for _, o := range r.Outcomes {
		total += o.Chunks
	}
	return total
}

func (r *IngestReport) count(status IngestStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Answer is the final product of the query path: generated text plus the
// retrieval results it was grounded on.
type Answer struct {
	// Text is the generated answer, or a fixed notice when the system is
	// not ready or nothing relevant was retrieved.
	Text string

	// Sources are the retrieval results that passed the similarity
	// cutoff and were placed in the prompt context.
	Sources []RetrievalResult

	// Grounded reports whether a generation call with context was made.
	// False for not-ready and no-relevant-documents notices.
	Grounded bool
}
