package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/askdocs/askdocs-cli/internal/chunker"
	"github.com/askdocs/askdocs-cli/internal/core/domain"
	"github.com/askdocs/askdocs-cli/internal/core/ports/driven"
	"github.com/askdocs/askdocs-cli/internal/core/ports/driving"
	"github.com/askdocs/askdocs-cli/internal/logger"
)

// Ensure Assistant implements the interface.
var _ driving.Assistant = (*Assistant)(nil)

// Notices returned on the answer channel for well-defined not-ready
// states. These are deliberate policy: no generation call is made with an
// empty context; the caller gets a fixed message instead of an
// ungrounded answer.
const (
	NoticeNotInitialized = "The system is not initialized. Run 'askdocs init' first."
	NoticeNoIndex        = "No documents are indexed yet. Add documents with 'askdocs add' first."
	NoticeNoRelevantDocs = "No relevant documents were found for this question. Try rephrasing it or add more documents to the index."
)

// Assistant is the orchestrator facade over the ingestion path
// (extract -> chunk -> embed -> insert) and the query path
// (retrieve -> synthesize). It owns the lifecycle state machine and the
// session chat history.
//
// Ingestion is serialised internally; queries only take read access and
// may run concurrently once the system is ready.
type Assistant struct {
	mu       sync.RWMutex // guards state
	ingestMu sync.Mutex   // serialises index mutation

	state    domain.SystemState
	settings domain.Settings
	dataDir  string

	processor   *DocumentProcessor
	retriever   *Retriever
	synthesizer *Synthesizer

	embedder driven.EmbeddingService
	llm      driven.LLMService
	store    driven.VectorStore

	history *domain.ChatHistory
}

// NewAssistant wires the pipeline components around the given
// capabilities. The assistant starts uninitialized; call Initialize
// before ingesting or querying.
func NewAssistant(
	extractor driven.TextExtractor,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	store driven.VectorStore,
	settings domain.Settings,
	dataDir string,
) *Assistant {
	splitter := chunker.New(
		chunker.WithChunkSize(settings.ChunkSize),
		chunker.WithOverlap(settings.ChunkOverlap),
	)

	return &Assistant{
		state:       domain.StateUninitialized,
		settings:    settings,
		dataDir:     dataDir,
		processor:   NewDocumentProcessor(extractor, splitter, settings),
		retriever:   NewRetriever(embedder, store, settings),
		synthesizer: NewSynthesizer(llm, settings.Generation),
		embedder:    embedder,
		llm:         llm,
		store:       store,
		history:     domain.NewChatHistory(),
	}
}

// Initialize verifies the generation and embedding capabilities and
// checks for a persisted index. On any failure the state falls back to
// uninitialized and the cause is returned.
func (a *Assistant) Initialize(ctx context.Context) error {
	a.setState(domain.StateModelLoading)
	logger.Section("Initialization")

	if err := a.llm.Ping(ctx); err != nil {
		a.setState(domain.StateUninitialized)
		return fmt.Errorf("%v: %w", err, domain.ErrModelUnavailable)
	}
	logger.Info("Generation model reachable: %s", a.llm.ModelName())

	if err := a.embedder.Ping(ctx); err != nil {
		a.setState(domain.StateUninitialized)
		return fmt.Errorf("%v: %w", err, domain.ErrEmbeddingUnavailable)
	}
	logger.Info("Embedding model reachable: %s (%d dims)", a.embedder.ModelName(), a.embedder.Dimensions())

	count, err := a.store.ChunkCount(ctx)
	if err != nil {
		// An unreadable count is not fatal; treat as no index yet.
		logger.Warn("Could not read index size: %v", err)
		count = 0
	}

	if count > 0 {
		logger.Info("Loaded existing index with %d chunks", count)
		a.setState(domain.StateReadyIndexed)
	} else {
		logger.Info("No existing index found, will create when documents are added")
		a.setState(domain.StateReady)
	}
	return nil
}

// AddPath ingests a single file or a directory tree. Files are processed
// strictly sequentially; each file's failure is contained in its outcome.
// The first successful insertion moves the system to the indexed state,
// which is monotonic for the rest of the process.
func (a *Assistant) AddPath(ctx context.Context, path string) (*domain.IngestReport, error) {
	if !a.State().CanIngest() {
		return nil, domain.ErrNotInitialized
	}

	a.ingestMu.Lock()
	defer a.ingestMu.Unlock()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}

	report := &domain.IngestReport{}

	if info.IsDir() {
		dirInfo, err := a.processor.ScanDirectory(path)
		if err != nil {
			return nil, err
		}
		logger.Info("Found %d supported files out of %d in %s",
			dirInfo.SupportedFiles, dirInfo.TotalFiles, path)

		for _, file := range dirInfo.Files {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			report.Add(a.ingestFile(ctx, file.Path))
		}
	} else {
		report.Add(a.ingestFile(ctx, path))
	}

	return report, nil
}

// ingestFile runs one file through the full ingestion path and classifies
// the outcome. Insertion is a single batch per file, so an interrupt
// between files leaves the index consistent.
func (a *Assistant) ingestFile(ctx context.Context, path string) domain.IngestOutcome {
	outcome := domain.IngestOutcome{Path: path, FileName: filepath.Base(path)}

	doc, chunks, err := a.processor.ProcessFile(ctx, path)
	if err != nil {
		outcome.Status = classifyIngestError(err)
		outcome.Detail = err.Error()
		if outcome.Status == domain.IngestFailed {
			logger.Error("Processing %s failed: %v", path, err)
		} else {
			logger.Warn("Skipping %s: %v", path, err)
		}
		return outcome
	}

	exists, err := a.store.HasDocument(ctx, doc.Fingerprint)
	if err == nil && exists {
		outcome.Status = domain.IngestSkippedDuplicate
		outcome.Detail = fmt.Sprintf("%s: %v", doc.FileName, domain.ErrAlreadyIndexed)
		logger.Info("Skipping %s: already indexed", doc.FileName)
		return outcome
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}

	vectors, err := a.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		outcome.Status = domain.IngestFailed
		outcome.Detail = fmt.Sprintf("embedding: %v", err)
		logger.Error("Embedding %s failed: %v", doc.FileName, err)
		return outcome
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}

	if err := a.store.Insert(ctx, chunks); err != nil {
		outcome.Status = domain.IngestFailed
		outcome.Detail = fmt.Sprintf("index insertion: %v", err)
		logger.Error("Inserting %s failed: %v", doc.FileName, err)
		return outcome
	}
	if err := a.store.RegisterDocument(ctx, *doc); err != nil {
		logger.Warn("Recording document fingerprint for %s failed: %v", doc.FileName, err)
	}

	a.markIndexed()

	outcome.Status = domain.IngestAdded
	outcome.Chunks = len(chunks)
	logger.Info("Added %s (%d chunks)", doc.FileName, len(chunks))
	return outcome
}

// Query answers a question grounded on retrieved context. Not-ready
// states and empty retrievals yield fixed notice answers; a failed
// generation call yields a clearly marked error string. None of these
// surface as errors to the caller: a single failed question must not end
// an interactive session.
func (a *Assistant) Query(ctx context.Context, question string) (*domain.Answer, error) {
	state := a.State()
	switch {
	case !state.CanIngest():
		return &domain.Answer{Text: NoticeNotInitialized}, nil
	case !state.CanQuery():
		return &domain.Answer{Text: NoticeNoIndex}, nil
	}

	results, err := a.retriever.Retrieve(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	answer := &domain.Answer{Sources: results}
	if len(results) == 0 {
		answer.Text = NoticeNoRelevantDocs
	} else {
		text, err := a.synthesizer.Answer(ctx, question, results)
		if err != nil {
			answer.Text = fmt.Sprintf("Error processing query: %v", err)
		} else {
			answer.Text = text
			answer.Grounded = true
		}
	}

	a.recordExchange(question, answer)
	return answer, nil
}

// QueryStream answers a question with the generated text delivered
// incrementally. The retrieved sources are returned up front; the caller
// owns recording the exchange in history once the stream is consumed.
func (a *Assistant) QueryStream(ctx context.Context, question string) (<-chan driven.StreamDelta, []domain.RetrievalResult, error) {
	state := a.State()
	switch {
	case !state.CanIngest():
		return noticeStream(NoticeNotInitialized), nil, nil
	case !state.CanQuery():
		return noticeStream(NoticeNoIndex), nil, nil
	}

	results, err := a.retriever.Retrieve(ctx, question)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve: %w", err)
	}

	if len(results) == 0 {
		return noticeStream(NoticeNoRelevantDocs), nil, nil
	}

	stream, err := a.synthesizer.AnswerStream(ctx, question, results)
	if err != nil {
		return noticeStream(fmt.Sprintf("Error processing query: %v", err)), results, nil
	}
	return stream, results, nil
}

// Sources returns the raw top-k retrieval results without the cutoff.
// Before initialization or with no index, an empty result is returned.
func (a *Assistant) Sources(ctx context.Context, question string, topK int) ([]domain.RetrievalResult, error) {
	if !a.State().CanQuery() {
		return nil, nil
	}
	return a.retriever.Sources(ctx, question, topK)
}

// Stats reports index statistics. Counts the store cannot provide are
// left nil and displayed as unknown.
func (a *Assistant) Stats(ctx context.Context) domain.IndexStats {
	stats := domain.IndexStats{
		Status:          a.State().String(),
		VectorStoreType: a.settings.VectorStore,
		EmbeddingModel:  a.settings.EmbeddingModel,
		ChunkSize:       a.settings.ChunkSize,
		ChunkOverlap:    a.settings.ChunkOverlap,
	}

	if chunks, err := a.store.ChunkCount(ctx); err == nil {
		stats.ChunkCount = &chunks
	}
	if docs, err := a.store.DocumentCount(ctx); err == nil {
		stats.DocumentCount = &docs
	}
	return stats
}

// State returns the current lifecycle state.
func (a *Assistant) State() domain.SystemState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Info returns a configuration and state snapshot.
func (a *Assistant) Info() domain.SystemInfo {
	return domain.SystemInfo{
		Timestamp: time.Now(),
		Settings:  a.settings,
		DataDir:   a.dataDir,
		State:     a.State().String(),
	}
}

// History returns the session chat history.
func (a *Assistant) History() *domain.ChatHistory {
	return a.history
}

// Close releases all capability resources.
func (a *Assistant) Close() error {
	var errs []error
	if err := a.llm.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.embedder.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *Assistant) setState(s domain.SystemState) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = s
}

// markIndexed moves Ready to ReadyIndexed. The transition is monotonic:
// once indexed, the state never reverts within the process.
func (a *Assistant) markIndexed() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == domain.StateReady {
		a.state = domain.StateReadyIndexed
	}
}

func (a *Assistant) recordExchange(question string, answer *domain.Answer) {
	sources := make([]domain.SourceRef, len(answer.Sources))
	for i, res := range answer.Sources {
		sources[i] = res.Cite()
	}
	a.history.Append(domain.ChatEntry{
		Timestamp: time.Now(),
		Question:  question,
		Response:  answer.Text,
		Sources:   sources,
	})
}

// noticeStream wraps a fixed notice in a single-delta stream so callers
// consume ready-state notices and real answers the same way.
func noticeStream(text string) <-chan driven.StreamDelta {
	ch := make(chan driven.StreamDelta, 1)
	ch <- driven.StreamDelta{Text: text}
	close(ch)
	return ch
}

// classifyIngestError maps processor errors to per-file outcomes.
func classifyIngestError(err error) domain.IngestStatus {
	switch {
	case errors.Is(err, domain.ErrUnsupportedFile):
		return domain.IngestSkippedUnsupported
	case errors.Is(err, domain.ErrFileTooLarge):
		return domain.IngestSkippedTooLarge
	case errors.Is(err, domain.ErrNoContent):
		return domain.IngestSkippedEmpty
	default:
		return domain.IngestFailed
	}
}
