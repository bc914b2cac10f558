package cli

import (
	"context"
	"time"

	"github.com/askdocs/askdocs-cli/internal/core/domain"
	"github.com/askdocs/askdocs-cli/internal/core/ports/driven"
	"github.com/askdocs/askdocs-cli/internal/core/ports/driving"
)

// mockAssistant is a canned driving.Assistant for command tests.
type mockAssistant struct {
	state   domain.SystemState
	answer  *domain.Answer
	report  *domain.IngestReport
	sources []domain.RetrievalResult
	stats   domain.IndexStats
	info    domain.SystemInfo
	history *domain.ChatHistory

	queryErr error
	addErr   error

	lastQuestion string
	lastPath     string
	closed       bool
}

var _ driving.Assistant = (*mockAssistant)(nil)

func newMockAssistant() *mockAssistant {
	chunks := 3
	docs := 1
	return &mockAssistant{
		state: domain.StateReadyIndexed,
		answer: &domain.Answer{
			Text:     "The answer is 42.",
			Grounded: true,
			Sources: []domain.RetrievalResult{
				{
					Chunk:   domain.Chunk{FileName: "specs.pdf", Index: 0, TotalChunks: 3},
					Score:   0.91,
					Preview: "the preview",
				},
			},
		},
		report: &domain.IngestReport{Outcomes: []domain.IngestOutcome{
			{FileName: "a.txt", Status: domain.IngestAdded, Chunks: 3},
			{FileName: "b.png", Status: domain.IngestSkippedUnsupported},
		}},
		stats: domain.IndexStats{
			Status:          "ready (indexed)",
			ChunkCount:      &chunks,
			DocumentCount:   &docs,
			VectorStoreType: "sqlite",
			EmbeddingModel:  "all-minilm",
			ChunkSize:       1024,
			ChunkOverlap:    200,
		},
		info: domain.SystemInfo{
			Timestamp: time.Now(),
			Settings:  domain.DefaultSettings(),
			DataDir:   "/tmp/askdocs-test",
			State:     "ready (indexed)",
		},
		history: domain.NewChatHistory(),
	}
}

func (m *mockAssistant) Initialize(context.Context) error { return nil }

func (m *mockAssistant) AddPath(_ context.Context, path string) (*domain.IngestReport, error) {
	m.lastPath = path
	if m.addErr != nil {
		return nil, m.addErr
	}
	return m.report, nil
}

func (m *mockAssistant) Query(_ context.Context, question string) (*domain.Answer, error) {
	m.lastQuestion = question
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.answer, nil
}

func (m *mockAssistant) QueryStream(ctx context.Context, question string) (<-chan driven.StreamDelta, []domain.RetrievalResult, error) {
	answer, err := m.Query(ctx, question)
	if err != nil {
		return nil, nil, err
	}
	ch := make(chan driven.StreamDelta, 1)
	ch <- driven.StreamDelta{Text: answer.Text}
	close(ch)
	return ch, answer.Sources, nil
}

func (m *mockAssistant) Sources(_ context.Context, question string, _ int) ([]domain.RetrievalResult, error) {
	m.lastQuestion = question
	return m.sources, nil
}

func (m *mockAssistant) Stats(context.Context) domain.IndexStats { return m.stats }

func (m *mockAssistant) State() domain.SystemState { return m.state }

func (m *mockAssistant) Info() domain.SystemInfo { return m.info }

func (m *mockAssistant) History() *domain.ChatHistory { return m.history }

func (m *mockAssistant) Close() error {
	m.closed = true
	return nil
}

// setupTestAssistant injects a mock assistant and isolates the config
// directory. The returned cleanup restores the package state.
func setupTestAssistant(dir string) (*mockAssistant, func()) {
	mock := newMockAssistant()
	SetAssistant(mock)
	prevConfigDir := configDir
	configDir = dir
	return mock, func() {
		SetAssistant(nil)
		configDir = prevConfigDir
		rootCmd.SetArgs(nil)
	}
}
