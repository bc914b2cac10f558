package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdocs/askdocs-cli/internal/core/domain"
	"github.com/askdocs/askdocs-cli/internal/core/ports/driven"
	"github.com/askdocs/askdocs-cli/internal/core/ports/driving"
)

// stubAssistant is a minimal driving.Assistant for chat model tests.
type stubAssistant struct {
	history      *domain.ChatHistory
	lastQuestion string
}

var _ driving.Assistant = (*stubAssistant)(nil)

func newStubAssistant() *stubAssistant {
	return &stubAssistant{history: domain.NewChatHistory()}
}

func (s *stubAssistant) Initialize(context.Context) error { return nil }

func (s *stubAssistant) AddPath(context.Context, string) (*domain.IngestReport, error) {
	return &domain.IngestReport{}, nil
}

func (s *stubAssistant) Query(_ context.Context, question string) (*domain.Answer, error) {
	s.lastQuestion = question
	return &domain.Answer{Text: "stub answer", Grounded: true}, nil
}

func (s *stubAssistant) QueryStream(_ context.Context, question string) (<-chan driven.StreamDelta, []domain.RetrievalResult, error) {
	s.lastQuestion = question
	ch := make(chan driven.StreamDelta, 2)
	ch <- driven.StreamDelta{Text: "stub "}
	ch <- driven.StreamDelta{Text: "answer"}
	close(ch)
	sources := []domain.RetrievalResult{
		{Chunk: domain.Chunk{FileName: "kb.txt", Index: 0, TotalChunks: 1}, Score: 0.9},
	}
	return ch, sources, nil
}

func (s *stubAssistant) Sources(context.Context, string, int) ([]domain.RetrievalResult, error) {
	return nil, nil
}

func (s *stubAssistant) Stats(context.Context) domain.IndexStats {
	count := 5
	return domain.IndexStats{Status: "ready (indexed)", ChunkCount: &count, VectorStoreType: "memory"}
}

func (s *stubAssistant) State() domain.SystemState { return domain.StateReadyIndexed }

func (s *stubAssistant) Info() domain.SystemInfo {
	return domain.SystemInfo{Settings: domain.DefaultSettings(), DataDir: "/tmp", State: "ready (indexed)"}
}

func (s *stubAssistant) History() *domain.ChatHistory { return s.history }

func (s *stubAssistant) Close() error { return nil }

func newSizedChat(assistant driving.Assistant) *Chat {
	c := NewChat(context.Background(), assistant)
	model, _ := c.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return model.(*Chat)
}

// typeAndEnter feeds the text into the input and presses Enter.
func typeAndEnter(c *Chat, text string) (*Chat, tea.Cmd) {
	c.input.SetValue(text)
	model, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return model.(*Chat), cmd
}

// drainStream runs the start command and pumps deltas until the stream
// closes, mirroring what the bubbletea runtime would do.
func drainStream(t *testing.T, c *Chat, cmd tea.Cmd) *Chat {
	t.Helper()
	require.NotNil(t, cmd)

	msg := cmd()
	started, ok := msg.(streamStartedMsg)
	require.True(t, ok, "submit must produce a streamStartedMsg")

	model, _ := c.Update(started)
	c = model.(*Chat)

	for i := 0; i < 100; i++ {
		delta := waitForDelta(c.stream)().(streamDeltaMsg)
		model, _ := c.Update(delta)
		c = model.(*Chat)
		if delta.closed {
			return c
		}
	}
	t.Fatal("stream never closed")
	return nil
}

func TestChatQuitKeys(t *testing.T) {
	c := newSizedChat(newStubAssistant())

	_, cmd := c.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestChatStreamedExchange(t *testing.T) {
	stub := newStubAssistant()
	c := newSizedChat(stub)

	c, cmd := typeAndEnter(c, "what is in the docs?")
	assert.True(t, c.streaming)

	c = drainStream(t, c, cmd)

	assert.False(t, c.streaming)
	assert.Equal(t, "what is in the docs?", stub.lastQuestion)
	assert.Contains(t, c.transcript.String(), "stub answer")
	assert.Contains(t, c.transcript.String(), "kb.txt")

	entries := stub.history.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "what is in the docs?", entries[0].Question)
	assert.Equal(t, "stub answer", entries[0].Response)
	require.Len(t, entries[0].Sources, 1)
	assert.Equal(t, "kb.txt", entries[0].Sources[0].FileName)
}

func TestChatIgnoresEnterWhileStreaming(t *testing.T) {
	stub := newStubAssistant()
	c := newSizedChat(stub)

	c, _ = typeAndEnter(c, "first question")
	require.True(t, c.streaming)

	c, cmd := typeAndEnter(c, "second question")
	assert.Nil(t, cmd, "input must be ignored while an answer streams")
}

func TestChatHelpCommand(t *testing.T) {
	c := newSizedChat(newStubAssistant())

	c, _ = typeAndEnter(c, "/help")

	assert.False(t, c.streaming)
	assert.Contains(t, c.transcript.String(), "/stats")
	assert.Contains(t, c.transcript.String(), "/save")
}

func TestChatStatsCommand(t *testing.T) {
	c := newSizedChat(newStubAssistant())

	c, _ = typeAndEnter(c, "/stats")
	assert.Contains(t, c.transcript.String(), "Chunks: 5")
}

func TestChatClearCommand(t *testing.T) {
	stub := newStubAssistant()
	c := newSizedChat(stub)
	stub.history.Append(domain.ChatEntry{Question: "q", Response: "a"})

	c, cmd := typeAndEnter(c, "/question")
	assert.Nil(t, cmd)
	assert.Contains(t, c.transcript.String(), "Unknown command")

	c, _ = typeAndEnter(c, "/clear")
	assert.Empty(t, c.transcript.String())
	assert.Zero(t, stub.history.Len())
}

func TestChatQuitCommand(t *testing.T) {
	c := newSizedChat(newStubAssistant())

	_, cmd := typeAndEnter(c, "/quit")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
