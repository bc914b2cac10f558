package services

import (
	"context"
	"errors"
	"strings"

	"github.com/askdocs/askdocs-cli/internal/core/domain"
	"github.com/askdocs/askdocs-cli/internal/core/ports/driven"
)

// mockExtractor serves canned content keyed by path.
type mockExtractor struct {
	contents   map[string]string
	extractErr error
}

func (m *mockExtractor) Supports(ext string) bool {
	return ext == ".txt" || ext == ".md" || ext == ".pdf"
}

func (m *mockExtractor) Extract(_ context.Context, path string) (string, error) {
	if m.extractErr != nil {
		return "", m.extractErr
	}
	content, ok := m.contents[path]
	if !ok {
		return "", errors.New("no content registered for " + path)
	}
	return content, nil
}

// mockEmbedder maps texts to fixed 3-dimensional vectors by keyword so
// tests control similarity. Unknown texts embed to a constant vector.
type mockEmbedder struct {
	vectors  map[string][]float32
	embedErr error
	pingErr  error
	closed   bool
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{vectors: make(map[string][]float32)}
}

func (m *mockEmbedder) vectorFor(text string) []float32 {
	for key, vec := range m.vectors {
		if strings.Contains(text, key) {
			return vec
		}
	}
	return []float32{0, 0, 1}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vectorFor(text), nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int { return 3 }

func (m *mockEmbedder) ModelName() string { return "mock-embed" }

func (m *mockEmbedder) Ping(context.Context) error { return m.pingErr }

func (m *mockEmbedder) Close() error {
	m.closed = true
	return nil
}

// mockLLM returns a fixed answer, optionally failing, and records the
// last prompt it saw.
type mockLLM struct {
	answer     string
	genererr   error
	pingErr    error
	lastPrompt string
	closed     bool
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ domain.GenerationParams) (string, error) {
	m.lastPrompt = prompt
	if m.genererr != nil {
		return "", m.genererr
	}
	return m.answer, nil
}

func (m *mockLLM) GenerateStream(ctx context.Context, prompt string, _ domain.GenerationParams) (<-chan driven.StreamDelta, error) {
	m.lastPrompt = prompt
	if m.genererr != nil {
		return nil, m.genererr
	}

	ch := make(chan driven.StreamDelta)
	go func() {
		defer close(ch)
		for _, word := range strings.SplitAfter(m.answer, " ") {
			select {
			case ch <- driven.StreamDelta{Text: word}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

func (m *mockLLM) Ping(context.Context) error { return m.pingErr }

func (m *mockLLM) Close() error {
	m.closed = true
	return nil
}
