package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/askdocs/askdocs-cli/internal/core/domain"
	"github.com/askdocs/askdocs-cli/internal/core/ports/driven"
	"github.com/askdocs/askdocs-cli/internal/logger"
)

// Synthesizer builds grounded prompts from retrieved chunks and calls the
// generation capability, in compact (single call) or streaming mode.
type Synthesizer struct {
	llm    driven.LLMService
	params domain.GenerationParams
}

// NewSynthesizer creates a synthesizer with the configured generation
// parameters as the per-call default.
func NewSynthesizer(llm driven.LLMService, params domain.GenerationParams) *Synthesizer {
	return &Synthesizer{llm: llm, params: params}
}

// BuildPrompt embeds the retrieved chunk texts as context ahead of the
// question. The instruction to admit insufficient context is part of the
// grounding contract: the model must decline rather than fabricate when
// the context does not answer the question.
func BuildPrompt(question string, results []domain.RetrievalResult) string {
	if len(results) == 0 {
		return fmt.Sprintf("Question: %s\n\nAnswer:", question)
	}

	var context strings.Builder
	for i, res := range results {
		if i > 0 {
			context.WriteString("\n\n")
		}
		context.WriteString(res.Chunk.Text)
	}

	return fmt.Sprintf(`Based on the following context, please answer the question. If the context doesn't contain enough information to answer the question, please say so.

Context:
%s

Question: %s

Answer:`, context.String(), question)
}

// Answer performs a single compact generation call over the prompt built
// from the question and the retrieved chunks.
func (s *Synthesizer) Answer(ctx context.Context, question string, results []domain.RetrievalResult) (string, error) {
	prompt := BuildPrompt(question, results)
	logger.Section("Synthesis")
	logger.Debug("Prompt length: %d chars, context chunks: %d", len(prompt), len(results))

	text, err := s.llm.Generate(ctx, prompt, s.params)
	if err != nil {
		return "", fmt.Errorf("%v: %w", err, domain.ErrGenerationFailed)
	}
	return cleanAnswer(text), nil
}

// AnswerStream is Answer with the output delivered incrementally. The
// concatenation of all deltas equals the non-streaming answer text.
func (s *Synthesizer) AnswerStream(ctx context.Context, question string, results []domain.RetrievalResult) (<-chan driven.StreamDelta, error) {
	prompt := BuildPrompt(question, results)
	logger.Section("Synthesis (streaming)")
	logger.Debug("Prompt length: %d chars, context chunks: %d", len(prompt), len(results))

	stream, err := s.llm.GenerateStream(ctx, prompt, s.params)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrGenerationFailed)
	}
	return stream, nil
}

// cleanAnswer strips boilerplate prefixes some models echo back.
func cleanAnswer(text string) string {
	cleaned := strings.TrimSpace(text)
	for _, prefix := range []string{"Answer:", "Response:"} {
		if strings.HasPrefix(cleaned, prefix) {
			cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, prefix))
		}
	}
	return cleaned
}
