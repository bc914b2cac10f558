// Package tui implements the interactive chat session as a Bubbletea
// application.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/askdocs/askdocs-cli/internal/core/domain"
	"github.com/askdocs/askdocs-cli/internal/core/ports/driven"
	"github.com/askdocs/askdocs-cli/internal/core/ports/driving"
)

const helpText = `Commands:
  /help   Show this help
  /stats  Show index statistics
  /info   Show configuration
  /save   Save the chat history to a file
  /clear  Clear the chat history
  /quit   Exit (also Ctrl-C or Esc)`

// Chat is the interactive chat model following the Elm architecture.
type Chat struct {
	assistant driving.Assistant
	ctx       context.Context
	styles    *Styles

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	// transcript is the rendered conversation so far.
	transcript strings.Builder

	// streaming state for the in-flight question.
	streaming bool
	stream    <-chan driven.StreamDelta
	question  string
	partial   strings.Builder
	sources   []domain.RetrievalResult

	width  int
	height int
	ready  bool
	err    error
}

// Ensure Chat implements tea.Model.
var _ tea.Model = (*Chat)(nil)

// streamStartedMsg carries the retrieval results and the delta channel of
// a question that just started streaming.
type streamStartedMsg struct {
	stream  <-chan driven.StreamDelta
	sources []domain.RetrievalResult
	err     error
}

// streamDeltaMsg carries one delta from the active stream. closed marks
// the end of the stream.
type streamDeltaMsg struct {
	delta  driven.StreamDelta
	closed bool
}

// NewChat creates the chat model over an initialized assistant.
func NewChat(ctx context.Context, assistant driving.Assistant) *Chat {
	input := textinput.New()
	input.Placeholder = "Ask a question (or /help)"
	input.Focus()
	input.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Chat{
		assistant: assistant,
		ctx:       ctx,
		styles:    DefaultStyles(),
		input:     input,
		spinner:   sp,
	}
}

// Init implements tea.Model.
func (c *Chat) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (c *Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		inputHeight := 3
		titleHeight := 2
		if !c.ready {
			c.viewport = viewport.New(msg.Width, msg.Height-inputHeight-titleHeight)
			c.ready = true
		} else {
			c.viewport.Width = msg.Width
			c.viewport.Height = msg.Height - inputHeight - titleHeight
		}
		c.input.Width = msg.Width - 4
		c.refreshViewport()
		return c, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return c, tea.Quit
		case tea.KeyEnter:
			if c.streaming {
				return c, nil
			}
			return c.submit()
		}

	case streamStartedMsg:
		if msg.err != nil {
			c.streaming = false
			c.appendLine(c.styles.Error.Render(fmt.Sprintf("Error: %v", msg.err)))
			return c, nil
		}
		c.stream = msg.stream
		c.sources = msg.sources
		return c, tea.Batch(c.spinner.Tick, waitForDelta(c.stream))

	case streamDeltaMsg:
		return c.consumeDelta(msg)

	case spinner.TickMsg:
		if !c.streaming {
			return c, nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	cmds = append(cmds, cmd)
	c.viewport, cmd = c.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return c, tea.Batch(cmds...)
}

// View implements tea.Model.
func (c *Chat) View() string {
	if !c.ready {
		return "Starting chat..."
	}

	title := c.styles.Title.Render("askdocs chat")
	if c.streaming {
		title += " " + c.spinner.View()
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(c.viewport.View())
	b.WriteString("\n")
	b.WriteString(c.styles.Input.Width(c.width).Render(c.input.View()))
	return b.String()
}

// submit handles the Enter key: meta-commands act locally, anything else
// starts a streamed query.
func (c *Chat) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(c.input.Value())
	if text == "" {
		return c, nil
	}
	c.input.Reset()

	if strings.HasPrefix(text, "/") {
		return c.runMetaCommand(text)
	}

	c.question = text
	c.partial.Reset()
	c.sources = nil
	c.streaming = true
	c.appendLine(c.styles.Question.Render("You: ") + text)

	return c, startQuery(c.ctx, c.assistant, text)
}

// runMetaCommand executes a /command against the local session.
func (c *Chat) runMetaCommand(command string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(command) {
	case "/help":
		c.appendLine(c.styles.Help.Render(helpText))

	case "/stats":
		stats := c.assistant.Stats(c.ctx)
		c.appendLine(c.styles.Notice.Render(formatStats(stats)))

	case "/info":
		info := c.assistant.Info()
		c.appendLine(c.styles.Notice.Render(formatInfo(info)))

	case "/save":
		path, err := c.assistant.History().SaveTo(c.assistant.Info().DataDir)
		if err != nil {
			c.appendLine(c.styles.Error.Render(fmt.Sprintf("Saving history failed: %v", err)))
		} else {
			c.appendLine(c.styles.Notice.Render("History saved to " + path))
		}

	case "/clear":
		c.assistant.History().Clear()
		c.transcript.Reset()
		c.refreshViewport()

	case "/quit", "/exit":
		return c, tea.Quit

	default:
		c.appendLine(c.styles.Error.Render("Unknown command " + command + " (try /help)"))
	}
	return c, nil
}

// consumeDelta folds one stream delta into the partial answer. When the
// stream closes, the exchange is recorded in history.
func (c *Chat) consumeDelta(msg streamDeltaMsg) (tea.Model, tea.Cmd) {
	if msg.closed {
		c.finishAnswer()
		return c, nil
	}

	if msg.delta.Err != nil {
		c.partial.WriteString(fmt.Sprintf("\nError: %v", msg.delta.Err))
		c.finishAnswer()
		return c, nil
	}

	c.partial.WriteString(msg.delta.Text)
	c.refreshViewport()
	return c, waitForDelta(c.stream)
}

// finishAnswer renders the completed answer with its sources and records
// the exchange.
func (c *Chat) finishAnswer() {
	c.streaming = false
	answer := strings.TrimSpace(c.partial.String())

	var b strings.Builder
	b.WriteString(c.styles.Answer.Render(answer))
	if len(c.sources) > 0 {
		b.WriteString("\n")
		for _, src := range c.sources {
			b.WriteString(c.styles.Source.Render(fmt.Sprintf("  [%s chunk %d/%d, score %.2f]",
				src.Chunk.FileName, src.Chunk.Index+1, src.Chunk.TotalChunks, src.Score)))
			b.WriteString("\n")
		}
	}
	c.appendLine(strings.TrimRight(b.String(), "\n"))

	refs := make([]domain.SourceRef, len(c.sources))
	for i, src := range c.sources {
		refs[i] = src.Cite()
	}
	c.assistant.History().Append(domain.ChatEntry{
		Timestamp: time.Now(),
		Question:  c.question,
		Response:  answer,
		Sources:   refs,
	})

	c.partial.Reset()
	c.stream = nil
}

// appendLine adds a block to the transcript and scrolls to the bottom.
func (c *Chat) appendLine(block string) {
	c.transcript.WriteString(block)
	c.transcript.WriteString("\n\n")
	c.refreshViewport()
}

// refreshViewport re-renders the transcript plus any in-flight partial
// answer.
func (c *Chat) refreshViewport() {
	if !c.ready {
		return
	}
	content := c.transcript.String()
	if c.streaming && c.partial.Len() > 0 {
		content += c.styles.Answer.Render(c.partial.String())
	}
	c.viewport.SetContent(content)
	c.viewport.GotoBottom()
}

// startQuery kicks off a streamed query against the assistant.
func startQuery(ctx context.Context, assistant driving.Assistant, question string) tea.Cmd {
	return func() tea.Msg {
		stream, sources, err := assistant.QueryStream(ctx, question)
		return streamStartedMsg{stream: stream, sources: sources, err: err}
	}
}

// waitForDelta reads the next delta from the stream.
func waitForDelta(stream <-chan driven.StreamDelta) tea.Cmd {
	return func() tea.Msg {
		delta, ok := <-stream
		if !ok {
			return streamDeltaMsg{closed: true}
		}
		return streamDeltaMsg{delta: delta}
	}
}

func formatStats(stats domain.IndexStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %s\n", stats.Status)
	if stats.ChunkCount != nil {
		fmt.Fprintf(&b, "Chunks: %d\n", *stats.ChunkCount)
	} else {
		b.WriteString("Chunks: Unknown\n")
	}
	if stats.DocumentCount != nil {
		fmt.Fprintf(&b, "Documents: %d\n", *stats.DocumentCount)
	} else {
		b.WriteString("Documents: Unknown\n")
	}
	fmt.Fprintf(&b, "Store: %s, embedding model: %s", stats.VectorStoreType, stats.EmbeddingModel)
	return b.String()
}

func formatInfo(info domain.SystemInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "State: %s\n", info.State)
	fmt.Fprintf(&b, "Data directory: %s\n", info.DataDir)
	fmt.Fprintf(&b, "Generation model: %s\n", info.Settings.GenerationModel)
	fmt.Fprintf(&b, "Embedding model: %s (%d dims)\n", info.Settings.EmbeddingModel, info.Settings.EmbeddingDimensions)
	fmt.Fprintf(&b, "Chunking: size %d, overlap %d\n", info.Settings.ChunkSize, info.Settings.ChunkOverlap)
	fmt.Fprintf(&b, "Retrieval: top-k %d, cutoff %.2f", info.Settings.TopK, info.Settings.SimilarityCutoff)
	return b.String()
}
