package domain

import (
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exchange(question string) ChatEntry {
	return ChatEntry{
		Question: question,
		Response: "answer to " + question,
		Sources: []SourceRef{
			{FileName: "kb.txt", ChunkIndex: 0, Score: 0.92, Preview: "preview"},
		},
	}
}

func TestHistoryAppendOrder(t *testing.T) {
	h := NewChatHistory()
	h.Append(exchange("first"))
	h.Append(exchange("second"))
	h.Append(exchange("third"))

	entries := h.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "first", entries[0].Question)
	assert.Equal(t, "second", entries[1].Question)
	assert.Equal(t, "third", entries[2].Question)
	assert.Equal(t, 3, h.Len())
}

func TestHistoryAppendFillsTimestamp(t *testing.T) {
	h := NewChatHistory()
	h.Append(ChatEntry{Question: "q", Response: "a"})

	entries := h.Entries()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestHistoryClear(t *testing.T) {
	h := NewChatHistory()
	h.Append(exchange("q"))
	h.Clear()

	assert.Zero(t, h.Len())
	assert.Empty(t, h.Entries())
}

func TestHistoryEntriesIsCopy(t *testing.T) {
	h := NewChatHistory()
	h.Append(exchange("q"))

	entries := h.Entries()
	entries[0].Question = "mutated"

	assert.Equal(t, "q", h.Entries()[0].Question)
}

func TestHistorySaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	h := NewChatHistory()
	h.Append(ChatEntry{
		Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Question:  "what is the capacity?",
		Response:  "42 units",
		Sources:   []SourceRef{{FileName: "specs.pdf", ChunkIndex: 2, Score: 0.88}},
	})

	path, err := h.SaveTo(dir)
	require.NoError(t, err)

	name := filepath.Base(path)
	assert.True(t, strings.HasPrefix(name, "chat_history_"))
	assert.True(t, strings.HasSuffix(name, ".json"))

	loaded, err := LoadChatHistory(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "what is the capacity?", loaded[0].Question)
	assert.Equal(t, "42 units", loaded[0].Response)
	require.Len(t, loaded[0].Sources, 1)
	assert.Equal(t, "specs.pdf", loaded[0].Sources[0].FileName)
	assert.Equal(t, 2, loaded[0].Sources[0].ChunkIndex)
}

func TestHistorySaveEmpty(t *testing.T) {
	dir := t.TempDir()

	path, err := NewChatHistory().SaveTo(dir)
	require.NoError(t, err)

	loaded, err := LoadChatHistory(path)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestHistoryConcurrentAppend(t *testing.T) {
	h := NewChatHistory()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Append(exchange("q"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, h.Len())
}
