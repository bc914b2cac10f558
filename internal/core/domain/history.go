package domain

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ChatEntry is one question/answer exchange together with the sources the
// answer was grounded on.
type ChatEntry struct {
	Timestamp time.Time   `json:"timestamp"`
	Question  string      `json:"question"`
	Response  string      `json:"response"`
	Sources   []SourceRef `json:"sources"`
}

// ChatHistory is an in-memory ordered sequence of chat entries, owned by
// one session. Append order is strict; entries live for the lifetime of
// the process unless cleared, and are written to disk only on an explicit
// save request.
type ChatHistory struct {
	mu      sync.Mutex
	entries []ChatEntry
}

// NewChatHistory creates an empty chat history.
func NewChatHistory() *ChatHistory {
	return &ChatHistory{}
}

// Append records an exchange at the end of the history.
func (h *ChatHistory) Append(entry ChatEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	h.entries = append(h.entries, entry)
}

// Entries returns a copy of the recorded exchanges in append order.
func (h *ChatHistory) Entries() []ChatEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]ChatEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of recorded exchanges.
func (h *ChatHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Clear discards all recorded exchanges.
func (h *ChatHistory) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}

// SaveTo writes the history as a JSON array to a timestamped file in dir
// and returns the full path. One file per save action.
func (h *ChatHistory) SaveTo(dir string) (string, error) {
	h.mu.Lock()
	entries := make([]ChatEntry, len(h.entries))
	copy(entries, h.entries)
	h.mu.Unlock()

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating history directory: %w", err)
	}

	name := fmt.Sprintf("chat_history_%s.json", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding chat history: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("writing chat history: %w", err)
	}
	return path, nil
}

// LoadChatHistory reads a previously saved history file.
func LoadChatHistory(path string) ([]ChatEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading chat history: %w", err)
	}
	var entries []ChatEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding chat history: %w", err)
	}
	return entries, nil
}
