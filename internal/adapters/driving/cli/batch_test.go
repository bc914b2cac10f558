package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadQuestions_PlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.txt")
	content := "What is the capacity?\n\n# a comment\nWho approved the design?\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	questions, err := readQuestions(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"What is the capacity?", "Who approved the design?"}, questions)
}

func TestReadQuestions_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, []byte(`["first?", "second?"]`), 0o600))

	questions, err := readQuestions(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"first?", "second?"}, questions)
}

func TestBatchCmd_WritesResults(t *testing.T) {
	dir := t.TempDir()
	_, cleanup := setupTestAssistant(dir)
	defer cleanup()

	questionsPath := filepath.Join(dir, "questions.txt")
	require.NoError(t, os.WriteFile(questionsPath, []byte("one?\ntwo?\n"), 0o600))
	outPath := filepath.Join(dir, "results.json")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"batch", "--output", outPath, questionsPath})
	defer func() { batchOutput = "" }()

	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var results []batchResult
	require.NoError(t, json.Unmarshal(data, &results))
	require.Len(t, results, 2)

	assert.Equal(t, "one?", results[0].Question)
	assert.Equal(t, "The answer is 42.", results[0].Response)
	require.Len(t, results[0].Sources, 1)
	assert.Equal(t, "specs.pdf", results[0].Sources[0].FileName)
	assert.Equal(t, "two?", results[1].Question)

	assert.Contains(t, buf.String(), "Wrote 2 results")
}

func TestBatchCmd_EmptyQuestionsFile(t *testing.T) {
	dir := t.TempDir()
	_, cleanup := setupTestAssistant(dir)
	defer cleanup()

	questionsPath := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(questionsPath, []byte("\n# only comments\n"), 0o600))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"batch", questionsPath})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no questions found")
}
