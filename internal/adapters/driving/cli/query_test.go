package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCmd_Use(t *testing.T) {
	assert.Equal(t, "query [question]", queryCmd.Use)
}

func TestQueryCmd_RequiresExactlyOneArg(t *testing.T) {
	_, cleanup := setupTestAssistant(t.TempDir())
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"query"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestQueryCmd_StreamsAnswer(t *testing.T) {
	mock, cleanup := setupTestAssistant(t.TempDir())
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"query", "what is the answer?"})

	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, "what is the answer?", mock.lastQuestion)
	assert.Contains(t, buf.String(), "The answer is 42.")
	assert.NotContains(t, buf.String(), "Sources:", "sources hidden without --sources")
}

func TestQueryCmd_ShowsSources(t *testing.T) {
	_, cleanup := setupTestAssistant(t.TempDir())
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"query", "--sources", "what is the answer?"})
	defer func() { queryShowSources = false }()

	require.NoError(t, rootCmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "specs.pdf")
	assert.Contains(t, out, "score 0.91")
}

func TestQueryCmd_NoStream(t *testing.T) {
	mock, cleanup := setupTestAssistant(t.TempDir())
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"query", "--no-stream", "what is the answer?"})
	defer func() { queryNoStream = false }()

	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, "what is the answer?", mock.lastQuestion)
	assert.Contains(t, buf.String(), "The answer is 42.")
}
