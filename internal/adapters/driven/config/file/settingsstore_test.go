package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdocs/askdocs-cli/internal/core/domain"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	settings := domain.DefaultSettings()
	settings.ChunkSize = 512
	settings.ChunkOverlap = 64
	settings.TopK = 3
	settings.GenerationModel = "mistral"

	require.NoError(t, store.Save(settings))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	partial := "chunk_size = 256\ntop_k = 2\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(partial), 0o600))

	settings, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, 256, settings.ChunkSize)
	assert.Equal(t, 2, settings.TopK)
	// Untouched keys keep their defaults.
	assert.Equal(t, domain.DefaultSimilarityCutoff, settings.SimilarityCutoff)
	assert.Equal(t, domain.DefaultEmbeddingModel, settings.EmbeddingModel)
}

func TestLoadInvalidSettingsRejected(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(store.Path(), []byte("chunk_size = -1\n"), 0o600))

	_, err = store.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestSaveInvalidSettingsRejected(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	settings := domain.DefaultSettings()
	settings.TopK = 0

	err = store.Save(settings)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr), "invalid settings must not be written")
}

func TestPath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}
