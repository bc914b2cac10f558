// Package cli implements the askdocs command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/askdocs/askdocs-cli/internal/adapters/driven/config/file"
	"github.com/askdocs/askdocs-cli/internal/adapters/driven/extract"
	"github.com/askdocs/askdocs-cli/internal/adapters/driven/extract/docling"
	"github.com/askdocs/askdocs-cli/internal/adapters/driven/extract/plaintext"
	ollamaembed "github.com/askdocs/askdocs-cli/internal/adapters/driven/embedding/ollama"
	ollamallm "github.com/askdocs/askdocs-cli/internal/adapters/driven/llm/ollama"
	"github.com/askdocs/askdocs-cli/internal/adapters/driven/vectorstore/memory"
	"github.com/askdocs/askdocs-cli/internal/adapters/driven/vectorstore/sqlite"
	"github.com/askdocs/askdocs-cli/internal/core/domain"
	"github.com/askdocs/askdocs-cli/internal/core/ports/driven"
	"github.com/askdocs/askdocs-cli/internal/core/ports/driving"
	"github.com/askdocs/askdocs-cli/internal/core/services"
	"github.com/askdocs/askdocs-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose    bool
	debugMode  bool
	configDir  string
	ollamaURL  string
	doclingURL string
)

var (
	// assistant is built lazily on first use; tests inject a mock via
	// SetAssistant.
	assistant driving.Assistant
	settings  domain.Settings
)

var rootCmd = &cobra.Command{
	Use:   "askdocs",
	Short: "Ask questions about your documents",
	Long: `askdocs is a local retrieval-augmented assistant.

It ingests documents (PDF, DOCX, TXT, MD, CSV, XLSX), indexes their
content as embedding vectors and answers questions grounded on the
retrieved passages, using local models served by Ollama.

All data stays on your machine.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose || debugMode)
		return loadSettings()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "alias for --verbose")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.askdocs)")
	rootCmd.PersistentFlags().StringVar(&ollamaURL, "ollama-url", "", "Ollama base URL (default http://localhost:11434)")
	rootCmd.PersistentFlags().StringVar(&doclingURL, "docling-url", "", "docling-serve base URL for rich formats (default http://localhost:5001)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetAssistant injects a pre-built assistant. Used by tests.
func SetAssistant(a driving.Assistant) {
	assistant = a
}

// loadSettings reads the TOML config, falling back to defaults when no
// file exists.
func loadSettings() error {
	store, err := file.NewSettingsStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settings, err = store.Load()
	if err != nil {
		return err
	}
	return nil
}

// dataDir resolves the directory for the index, chat history and batch
// output.
func dataDir() (string, error) {
	if settings.DataDir != "" {
		return settings.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".askdocs"), nil
}

// getAssistant builds the full pipeline and verifies the models are
// reachable. The build happens once per process.
func getAssistant(ctx context.Context) (driving.Assistant, error) {
	if assistant != nil {
		return assistant, nil
	}

	dir, err := dataDir()
	if err != nil {
		return nil, err
	}

	built, err := buildAssistant(dir)
	if err != nil {
		return nil, err
	}
	if err := built.Initialize(ctx); err != nil {
		return nil, err
	}

	assistant = built
	return assistant, nil
}

// buildAssistant wires the driven adapters into the orchestrator
// according to the loaded settings.
func buildAssistant(dir string) (*services.Assistant, error) {
	extractor := extract.NewComposite(
		plaintext.New(),
		docling.New(docling.Config{BaseURL: doclingURL}),
	)

	embedder := ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    ollamaURL,
		Model:      settings.EmbeddingModel,
		Dimensions: settings.EmbeddingDimensions,
	})

	llm := ollamallm.NewLLMService(ollamallm.Config{
		BaseURL: ollamaURL,
		Model:   settings.GenerationModel,
	})

	var store driven.VectorStore
	switch settings.VectorStore {
	case "memory":
		store = memory.NewStore(settings.EmbeddingDimensions)
	default:
		s, found, err := sqlite.Open(filepath.Join(dir, "data"), settings.EmbeddingDimensions)
		if err != nil {
			return nil, fmt.Errorf("opening index: %w", err)
		}
		if found {
			logger.Debug("Using existing index at %s", filepath.Join(dir, "data"))
		}
		store = s
	}

	return services.NewAssistant(extractor, embedder, llm, store, settings, dir), nil
}
