package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Verify models and prepare the local index",
	Long: `Checks that the Ollama generation and embedding models are reachable
and opens (or creates) the local vector index.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	a, err := getAssistant(cmd.Context())
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer a.Close()

	cmd.Printf("System state: %s\n", a.State())

	stats := a.Stats(cmd.Context())
	if stats.ChunkCount != nil && *stats.ChunkCount > 0 {
		cmd.Printf("Existing index: %d chunks", *stats.ChunkCount)
		if stats.DocumentCount != nil {
			cmd.Printf(" from %d documents", *stats.DocumentCount)
		}
		cmd.Println()
	} else {
		cmd.Println("No documents indexed yet. Add some with 'askdocs add <path>'.")
	}
	return nil
}
