package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index statistics and configuration",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	a, err := getAssistant(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	stats := a.Stats(cmd.Context())
	info := a.Info()

	if statusJSON {
		data, err := json.MarshalIndent(map[string]any{
			"stats":  stats,
			"system": info,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Status:          %s\n", stats.Status)
	cmd.Printf("Vector store:    %s\n", stats.VectorStoreType)
	cmd.Printf("Embedding model: %s\n", stats.EmbeddingModel)
	cmd.Printf("Chunks indexed:  %s\n", countOrUnknown(stats.ChunkCount))
	cmd.Printf("Documents:       %s\n", countOrUnknown(stats.DocumentCount))
	cmd.Printf("Chunk size:      %d (overlap %d)\n", stats.ChunkSize, stats.ChunkOverlap)
	cmd.Printf("Data directory:  %s\n", info.DataDir)
	return nil
}

func countOrUnknown(n *int) string {
	if n == nil {
		return "Unknown"
	}
	return fmt.Sprintf("%d", *n)
}
