package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askdocs/askdocs-cli/internal/core/domain"
)

var (
	queryShowSources bool
	queryNoStream    bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a single question",
	Long: `Answers one question grounded on the indexed documents and exits.
The answer streams to the terminal as it is generated.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().BoolVarP(&queryShowSources, "sources", "s", false, "show the source passages used")
	queryCmd.Flags().BoolVar(&queryNoStream, "no-stream", false, "print the answer in one piece")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	question := args[0]

	a, err := getAssistant(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if queryNoStream {
		answer, err := a.Query(cmd.Context(), question)
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}
		cmd.Println(answer.Text)
		if queryShowSources {
			printSources(cmd, answer.Sources)
		}
		return nil
	}

	stream, sources, err := a.QueryStream(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	for delta := range stream {
		if delta.Err != nil {
			cmd.Println()
			return fmt.Errorf("generation failed: %w", delta.Err)
		}
		cmd.Print(delta.Text)
	}
	cmd.Println()

	if queryShowSources {
		printSources(cmd, sources)
	}
	return nil
}

func printSources(cmd *cobra.Command, sources []domain.RetrievalResult) {
	if len(sources) == 0 {
		return
	}

	cmd.Println()
	cmd.Println("Sources:")
	for i, src := range sources {
		cmd.Printf("  [%d] %s (chunk %d/%d, score %.2f)\n",
			i+1, src.Chunk.FileName, src.Chunk.Index+1, src.Chunk.TotalChunks, src.Score)
		if src.Preview != "" {
			cmd.Printf("      %s\n", src.Preview)
		}
	}
}
