package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askdocs/askdocs-cli/internal/core/domain"
)

var (
	sourcesTopK int
	sourcesJSON bool
)

var sourcesCmd = &cobra.Command{
	Use:   "sources [question]",
	Short: "Show the passages that would be retrieved for a question",
	Long: `Runs retrieval only, without generation. Returns the raw top-k
passages with their similarity scores, ignoring the similarity cutoff,
so low-scoring matches stay visible for inspection.`,
	Args: cobra.ExactArgs(1),
	RunE: runSources,
}

func init() {
	sourcesCmd.Flags().IntVarP(&sourcesTopK, "top-k", "n", 0, "number of passages (default from config)")
	sourcesCmd.Flags().BoolVar(&sourcesJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	a, err := getAssistant(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	results, err := a.Sources(cmd.Context(), args[0], sourcesTopK)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if sourcesJSON {
		refs := make([]domain.SourceRef, len(results))
		for i, res := range results {
			refs[i] = res.Cite()
		}
		data, err := json.MarshalIndent(refs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No passages retrieved. Is anything indexed?")
		return nil
	}

	printSources(cmd, results)
	return nil
}
