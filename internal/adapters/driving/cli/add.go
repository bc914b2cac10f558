package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askdocs/askdocs-cli/internal/core/domain"
)

var addCmd = &cobra.Command{
	Use:   "add [path]",
	Short: "Ingest a file or directory into the index",
	Long: `Extracts text from the given file, or from every supported file under
the given directory, splits it into chunks and indexes the embeddings.

Supported formats: PDF, DOCX, TXT, MD, CSV, XLSX.
Files over the configured size limit are skipped. Re-adding a file whose
content has not changed is detected and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := getAssistant(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.AddPath(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("adding %s: %w", args[0], err)
	}

	printIngestReport(cmd, report)
	return nil
}

func printIngestReport(cmd *cobra.Command, report *domain.IngestReport) {
	for _, o := range report.Outcomes {
		switch o.Status {
		case domain.IngestAdded:
			cmd.Printf("  added    %s (%d chunks)\n", o.FileName, o.Chunks)
		case domain.IngestFailed:
			cmd.Printf("  failed   %s: %s\n", o.FileName, o.Detail)
		default:
			cmd.Printf("  skipped  %s (%s)\n", o.FileName, o.Status)
		}
	}

	cmd.Println()
	cmd.Printf("Added %d file(s), %d chunks total", report.Added(), report.TotalChunks())
	if skipped := report.Skipped(); skipped > 0 {
		cmd.Printf(", %d skipped", skipped)
	}
	if failed := report.Failed(); failed > 0 {
		cmd.Printf(", %d failed", failed)
	}
	cmd.Println()
}
