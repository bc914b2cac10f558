package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/askdocs/askdocs-cli/internal/core/domain"
	"github.com/askdocs/askdocs-cli/internal/logger"
)

var batchOutput string

var batchCmd = &cobra.Command{
	Use:   "batch [questions-file]",
	Short: "Answer a list of questions and write the results as JSON",
	Long: `Reads questions from a file and answers each one in order.

The questions file is either a plain text file with one question per
line (blank lines and lines starting with # are ignored) or a JSON
array of strings.

Results are written as a JSON array of {question, response, sources}
objects. A failed question is recorded in the output and does not stop
the batch.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "output file (default batch_results_<timestamp>.json in the data directory)")
	rootCmd.AddCommand(batchCmd)
}

// batchResult is one entry of the batch output file.
type batchResult struct {
	Question string             `json:"question"`
	Response string             `json:"response"`
	Sources  []domain.SourceRef `json:"sources"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	questions, err := readQuestions(args[0])
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return fmt.Errorf("no questions found in %s", args[0])
	}

	a, err := getAssistant(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	results := make([]batchResult, 0, len(questions))
	for i, question := range questions {
		if err := cmd.Context().Err(); err != nil {
			return err
		}

		cmd.Printf("[%d/%d] %s\n", i+1, len(questions), question)

		answer, err := a.Query(cmd.Context(), question)
		if err != nil {
			logger.Error("Question %d failed: %v", i+1, err)
			results = append(results, batchResult{
				Question: question,
				Response: fmt.Sprintf("Error processing query: %v", err),
			})
			continue
		}

		sources := make([]domain.SourceRef, len(answer.Sources))
		for j, src := range answer.Sources {
			sources[j] = src.Cite()
		}
		results = append(results, batchResult{
			Question: question,
			Response: answer.Text,
			Sources:  sources,
		})
	}

	outPath, err := writeBatchResults(results)
	if err != nil {
		return err
	}
	cmd.Printf("\nWrote %d results to %s\n", len(results), outPath)
	return nil
}

// readQuestions loads the questions file, accepting a JSON string array
// or plain text with one question per line.
func readQuestions(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading questions file: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var questions []string
		if err := json.Unmarshal(data, &questions); err != nil {
			return nil, fmt.Errorf("parsing questions JSON: %w", err)
		}
		return questions, nil
	}

	var questions []string
	scanner := bufio.NewScanner(strings.NewReader(trimmed))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		questions = append(questions, line)
	}
	return questions, scanner.Err()
}

func writeBatchResults(results []batchResult) (string, error) {
	outPath := batchOutput
	if outPath == "" {
		dir, err := dataDir()
		if err != nil {
			return "", err
		}
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return "", fmt.Errorf("creating output directory: %w", err)
		}
		name := fmt.Sprintf("batch_results_%s.json", time.Now().Format("20060102_150405"))
		outPath = filepath.Join(dir, name)
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding results: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o600); err != nil {
		return "", fmt.Errorf("writing results: %w", err)
	}
	return outPath, nil
}
