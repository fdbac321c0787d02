package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"moodrec/internal/domain"
	"moodrec/internal/usecase"
)

var runpromptCtx string

var runpromptCmd = &cobra.Command{
	Use:   "prompt <mood>",
	Short: "Print the recommendation prompt for manual LLM use",
	Long: `Render the prompt 'recommend' would send to the generative model, without
calling it. Useful when no credential is configured.

By default the catalog is searched for the mood. With --ctx the titles are
read from a file written by 'moodrec search --json' instead.

Examples:
  moodrec prompt happy
  moodrec search -q "feel-good comedy" --json > hits.json
  moodrec prompt happy --ctx hits.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPrompt,
}

func init() {
	rootCmd.AddCommand(runpromptCmd)
	runpromptCmd.Flags().StringVar(&runpromptCtx, "ctx", "", "path to a search results JSON file")
}

func runPrompt(cmd *cobra.Command, args []string) error {
	moodKey := strings.Join(args, " ")

	if runpromptCtx != "" {
		hits, err := readHits(runpromptCtx)
		if err != nil {
			return err
		}
		prompt, err := usecase.MoodPrompt(domain.ResolveMood(moodKey), hits)
		if err != nil {
			return err
		}
		fmt.Println(prompt)
		return nil
	}

	a, _, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	prompt, _, err := a.Prompt(cmd.Context(), moodKey)
	if err != nil {
		return fmt.Errorf("failed to build prompt: %w", err)
	}
	fmt.Println(prompt)
	return nil
}

func readHits(path string) ([]domain.SearchResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read context file: %w", err)
	}

	var results []searchOutput
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to parse context file: %w", err)
	}

	hits := make([]domain.SearchResult, len(results))
	for i, r := range results {
		hits[i] = domain.SearchResult{
			Item: domain.CatalogItem{
				ID:       r.ID,
				Title:    r.Title,
				Category: r.Category,
				Genre:    r.Genre,
				Year:     r.Year,
				Rating:   r.Rating,
				Overview: r.Overview,
			},
			Document: r.Overview,
			Distance: r.Distance,
		}
	}
	return hits, nil
}
