package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"moodrec/internal/domain"
)

var (
	recommendJSON     bool
	recommendShowHits bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <mood>",
	Short: "Recommend titles for a mood",
	Long: `Retrieve catalog titles matching a mood and ask the generative model
for a personalized recommendation. Run 'moodrec moods' for the mood list.

Examples:
  moodrec recommend happy
  moodrec recommend "😢 Sad" --hits`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "output as JSON")
	recommendCmd.Flags().BoolVar(&recommendShowHits, "hits", false, "also list the retrieved titles")
}

type recommendOutput struct {
	RequestID string         `json:"request_id"`
	Mood      domain.Mood    `json:"mood"`
	Query     string         `json:"query"`
	Status    domain.Status  `json:"status"`
	Text      string         `json:"text"`
	Error     string         `json:"error,omitempty"`
	Hits      []searchOutput `json:"hits,omitempty"`
}

func runRecommend(cmd *cobra.Command, args []string) error {
	a, _, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	rec := a.Recommend(cmd.Context(), strings.Join(args, " "))

	if recommendJSON {
		out := recommendOutput{
			RequestID: rec.RequestID,
			Mood:      rec.Mood,
			Query:     rec.Query,
			Status:    rec.Status,
			Text:      rec.Text,
			Hits:      toSearchOutput(rec.Hits),
		}
		if rec.Err != nil {
			out.Error = rec.Err.Error()
		}
		output, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(output))
	} else {
		if recommendShowHits && len(rec.Hits) > 0 {
			fmt.Printf("Retrieved %d titles for: %s\n", len(rec.Hits), rec.Query)
			for i, h := range rec.Hits {
				fmt.Printf("  %2d. %s (%s, %s) [%.3f]\n", i+1, h.Item.Title, h.Item.Category, h.Item.Year, h.Distance)
			}
			fmt.Println()
		}
		fmt.Println(rec.Text)
	}

	if rec.Status == domain.StatusNotConfigured {
		return rec.Err
	}
	return nil
}
