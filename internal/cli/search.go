package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"moodrec/internal/domain"
)

var (
	searchText  string
	searchTopN  int
	searchJSON  bool
	detailsJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the catalog",
	Long: `Search the catalog by semantic similarity to a free-text query.

Examples:
  moodrec search -q "heist thriller"
  moodrec search -q "nature documentary" -n 10 --json`,
	RunE: runSearch,
}

var detailsCmd = &cobra.Command{
	Use:   "details <title>",
	Short: "Show the catalog entry closest to a title",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDetails,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(detailsCmd)
	searchCmd.Flags().StringVarP(&searchText, "query", "q", "", "search query (required)")
	searchCmd.Flags().IntVarP(&searchTopN, "results", "n", 0, "number of results (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	searchCmd.MarkFlagRequired("query")
	detailsCmd.Flags().BoolVar(&detailsJSON, "json", false, "output as JSON")
}

type searchOutput struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Genre    string  `json:"genre"`
	Year     string  `json:"year"`
	Rating   string  `json:"rating"`
	Distance float64 `json:"distance"`
	Overview string  `json:"overview"`
}

func toSearchOutput(hits []domain.SearchResult) []searchOutput {
	out := make([]searchOutput, len(hits))
	for i, h := range hits {
		out[i] = searchOutput{
			ID:       h.Item.ID,
			Title:    h.Item.Title,
			Category: h.Item.Category,
			Genre:    h.Item.Genre,
			Year:     h.Item.Year,
			Rating:   h.Item.Rating,
			Distance: h.Distance,
			Overview: h.Document,
		}
	}
	return out
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, _, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	hits, err := a.Search(cmd.Context(), searchText, searchTopN)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	results := toSearchOutput(hits)

	if searchJSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	fmt.Printf("Found %d results for: %s\n\n", len(results), searchText)
	for i, r := range results {
		fmt.Printf("--- [%d] %s (%s, %s, %s) distance: %.3f ---\n", i+1, r.Title, r.Category, r.Genre, r.Year, r.Distance)
		text := r.Overview
		if len(text) > 500 {
			text = text[:500] + "..."
		}
		fmt.Println(text)
		fmt.Println()
	}
	return nil
}

func runDetails(cmd *cobra.Command, args []string) error {
	a, _, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	title := strings.Join(args, " ")
	hit, err := a.Details(cmd.Context(), title)
	if errors.Is(err, domain.ErrNoResults) {
		fmt.Printf("No catalog entry found for: %s\n", title)
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	r := toSearchOutput([]domain.SearchResult{hit})[0]
	if detailsJSON {
		output, _ := json.MarshalIndent(r, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Title:    %s\n", r.Title)
	fmt.Printf("Type:     %s\n", r.Category)
	fmt.Printf("Genre:    %s\n", r.Genre)
	fmt.Printf("Year:     %s\n", r.Year)
	fmt.Printf("Rating:   %s\n", r.Rating)
	fmt.Printf("\n%s\n", r.Overview)
	return nil
}
