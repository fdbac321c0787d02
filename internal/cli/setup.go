package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"moodrec/internal/app"
	"moodrec/internal/domain"
)

var setupRebuild bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Load the catalog and build the vector index",
	Long: `Load the catalog CSV and embed every overview into the vector index.
An index that already holds entries is reused as is.

Examples:
  moodrec setup            # Build the index if it is empty
  moodrec setup --rebuild  # Drop the collection and rebuild it`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
	setupCmd.Flags().BoolVar(&setupRebuild, "rebuild", false, "drop the existing collection first")
}

func runSetup(cmd *cobra.Command, args []string) error {
	a, res, err := openApp(cmd.Context(), setupRebuild)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := GetConfig()
	if res.Index.Skipped {
		fmt.Printf("Using existing index with %d documents\n", res.Index.Count)
	} else {
		fmt.Printf("Database initialized with %d documents (%d batches)\n", res.Index.Count, res.Index.Batches)
	}
	printStats(res.Catalog)
	fmt.Printf("\nIndex stored at: %s (collection %s)\n", cfg.Index.Path, cfg.Index.Collection)
	if !res.Ready {
		fmt.Printf("\nWarning: %s is not set; recommendations are disabled.\n", cfg.LLM.APIKeyEnv)
	}
	return nil
}

// openApp builds the application and runs setup, rendering ingestion
// progress when batches are embedded.
func openApp(ctx context.Context, rebuild bool) (*app.App, *app.SetupResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var bar *progressbar.ProgressBar
	var startTime time.Time

	progress := func(batch, total int) {
		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Embedding[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}

		bar.Set(batch)

		elapsed := time.Since(startTime)
		rate := float64(batch) / elapsed.Seconds()
		if remaining := total - batch; remaining > 0 && rate > 0 {
			eta := time.Duration(float64(remaining)/rate) * time.Second
			bar.Describe(fmt.Sprintf("[cyan]Embedding[reset] batch %d/%d ETA: %s", batch, total, formatDuration(eta)))
		}
	}

	a := app.New(GetConfig(), logger)
	res, err := a.Setup(ctx, app.SetupOptions{Rebuild: rebuild, Progress: progress})
	if err != nil {
		var se *domain.SetupError
		if errors.As(err, &se) {
			return nil, nil, fmt.Errorf("setup failed (%s): %w", se.Stage, se.Err)
		}
		return nil, nil, err
	}
	return a, res, nil
}

func printStats(s domain.Stats) {
	fmt.Printf("\nCatalog:\n")
	fmt.Printf("  Titles:    %d\n", s.Total)
	fmt.Printf("  Movies:    %d\n", s.Movies)
	fmt.Printf("  TV Shows:  %d\n", s.Series)
	fmt.Printf("  Genres:    %d\n", s.Genres)
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
