package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"moodrec/internal/domain"
)

var (
	statsJSON bool
	moodsJSON bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var moodsCmd = &cobra.Command{
	Use:   "moods",
	Short: "List the supported moods",
	Args:  cobra.NoArgs,
	RunE:  runMoods,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(moodsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
	moodsCmd.Flags().BoolVar(&moodsJSON, "json", false, "output as JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	a, res, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	if statsJSON {
		output, _ := json.MarshalIndent(res.Catalog, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	printStats(res.Catalog)
	fmt.Printf("  Indexed:   %d\n", res.Index.Count)
	return nil
}

func runMoods(cmd *cobra.Command, args []string) error {
	if moodsJSON {
		output, _ := json.MarshalIndent(domain.Moods, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	for _, m := range domain.Moods {
		fmt.Printf("%-12s %s\n", m.ID, m.DisplayLabel)
		fmt.Printf("             %s\n", m.QueryPhrase)
	}
	return nil
}
