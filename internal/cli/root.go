package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"moodrec/config"
	"moodrec/internal/logging"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
	logger  zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "moodrec",
	Short: "Mood-based movie and TV recommendations",
	Long: `moodrec indexes a movie/TV catalog into a local vector index, retrieves
titles that match a mood, and asks a generative model for a personalized
recommendation grounded in those titles.

Example usage:
  moodrec setup                   # Load the catalog and build the index
  moodrec moods                   # List the supported moods
  moodrec recommend happy         # Recommend titles for a mood
  moodrec search -q "space opera" # Search the catalog directly`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if err := config.LoadDotEnv(rootDir); err != nil {
			return err
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg.ApplyEnv()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger = logging.New(logging.Config{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
		return nil
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./moodrec.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "working directory for config and .env (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
