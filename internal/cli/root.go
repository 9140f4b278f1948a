// Package cli implements the search_engine command line: an HTTP server and
// one-shot queries over a corpus of JSON or YAML document files.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-retrieval-engine/config"
	"github.com/gcbaptista/go-retrieval-engine/internal/logger"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "search_engine",
	Short: "Information retrieval engine with boolean, vector and phrase models",
	Long: `search_engine indexes a corpus of documents into a positional inverted index
and answers queries with boolean, TF-IDF vector or phrase retrieval. Misspelled
query terms are corrected against the index vocabulary.

Example usage:
  search_engine serve --corpus "data/**/*.json"          # Start the HTTP API
  search_engine query -q "vector space" --corpus docs.yaml # One-shot query`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		logger.SetupWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file in YAML (defaults plus RE_* environment overrides when empty)")
}

// GetConfig returns the configuration loaded before the command ran.
func GetConfig() *config.Config {
	return cfg
}
