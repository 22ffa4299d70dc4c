package main

import (
	"fmt"
	"os"

	"go-dgpa-watcher/internal/config"
	"go-dgpa-watcher/internal/extract"
	"go-dgpa-watcher/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	debug      bool

	logger *zap.Logger
)

// rootCmd runs the watcher when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "dgpa-watcher",
	Short: "Watch DGPA civil-service vacancies and report them to Telegram",
	Long: `dgpa-watcher searches the DGPA vacancy site for a keyword, extracts the
postings of the results table and sends a digest of new postings to Telegram.

Run without arguments to perform one watcher run.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(debug)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runWatcher,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	addRunFlags(rootCmd)
	addRunFlags(runCmd)
	parseCmd.Flags().StringVarP(&parseKeyword, "keyword", "k", "", "Search keyword used when the pages were scraped")
	parseCmd.Flags().BoolVar(&noFallback, "no-fallback", false, "Disable the fallback classifier")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(parseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newExtractor builds the extractor from config. cfg may be nil.
func newExtractor(cfg *config.Config, fallback bool) *extract.Extractor {
	vocab := extract.DefaultVocabulary()
	if cfg != nil && len(cfg.TitleKeywords) > 0 {
		vocab.TitleKeywords = cfg.TitleKeywords
	}
	return extract.New(
		extract.WithVocabulary(vocab),
		extract.WithFallback(fallback),
		extract.WithLogger(logger),
	)
}
