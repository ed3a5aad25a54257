package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bus-scraper/config"
	"bus-scraper/services"
	"bus-scraper/utils"
)

var (
	cfg    *config.Config
	logger *utils.Logger

	weightsFile string
	topN        int
)

var rootCmd = &cobra.Command{
	Use:   "bus-scraper",
	Short: "bus-scraper searches vrlbus.in and picks the best bus offer.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		if weightsFile != "" {
			cfg.WeightsFile = weightsFile
		}
		if topN > 0 {
			cfg.TopN = topN
		}
		logger = utils.NewLogger(cfg.LogLevel)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&weightsFile, "weights", "", "YAML file with weight overrides (defaults to WEIGHTS_FILE)")
	rootCmd.PersistentFlags().IntVar(&topN, "top", 0, "number of candidates shown in the report (defaults to TOP_N)")
}

// ExecuteContext runs the root command and exits non-zero on failure.
func ExecuteContext(ctx context.Context) {
	err := execute(ctx, rootCmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs c and flushes the logger whether or not the command failed.
func execute(ctx context.Context, c *cobra.Command) error {
	err := c.ExecuteContext(ctx)
	if logger != nil {
		logger.Sync()
	}
	return err
}

// newAnalyzer builds an Analyzer from the default weights and the configured
// override file.
func newAnalyzer(c *config.Config, l *utils.Logger) (*services.Analyzer, error) {
	overrides, err := config.LoadWeights(c.WeightsFile)
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		l.Info("[main] Applying %d weight overrides from %s", len(overrides), c.WeightsFile)
	}
	return services.NewAnalyzer(l, services.DefaultWeights().Merge(overrides)), nil
}
