// Command figmatch compares geometry statements up to point renaming.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agenthands/figmatch/internal/config"
	"github.com/agenthands/figmatch/internal/core"
	"github.com/agenthands/figmatch/internal/core/symmetry"
	"github.com/agenthands/figmatch/internal/logging"
)

var (
	configPath string
	verbose    bool
	workers    int
	maxTrials  int

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "figmatch",
	Short: "Structural equivalence of geometry construction statements",
	Long: `figmatch decides whether two construction statements describe the same
figure up to a renaming of points, honouring the argument symmetries of
each construction.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		var err error
		cfg, err = loadConfig(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("workers") {
			cfg.Batch.Workers = workers
		}
		if cmd.Flags().Changed("max-trials") {
			cfg.Search.MaxTrials = maxTrials
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err = logging.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// loadConfig reads path when given, otherwise starts from the defaults.
// Environment overrides apply in both cases.
func loadConfig(path string) (*config.Config, error) {
	c := config.Default()
	if path != "" {
		var err error
		c, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}
	if err := c.ApplyEnv(); err != nil {
		return nil, err
	}
	return c, nil
}

func newOracle() *core.Oracle {
	return core.NewOracle(symmetry.Default(), cfg.Search.MaxTrials, logger)
}

// errNotEquivalent makes compare exit non-zero without printing usage.
var errNotEquivalent = errors.New("statements are not equivalent")

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().IntVar(&maxTrials, "max-trials", 0, "Search budget per comparison (0 = unbounded)")

	batchCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent comparisons (default: config)")
	batchCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write results to a file instead of stdout")
	batchCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the full report as JSON")
	compareCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the verdict as JSON")

	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(batchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errNotEquivalent) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
