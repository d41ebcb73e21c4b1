package main

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	paramsFile string
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "rdte",
	Short: "RDT&E stage-gate transition simulator",
	Long: `rdte simulates RDT&E efforts moving through a multi-stage approval
pipeline (feasibility → prototype demo → functional, vulnerability and
operational testing → field adoption) under different governance regimes.

Commands:
  run     Execute a batch of seeded simulation runs and export results
  smoke   Fast regression checks on the reference configuration

Runs are deterministic given a seed: the same seed and parameters always
produce the same event sequence and metrics.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(
			tint.NewHandler(os.Stderr, &tint.Options{
				Level:      level,
				TimeFormat: "15:04:05",
			}),
		))
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&paramsFile, "params", "parameters.yaml", "Optional parameters file (missing file uses defaults)")
}
