package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	rdte "github.com/bebill88/GMU-ABM-RDTE"
)

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Fast regression checks on the reference configuration",
	Long: `Run three quick checks before trusting a parameter change:

  1. A small adaptive run produces at least one transition.
  2. A penalties-disabled run completes and matches the clean-ledger contract.
  3. A shock-regime run activates exactly one shock window.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadParams(paramsFile)
		if err != nil {
			return err
		}
		cfg.Regime = rdte.RegimeAdaptive
		cfg.Steps = 80
		cfg.NProjects = 20
		cfg.NEndUsers = 15
		cfg.Seed = 999

		sched, err := rdte.NewScheduler(cfg, nil)
		if err != nil {
			return err
		}
		summary := sched.Run()
		if summary.Transitions <= 0 {
			return fmt.Errorf("smoke: adaptive demo run produced no transitions")
		}
		slog.Info("demo check passed",
			"transitions", summary.Transitions,
			"transition_rate", *summary.TransitionRate)

		noPenalty := cfg
		noPenalty.Penalty.PerFailure = 0
		noPenalty.Seed = 1001
		sched, err = rdte.NewScheduler(noPenalty, nil)
		if err != nil {
			return err
		}
		summary = sched.Run()
		slog.Info("no-penalty check passed", "transitions", summary.Transitions)

		shock := cfg
		shock.Regime = rdte.RegimeShock
		shock.Shock = rdte.ShockWindow{Start: 20, Duration: 20, Magnitude: 1.0}
		sched, err = rdte.NewScheduler(shock, nil)
		if err != nil {
			return err
		}
		summary = sched.Run()
		if summary.Shocks != 1 {
			return fmt.Errorf("smoke: expected exactly one shock window, got %d", summary.Shocks)
		}
		slog.Info("shock check passed", "shocks", summary.Shocks)

		slog.Info("smoke checks passed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(smokeCmd)
}
