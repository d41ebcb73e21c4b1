// Package rdte simulates how RDT&E efforts move through a multi-stage
// approval pipeline toward field adoption under different governance regimes.
//
// # Overview
//
// Each simulated project climbs a fixed pipeline
//
//	feasibility → prototype_demo → functional_test →
//	vulnerability_test → operational_test → adopted
//
// by clearing a chain of gates every tick: a legal review (drawn once per
// stage entry), a funding gate, a contracting gate, and a stage test gate.
// Gate pass probabilities are shaped by the governance regime in effect
// (linear, adaptive, shock), the project's attributes, a repeat-failure
// penalty ledger, and an optional shock window. A project that clears the
// final test stage faces an end-user adoption vote; a majority of the
// sampled users must find the project useful before it transitions.
//
// # Components
//
// The package components, leaves first:
//
//   - ledger.go    - PenaltyLedger: failure history → probability multiplier
//   - shock.go     - ShockController: single shock window per run
//   - gates.go     - gate probability engine (pure functions)
//   - legal.go     - categorical legal-review draw with shifted weights
//   - project.go   - per-project state machine
//   - adoption.go  - end-user adoption vote
//   - scheduler.go - tick loop, randomized activation order, run RNG
//   - events.go    - append-only gate evaluation records
//   - metrics.go   - online run metrics (transition rate, cycle time)
//   - batch.go     - parallel seeded replications
//
// # Quick start
//
// Run a single seeded simulation and inspect its metrics:
//
//	cfg := rdte.DefaultConfig()
//	cfg.Regime = rdte.RegimeAdaptive
//	cfg.Seed = 42
//
//	rec := rdte.NewMemoryRecorder()
//	sched, err := rdte.NewScheduler(cfg, rec)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	summary := sched.Run()
//	fmt.Printf("transitions: %d\n", summary.Transitions)
//	if summary.TransitionRate != nil {
//	    fmt.Printf("transition rate: %.3f\n", *summary.TransitionRate)
//	}
//
// # Reproducibility
//
// A run owns exactly one RNG stream, seeded from Config.Seed. Every draw
// (the per-tick activation permutation, gate outcomes, legal reviews, the
// adoption sample) comes from that stream, so two runs with the same seed
// and configuration produce byte-identical event sequences. Batches of
// seeded repetitions share nothing and run in parallel (see RunBatch).
//
// # Probability contract
//
// For every probabilistic gate the final pass probability is
//
//	clamp((base + Σmodifiers − Σpenalties) × multiplier, floor, 1)
//
// where the multiplier comes from the PenaltyLedger and the floor prevents
// repeated failures from stalling a run entirely. Each GateResult carries
// the full decomposition, so a logged Event reconstructs the computation
// without re-running the simulation.
package rdte
