package rdte

import (
	"math"
	"testing"
)

// Test helpers asserting the engine's structural properties. Shared by the
// package tests; exported so downstream experiments can reuse them.

// AssertProbability verifies a probability lies in [0, 1].
func AssertProbability(t *testing.T, name string, p float64) {
	t.Helper()
	if p < 0 || p > 1 || math.IsNaN(p) {
		t.Errorf("%s: probability %v outside [0,1]", name, p)
	}
}

// AssertResultIdempotent verifies that recomputing the final probability
// from a result's stored base/modifier/penalty/multiplier fields reproduces
// the stored value exactly, given the run's floor. A logged event must fully
// explain its own outcome.
func AssertResultIdempotent(t *testing.T, res GateResult, floor float64) {
	t.Helper()
	recomputed := finalProbability(res.Base, res.Modifiers, res.Penalties, res.Multiplier, floor)
	if recomputed != res.Final {
		t.Errorf("%s gate: recomputed final %v != stored %v (base=%v mods=%v pens=%v mult=%v)",
			res.Gate, recomputed, res.Final, res.Base, res.Modifiers, res.Penalties, res.Multiplier)
	}
}

// AssertCleanMultiplier verifies a project with zero recorded failures on
// every axis has penalty multiplier exactly 1.0 for every gate.
func AssertCleanMultiplier(t *testing.T, cfg Config, ledger *PenaltyLedger, p *Project) {
	t.Helper()
	for gate, axes := range cfg.Penalty.GateAxes {
		if m := ledger.Multiplier(axes, p); m != 1.0 {
			t.Errorf("gate %s: clean-ledger multiplier = %v, want exactly 1.0", gate, m)
		}
	}
}

// AssertDeterministic verifies two runs with the same seed and configuration
// produce identical event sequences.
func AssertDeterministic(t *testing.T, cfg Config) {
	t.Helper()
	first := runEvents(t, cfg)
	second := runEvents(t, cfg)
	if len(first) != len(second) {
		t.Fatalf("event counts differ across identical runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("event %d differs across identical runs:\n  %+v\n  %+v", i, first[i], second[i])
		}
	}
}

func runEvents(t *testing.T, cfg Config) []Event {
	t.Helper()
	rec := NewMemoryRecorder()
	sched, err := NewScheduler(cfg, rec)
	if err != nil {
		t.Fatalf("scheduler setup: %v", err)
	}
	sched.Run()
	return rec.Events()
}
