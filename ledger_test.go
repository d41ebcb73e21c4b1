package rdte

import (
	"math"
	"testing"
)

func testPenaltyConfig() PenaltyConfig {
	return PenaltyConfig{
		PerFailure: 0.05,
		MaxPenalty: 0.30,
		CountCap:   10,
		DecayRate:  0,
	}
}

func TestLedger_UnseenKeysAreZero(t *testing.T) {
	l := NewPenaltyLedger(testPenaltyConfig())

	if c := l.Count(AxisDomain, "cyber"); c != 0 {
		t.Errorf("unseen key count = %v, want 0", c)
	}
	if l.Size() != 0 {
		t.Errorf("empty ledger size = %d, want 0", l.Size())
	}
}

func TestLedger_BumpAndCount(t *testing.T) {
	l := NewPenaltyLedger(testPenaltyConfig())

	l.Bump(AxisDomain, "cyber")
	l.Bump(AxisDomain, "cyber")
	l.Bump(AxisOrgType, "ffrdc")

	if c := l.Count(AxisDomain, "cyber"); c != 2 {
		t.Errorf("count = %v, want 2", c)
	}
	if c := l.Count(AxisOrgType, "ffrdc"); c != 1 {
		t.Errorf("count = %v, want 1", c)
	}
	// Same category value on a different axis is a distinct key.
	if c := l.Count(AxisFundingSource, "cyber"); c != 0 {
		t.Errorf("cross-axis count = %v, want 0", c)
	}
}

func TestLedger_EmptyCategoryIgnored(t *testing.T) {
	l := NewPenaltyLedger(testPenaltyConfig())
	l.Bump(AxisDomain, "")
	if l.Size() != 0 {
		t.Errorf("empty category was recorded, size = %d", l.Size())
	}
}

func TestLedger_CleanMultiplierIsExactlyOne(t *testing.T) {
	cfg := DefaultConfig()
	l := NewPenaltyLedger(cfg.Penalty)
	p := &Project{ID: "prj-000", Stage: StageFeasibility, Attrs: Attributes{
		Domain: "c4isr", OrgType: "ffrdc", Authority: "title10", FundingSource: "rdte",
	}}

	AssertCleanMultiplier(t, cfg, l, p)
}

// Scenario B from the design material: three prior failures on the
// researcher axis with per_failure 0.05 and max_penalty 0.30 give a
// multiplier of 1 − min(0.30, 0.15) = 0.85 on every gate wired to that axis.
func TestLedger_RepeatFailureMultiplier(t *testing.T) {
	l := NewPenaltyLedger(testPenaltyConfig())
	p := &Project{ID: "prj-007", Stage: StageOperationalTest}

	for i := 0; i < 3; i++ {
		l.Bump(AxisResearcher, p.ID)
	}

	got := l.Multiplier([]Axis{AxisResearcher}, p)
	if math.Abs(got-0.85) > 1e-12 {
		t.Errorf("multiplier = %v, want 0.85", got)
	}
}

func TestLedger_MaxPenaltyFloorsAxisTerm(t *testing.T) {
	l := NewPenaltyLedger(testPenaltyConfig())
	p := &Project{ID: "prj-001"}

	// 8 failures would mean a 0.40 reduction; max_penalty caps it at 0.30.
	for i := 0; i < 8; i++ {
		l.Bump(AxisResearcher, p.ID)
	}

	got := l.Multiplier([]Axis{AxisResearcher}, p)
	if math.Abs(got-0.70) > 1e-12 {
		t.Errorf("multiplier = %v, want 0.70 (capped)", got)
	}
}

func TestLedger_CountCapLimitsConsideredFailures(t *testing.T) {
	cfg := testPenaltyConfig()
	cfg.PerFailure = 0.01
	cfg.CountCap = 5
	l := NewPenaltyLedger(cfg)
	p := &Project{ID: "prj-002"}

	for i := 0; i < 20; i++ {
		l.Bump(AxisResearcher, p.ID)
	}

	// min(count, cap) = 5: reduction 0.05, well under max_penalty.
	got := l.Multiplier([]Axis{AxisResearcher}, p)
	if math.Abs(got-0.95) > 1e-12 {
		t.Errorf("multiplier = %v, want 0.95", got)
	}
}

func TestLedger_MultiplierBoundsPerAxis(t *testing.T) {
	cfg := testPenaltyConfig()
	l := NewPenaltyLedger(cfg)
	p := &Project{ID: "prj-003", Attrs: Attributes{Domain: "cyber"}}

	for i := 0; i < 100; i++ {
		l.Bump(AxisResearcher, p.ID)
		l.Bump(AxisDomain, "cyber")
	}

	for _, axis := range []Axis{AxisResearcher, AxisDomain} {
		term := l.Multiplier([]Axis{axis}, p)
		if term < 1-cfg.MaxPenalty || term > 1 {
			t.Errorf("axis %s term %v outside [%v, 1]", axis, term, 1-cfg.MaxPenalty)
		}
	}
}

func TestLedger_DecayShrinksCounters(t *testing.T) {
	cfg := testPenaltyConfig()
	cfg.DecayRate = 0.5
	l := NewPenaltyLedger(cfg)

	l.Bump(AxisDomain, "space")
	l.Bump(AxisDomain, "space")
	l.Decay()

	if c := l.Count(AxisDomain, "space"); math.Abs(c-1.0) > 1e-12 {
		t.Errorf("decayed count = %v, want 1.0", c)
	}
}

func TestLedger_ZeroDecayAccumulatesForever(t *testing.T) {
	l := NewPenaltyLedger(testPenaltyConfig()) // DecayRate 0

	l.Bump(AxisDomain, "space")
	for i := 0; i < 50; i++ {
		l.Decay()
	}

	if c := l.Count(AxisDomain, "space"); c != 1 {
		t.Errorf("count after no-op decay = %v, want 1", c)
	}
}

func TestLedger_DecayEvictsVanishedCounters(t *testing.T) {
	cfg := testPenaltyConfig()
	cfg.DecayRate = 0.99
	l := NewPenaltyLedger(cfg)

	l.Bump(AxisDomain, "space")
	for i := 0; i < 10; i++ {
		l.Decay()
	}

	if l.Size() != 0 {
		t.Errorf("vanished counter not evicted, size = %d", l.Size())
	}
}

func TestLedger_BumpProjectUsesAttributeValues(t *testing.T) {
	l := NewPenaltyLedger(testPenaltyConfig())
	p := &Project{
		ID:    "prj-009",
		Stage: StageFunctionalTest,
		Attrs: Attributes{Domain: "cyber", Kinetic: true},
	}

	l.BumpProject([]Axis{AxisResearcher, AxisDomain, AxisStage, AxisKinetic}, p)

	if c := l.Count(AxisResearcher, "prj-009"); c != 1 {
		t.Errorf("researcher count = %v, want 1", c)
	}
	if c := l.Count(AxisDomain, "cyber"); c != 1 {
		t.Errorf("domain count = %v, want 1", c)
	}
	if c := l.Count(AxisStage, string(StageFunctionalTest)); c != 1 {
		t.Errorf("stage count = %v, want 1", c)
	}
	if c := l.Count(AxisKinetic, "true"); c != 1 {
		t.Errorf("kinetic count = %v, want 1", c)
	}
}
