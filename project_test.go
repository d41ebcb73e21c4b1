package rdte

import "testing"

func TestStage_PipelineOrder(t *testing.T) {
	order := []Stage{
		StageFeasibility, StagePrototypeDemo, StageFunctionalTest,
		StageVulnerabilityTest, StageOperationalTest,
	}
	for i := 0; i < len(order)-1; i++ {
		next, ok := order[i].Next()
		if !ok {
			t.Fatalf("stage %s has no successor", order[i])
		}
		if next != order[i+1] {
			t.Errorf("stage %s advances to %s, want %s", order[i], next, order[i+1])
		}
	}

	if _, ok := StageOperationalTest.Next(); ok {
		t.Error("operational_test has a pipeline successor; adoption must decide the transition")
	}
}

func TestStage_Bands(t *testing.T) {
	for _, s := range []Stage{StageFeasibility, StagePrototypeDemo, StageFunctionalTest} {
		if s.Late() {
			t.Errorf("stage %s reported late", s)
		}
	}
	for _, s := range []Stage{StageVulnerabilityTest, StageOperationalTest} {
		if !s.Late() {
			t.Errorf("stage %s reported early", s)
		}
	}
	for _, s := range []Stage{StageAdopted, StageAbandoned} {
		if !s.Terminal() {
			t.Errorf("stage %s reported non-terminal", s)
		}
	}
	if StageOperationalTest.Terminal() {
		t.Error("operational_test reported terminal")
	}
}

func TestProject_AxisValues(t *testing.T) {
	p := &Project{
		ID:    "prj-042",
		Stage: StagePrototypeDemo,
		Attrs: Attributes{
			Domain:        "space",
			OrgType:       "uarc",
			Authority:     "title50",
			FundingSource: "ota",
			Kinetic:       true,
			Intel:         false,
		},
	}

	cases := map[Axis]string{
		AxisResearcher:    "prj-042",
		AxisDomain:        "space",
		AxisOrgType:       "uarc",
		AxisAuthority:     "title50",
		AxisFundingSource: "ota",
		AxisKinetic:       "true",
		AxisIntel:         "false",
		AxisStage:         "prototype_demo",
	}
	for axis, want := range cases {
		if got := p.axisValue(axis); got != want {
			t.Errorf("axis %s = %q, want %q", axis, got, want)
		}
	}
}

func TestProject_Alignment(t *testing.T) {
	flags := []string{"autonomy", "resilient_comms"}

	p := &Project{Priorities: []string{"autonomy"}}
	if match, declared := p.aligned(flags); !match || !declared {
		t.Errorf("matching priorities: match=%v declared=%v, want true/true", match, declared)
	}

	p = &Project{Priorities: []string{"legacy"}}
	if match, declared := p.aligned(flags); match || !declared {
		t.Errorf("mismatched priorities: match=%v declared=%v, want false/true", match, declared)
	}

	p = &Project{}
	if _, declared := p.aligned(flags); declared {
		t.Error("no priorities reported as declared")
	}
}

func TestProject_TRLNeverDecreasesAndClamps(t *testing.T) {
	p := &Project{TRL: 8.0}

	p.raiseTRL(1.5, 9.0)
	if p.TRL != 9.0 {
		t.Errorf("TRL = %v, want clamped 9.0", p.TRL)
	}
	p.raiseTRL(1.5, 9.0)
	if p.TRL != 9.0 {
		t.Errorf("TRL = %v after raise at cap, want 9.0", p.TRL)
	}
}

func TestProject_AdvanceStageResetsLegalCache(t *testing.T) {
	p := &Project{
		Stage:            StageFeasibility,
		StageEnteredTick: 3,
		LegalStatus:      LegalCaveats,
	}

	p.advanceStage(StagePrototypeDemo, 17)

	if p.Stage != StagePrototypeDemo {
		t.Errorf("stage = %s, want prototype_demo", p.Stage)
	}
	if p.StageEnteredTick != 17 {
		t.Errorf("stage entry tick = %d, want 17", p.StageEnteredTick)
	}
	if p.LegalStatus != "" {
		t.Errorf("legal cache = %q, want cleared", p.LegalStatus)
	}
}

func TestProject_QualityImprovesButCaps(t *testing.T) {
	p := &Project{Quality: 0.95}
	p.improveQuality(0.5, 1.0)
	if p.Quality != 1.0 {
		t.Errorf("quality = %v, want capped at 1.0", p.Quality)
	}

	p = &Project{Quality: 0.4}
	p.improveQuality(0.1, 0.5)
	if p.Quality <= 0.4 {
		t.Errorf("quality = %v, want above 0.4", p.Quality)
	}
}
