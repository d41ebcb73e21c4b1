package rdte

// Stage is a pipeline position. Stages never regress, with one exception: a
// rejected adoption vote returns the project to operational_test (the final
// pre-adoption stage), never to feasibility.
type Stage string

const (
	StageFeasibility       Stage = "feasibility"
	StagePrototypeDemo     Stage = "prototype_demo"
	StageFunctionalTest    Stage = "functional_test"
	StageVulnerabilityTest Stage = "vulnerability_test"
	StageOperationalTest   Stage = "operational_test"
	StageAdopted           Stage = "adopted"
	StageAbandoned         Stage = "abandoned"
)

// pipelineStages are the live stages in pipeline order.
var pipelineStages = []Stage{
	StageFeasibility, StagePrototypeDemo, StageFunctionalTest,
	StageVulnerabilityTest, StageOperationalTest,
}

// Next returns the following pipeline stage. The final test stage has no
// successor here; adoption is decided by the Adoption Evaluator.
func (s Stage) Next() (Stage, bool) {
	for i, stage := range pipelineStages {
		if stage == s && i+1 < len(pipelineStages) {
			return pipelineStages[i+1], true
		}
	}
	return s, false
}

// Late reports whether the stage is in the late band (vulnerability and
// operational testing), which uses harder baselines.
func (s Stage) Late() bool {
	return s == StageVulnerabilityTest || s == StageOperationalTest
}

// Terminal reports whether the stage ends a project's lifecycle.
func (s Stage) Terminal() bool {
	return s == StageAdopted || s == StageAbandoned
}

// Attributes are the categorical penalty/probability axes of a project.
type Attributes struct {
	Domain        string
	OrgType       string
	Authority     string
	FundingSource string
	Kinetic       bool
	Intel         bool
}

// Lineage is sponsor/program context carried through the pipeline but never
// mutated by the engine.
type Lineage struct {
	Sponsor      string
	ExecutingOrg string
	ProgramID    string
}

// Project is one simulated RDT&E effort. It is mutated exclusively by its
// own per-tick turn in the Scheduler.
type Project struct {
	ID      string
	Stage   Stage
	TRL     float64
	Quality float64

	Attrs   Attributes
	Lineage Lineage

	// Hub marks association with a collaboration hub (ecosystem bonus).
	Hub bool

	// Priorities are the project's declared policy priorities, matched
	// against the configured alignment flags.
	Priorities []string

	// AttemptTick is the tick the project entered feasibility; cycle time
	// runs from here to adoption.
	AttemptTick int

	// StageEnteredTick is the tick the current stage was entered; stage
	// latency runs from here to the passing test gate.
	StageEnteredTick int

	// LegalStatus caches the legal review for the current stage entry.
	// Empty until drawn; cleared when the stage changes.
	LegalStatus LegalOutcome
}

// axisValue maps a penalty axis to this project's category value on it.
func (p *Project) axisValue(axis Axis) string {
	switch axis {
	case AxisResearcher:
		return p.ID
	case AxisDomain:
		return p.Attrs.Domain
	case AxisOrgType:
		return p.Attrs.OrgType
	case AxisAuthority:
		return p.Attrs.Authority
	case AxisFundingSource:
		return p.Attrs.FundingSource
	case AxisKinetic:
		return boolValue(p.Attrs.Kinetic)
	case AxisIntel:
		return boolValue(p.Attrs.Intel)
	case AxisStage:
		return string(p.Stage)
	}
	return ""
}

func boolValue(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// aligned reports whether any declared priority matches a configured
// alignment flag. The second return is false when the project declares no
// priorities at all, which means neither bonus nor penalty applies.
func (p *Project) aligned(flags []string) (bool, bool) {
	if len(p.Priorities) == 0 {
		return false, false
	}
	for _, priority := range p.Priorities {
		for _, flag := range flags {
			if priority == flag {
				return true, true
			}
		}
	}
	return false, true
}

// advanceStage moves the project to the next pipeline stage, resetting the
// stage-entry tick and the cached legal status.
func (p *Project) advanceStage(next Stage, tick int) {
	p.Stage = next
	p.StageEnteredTick = tick
	p.LegalStatus = ""
}

// improveQuality applies the learning-rate bump after a rejection, capped
// at 1.
func (p *Project) improveQuality(learningRate, draw float64) {
	p.Quality = clamp(p.Quality+learningRate*draw, 0, 1)
}

// raiseTRL increments TRL by the per-stage delta, clamped to the configured
// maximum. TRL never decreases.
func (p *Project) raiseTRL(delta, max float64) {
	p.TRL = clamp(p.TRL+delta, p.TRL, max)
	if p.TRL < 0 {
		p.TRL = 0
	}
}
