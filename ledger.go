package rdte

// Axis is a categorical dimension along which repeated failures accumulate.
type Axis string

const (
	AxisResearcher    Axis = "researcher"
	AxisDomain        Axis = "domain"
	AxisOrgType       Axis = "org_type"
	AxisAuthority     Axis = "authority"
	AxisFundingSource Axis = "funding_source"
	AxisKinetic       Axis = "kinetic"
	AxisIntel         Axis = "intel"
	AxisStage         Axis = "stage"
)

// Axes lists every penalty axis in a fixed order.
var Axes = []Axis{
	AxisResearcher, AxisDomain, AxisOrgType, AxisAuthority,
	AxisFundingSource, AxisKinetic, AxisIntel, AxisStage,
}

func knownAxis(a Axis) bool {
	for _, known := range Axes {
		if a == known {
			return true
		}
	}
	return false
}

type axisKey struct {
	Axis  Axis
	Value string
}

// PenaltyLedger tracks accumulated failure counts per (axis, category) pair
// and converts them into a probability multiplier. Counters are never
// negative and are implicitly zero for unseen keys. The ledger is mutated
// only by the Scheduler (decay) and the project/adoption components (bump);
// it is not safe for concurrent use and each run owns its own instance.
type PenaltyLedger struct {
	counts map[axisKey]float64
	cfg    PenaltyConfig
}

// NewPenaltyLedger creates an empty ledger with the given penalty
// configuration.
func NewPenaltyLedger(cfg PenaltyConfig) *PenaltyLedger {
	return &PenaltyLedger{
		counts: make(map[axisKey]float64),
		cfg:    cfg,
	}
}

// Bump records one failure on (axis, value). Empty category values are
// ignored so degenerate attribute data never poisons the ledger.
func (l *PenaltyLedger) Bump(axis Axis, value string) {
	if value == "" {
		return
	}
	l.counts[axisKey{axis, value}]++
}

// BumpProject records one failure on every given axis using the project's
// attribute values.
func (l *PenaltyLedger) BumpProject(axes []Axis, p *Project) {
	for _, axis := range axes {
		l.Bump(axis, p.axisValue(axis))
	}
}

// Count returns the current failure count for (axis, value).
func (l *PenaltyLedger) Count(axis Axis, value string) float64 {
	return l.counts[axisKey{axis, value}]
}

// Decay shrinks every counter by the configured decay rate. Invoked once per
// tick by the Scheduler, before any project acts. A zero rate leaves the
// ledger untouched.
func (l *PenaltyLedger) Decay() {
	if l.cfg.DecayRate <= 0 {
		return
	}
	factor := 1 - l.cfg.DecayRate
	for key, count := range l.counts {
		next := count * factor
		if next < 1e-9 {
			delete(l.counts, key)
			continue
		}
		l.counts[key] = next
	}
}

// Multiplier returns the product, over the given axes, of
//
//	max(1 − MaxPenalty, 1 − PerFailure × min(count, CountCap))
//
// for the project's value on each axis. A project with no recorded failures
// on any axis has multiplier exactly 1.
func (l *PenaltyLedger) Multiplier(axes []Axis, p *Project) float64 {
	multiplier := 1.0
	for _, axis := range axes {
		multiplier *= l.axisTerm(axis, p.axisValue(axis))
	}
	return multiplier
}

func (l *PenaltyLedger) axisTerm(axis Axis, value string) float64 {
	count := l.Count(axis, value)
	if count <= 0 {
		return 1.0
	}
	if count > l.cfg.CountCap && l.cfg.CountCap > 0 {
		count = l.cfg.CountCap
	}
	term := 1 - l.cfg.PerFailure*count
	if floor := 1 - l.cfg.MaxPenalty; term < floor {
		term = floor
	}
	return term
}

// Size returns the number of distinct (axis, category) pairs with a nonzero
// counter.
func (l *PenaltyLedger) Size() int {
	return len(l.counts)
}
