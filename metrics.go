package rdte

// MetricTracker aggregates run outcomes online. It consumes the same stream
// of outcomes the Event Recorder sees and produces the end-of-run summary.
type MetricTracker struct {
	attempts    int
	transitions int
	abandoned   int

	cycleTimeSum   int
	cycleTimeCount int

	adoptionsPerTick []int

	shocks int
}

// NewMetricTracker returns an empty tracker.
func NewMetricTracker() *MetricTracker {
	return &MetricTracker{}
}

// OnAttempt registers a project entering feasibility.
func (m *MetricTracker) OnAttempt() {
	m.attempts++
}

// OnTransition registers a successful field adoption and its cycle time in
// ticks, measured from the project's original attempt tick.
func (m *MetricTracker) OnTransition(cycleTime int) {
	m.transitions++
	m.cycleTimeSum += cycleTime
	m.cycleTimeCount++
}

// OnAbandoned registers a hard halt from an unfavorable legal review. The
// project stays in the attempts denominator but never reaches transitions.
func (m *MetricTracker) OnAbandoned() {
	m.abandoned++
}

// OnShockEntered registers the activation of a shock window.
func (m *MetricTracker) OnShockEntered() {
	m.shocks++
}

// RegisterTick records the number of new adoptions observed this tick, for
// the diffusion-speed series.
func (m *MetricTracker) RegisterTick(adopted int) {
	m.adoptionsPerTick = append(m.adoptionsPerTick, adopted)
}

// AdoptionsPerTick returns the per-tick adoption count series, one entry per
// simulated tick, for external visualization collaborators.
func (m *MetricTracker) AdoptionsPerTick() []int {
	return m.adoptionsPerTick
}

// Summary is the end-of-run metrics report. Rates with an empty denominator
// are nil, never zero-filled, so "no data" stays distinguishable from
// "rate of zero".
type Summary struct {
	Attempts    int `json:"attempts"`
	Transitions int `json:"transitions"`
	Abandoned   int `json:"abandoned"`
	Ticks       int `json:"ticks"`
	Shocks      int `json:"shocks"`

	// TransitionRate is transitions/attempts; nil when there were no
	// attempts.
	TransitionRate *float64 `json:"transition_rate"`

	// AvgCycleTime is the mean cycle time over transitioned projects only;
	// nil when nothing transitioned.
	AvgCycleTime *float64 `json:"avg_cycle_time"`

	// DiffusionSpeed is total adoptions divided by total ticks.
	DiffusionSpeed float64 `json:"diffusion_speed"`
}

// Summarize computes the run summary.
func (m *MetricTracker) Summarize() Summary {
	s := Summary{
		Attempts:    m.attempts,
		Transitions: m.transitions,
		Abandoned:   m.abandoned,
		Ticks:       len(m.adoptionsPerTick),
		Shocks:      m.shocks,
	}
	if m.attempts > 0 {
		rate := float64(m.transitions) / float64(m.attempts)
		s.TransitionRate = &rate
	}
	if m.cycleTimeCount > 0 {
		avg := float64(m.cycleTimeSum) / float64(m.cycleTimeCount)
		s.AvgCycleTime = &avg
	}
	if s.Ticks > 0 {
		total := 0
		for _, n := range m.adoptionsPerTick {
			total += n
		}
		s.DiffusionSpeed = float64(total) / float64(s.Ticks)
	}
	return s
}
