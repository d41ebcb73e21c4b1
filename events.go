package rdte

// NoLatency marks an event that does not advance a stage.
const NoLatency = -1

// Event is one immutable gate evaluation record. Gates short-circuited by an
// earlier failure in the same tick are never recorded. The stored fields are
// enough to reconstruct why an outcome occurred without re-running the
// simulation.
type Event struct {
	Tick      int    `json:"tick"`
	ProjectID string `json:"project_id"`
	Gate      Gate   `json:"gate"`
	Regime    Regime `json:"regime"`
	Stage     Stage  `json:"stage"`

	Base       float64 `json:"base"`
	Modifiers  float64 `json:"modifiers"`
	Penalties  float64 `json:"penalties"`
	Multiplier float64 `json:"multiplier"`
	Final      float64 `json:"final"`

	Passed bool `json:"passed"`

	// Legal is set on legal-review events only.
	Legal LegalOutcome `json:"legal,omitempty"`

	// StageLatency is the ticks spent in the stage, set on stage-advancing
	// gates (a passing test, an adoption decision); NoLatency otherwise.
	StageLatency int `json:"stage_latency"`
}

// Recorder is an append-only sink for gate evaluation records. A run's
// recorder receives exactly one Event per gate actually evaluated, in
// deterministic order given the run seed.
type Recorder interface {
	Record(Event)
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(Event)

// Record calls f(e).
func (f RecorderFunc) Record(e Event) { f(e) }

// MemoryRecorder buffers every event in order. Suitable for tests and for
// single runs whose events are exported afterwards.
type MemoryRecorder struct {
	events []Event
}

// NewMemoryRecorder returns an empty in-memory recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// Record appends one event.
func (r *MemoryRecorder) Record(e Event) {
	r.events = append(r.events, e)
}

// Events returns the recorded sequence. The slice is the recorder's own
// backing store; callers must not mutate it.
func (r *MemoryRecorder) Events() []Event {
	return r.events
}

// Len returns the number of recorded events.
func (r *MemoryRecorder) Len() int {
	return len(r.events)
}

// record is the nil-safe recording helper used by the engine.
func record(r Recorder, e Event) {
	if r != nil {
		r.Record(e)
	}
}

// gateEvent builds the Event for a probabilistic gate evaluation.
func gateEvent(tick int, regime Regime, p *Project, res GateResult, passed bool, latency int) Event {
	return Event{
		Tick:         tick,
		ProjectID:    p.ID,
		Gate:         res.Gate,
		Regime:       regime,
		Stage:        p.Stage,
		Base:         res.Base,
		Modifiers:    res.Modifiers,
		Penalties:    res.Penalties,
		Multiplier:   res.Multiplier,
		Final:        res.Final,
		Passed:       passed,
		StageLatency: latency,
	}
}
