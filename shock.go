package rdte

// ShockController answers whether a shock is active at a given tick and with
// what magnitude. A run has at most one window, [Start, Start+Duration);
// outside it the regime's default probabilities and environmental signal
// apply unchanged. No stochastic or multi-event shock process is modeled.
type ShockController struct {
	window  ShockWindow
	active  bool
	entered bool // window was entered at least once this run
}

// NewShockController builds a controller for the run's single window.
// A zero-duration window never activates.
func NewShockController(window ShockWindow) *ShockController {
	return &ShockController{window: window}
}

// Advance resolves the active/inactive state for the given tick. The
// Scheduler calls it once at tick start, before any project acts, so every
// project observes the same shock context within a tick. It reports whether
// the window was entered on this exact tick.
func (sc *ShockController) Advance(tick int) bool {
	wasActive := sc.active
	sc.active = sc.inWindow(tick)
	if sc.active && !wasActive {
		sc.entered = true
		return true
	}
	return false
}

// Active reports whether the shock window covers the last advanced tick.
func (sc *ShockController) Active() bool {
	return sc.active
}

// ActiveAt reports whether the window covers an arbitrary tick, independent
// of controller state. Useful for pure probability computations.
func (sc *ShockController) ActiveAt(tick int) bool {
	return sc.inWindow(tick)
}

// Magnitude returns the window's magnitude. Zero while inactive.
func (sc *ShockController) Magnitude() float64 {
	if !sc.active {
		return 0
	}
	return sc.window.Magnitude
}

// Entered reports whether the window activated at any point so far.
func (sc *ShockController) Entered() bool {
	return sc.entered
}

func (sc *ShockController) inWindow(tick int) bool {
	if sc.window.Duration <= 0 {
		return false
	}
	return tick >= sc.window.Start && tick < sc.window.Start+sc.window.Duration
}
