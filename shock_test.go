package rdte

import "testing"

// Scenario C boundaries: window [80, 100) is active at 80 and 85, inactive
// at 100 and 105.
func TestShock_WindowBoundaries(t *testing.T) {
	sc := NewShockController(ShockWindow{Start: 80, Duration: 20, Magnitude: 1.0})

	cases := []struct {
		tick   int
		active bool
	}{
		{0, false},
		{79, false},
		{80, true},
		{85, true},
		{99, true},
		{100, false},
		{105, false},
	}
	for _, c := range cases {
		if got := sc.ActiveAt(c.tick); got != c.active {
			t.Errorf("tick %d: active = %v, want %v", c.tick, got, c.active)
		}
	}
}

func TestShock_AdvanceTracksState(t *testing.T) {
	sc := NewShockController(ShockWindow{Start: 2, Duration: 3, Magnitude: 0.5})

	entered := 0
	for tick := 0; tick < 10; tick++ {
		if sc.Advance(tick) {
			entered++
		}
		wantActive := tick >= 2 && tick < 5
		if sc.Active() != wantActive {
			t.Errorf("tick %d: Active() = %v, want %v", tick, sc.Active(), wantActive)
		}
		wantMag := 0.0
		if wantActive {
			wantMag = 0.5
		}
		if sc.Magnitude() != wantMag {
			t.Errorf("tick %d: Magnitude() = %v, want %v", tick, sc.Magnitude(), wantMag)
		}
	}

	if entered != 1 {
		t.Errorf("window entered %d times, want exactly 1", entered)
	}
	if !sc.Entered() {
		t.Error("Entered() = false after the window ran")
	}
}

func TestShock_ZeroDurationNeverActivates(t *testing.T) {
	sc := NewShockController(ShockWindow{Start: 0, Duration: 0, Magnitude: 1.0})

	for tick := 0; tick < 50; tick++ {
		if sc.Advance(tick) || sc.Active() {
			t.Fatalf("tick %d: zero-duration window activated", tick)
		}
	}
	if sc.Entered() {
		t.Error("Entered() = true for a disabled window")
	}
}
