package rdte

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestMetrics_EmptyRunReportsNullRates(t *testing.T) {
	m := NewMetricTracker()
	s := m.Summarize()

	if s.TransitionRate != nil {
		t.Errorf("transition rate = %v, want nil with zero attempts", *s.TransitionRate)
	}
	if s.AvgCycleTime != nil {
		t.Errorf("avg cycle time = %v, want nil with zero transitions", *s.AvgCycleTime)
	}
	if s.DiffusionSpeed != 0 {
		t.Errorf("diffusion speed = %v, want 0", s.DiffusionSpeed)
	}
}

func TestMetrics_TransitionRate(t *testing.T) {
	m := NewMetricTracker()
	for i := 0; i < 8; i++ {
		m.OnAttempt()
	}
	m.OnTransition(10)
	m.OnTransition(30)

	s := m.Summarize()
	if s.TransitionRate == nil || math.Abs(*s.TransitionRate-0.25) > 1e-12 {
		t.Errorf("transition rate = %v, want 0.25", s.TransitionRate)
	}
	if *s.TransitionRate < 0 || *s.TransitionRate > 1 {
		t.Errorf("transition rate %v outside [0,1]", *s.TransitionRate)
	}
	if s.AvgCycleTime == nil || *s.AvgCycleTime != 20 {
		t.Errorf("avg cycle time = %v, want 20", s.AvgCycleTime)
	}
}

func TestMetrics_AttemptsWithoutTransitionsIsZeroRate(t *testing.T) {
	m := NewMetricTracker()
	m.OnAttempt()
	m.OnAbandoned()

	s := m.Summarize()
	if s.TransitionRate == nil || *s.TransitionRate != 0 {
		t.Errorf("transition rate = %v, want explicit 0", s.TransitionRate)
	}
	if s.AvgCycleTime != nil {
		t.Errorf("avg cycle time = %v, want nil", *s.AvgCycleTime)
	}
	if s.Abandoned != 1 {
		t.Errorf("abandoned = %d, want 1", s.Abandoned)
	}
}

func TestMetrics_DiffusionSpeed(t *testing.T) {
	m := NewMetricTracker()
	for _, n := range []int{0, 2, 0, 1, 0} {
		m.RegisterTick(n)
	}

	s := m.Summarize()
	if math.Abs(s.DiffusionSpeed-0.6) > 1e-12 {
		t.Errorf("diffusion speed = %v, want 0.6", s.DiffusionSpeed)
	}
	if s.Ticks != 5 {
		t.Errorf("ticks = %d, want 5", s.Ticks)
	}

	series := m.AdoptionsPerTick()
	if len(series) != 5 || series[1] != 2 {
		t.Errorf("adoption series = %v", series)
	}
}

// The external reporting contract relies on null (not zero) for undefined
// rates; the JSON encoding must preserve that.
func TestMetrics_SummaryJSONNulls(t *testing.T) {
	data, err := json.Marshal(NewMetricTracker().Summarize())
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"transition_rate":null`, `"avg_cycle_time":null`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("summary JSON missing %s: %s", field, data)
		}
	}
}
