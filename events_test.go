package rdte

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEvents_MemoryRecorderKeepsOrder(t *testing.T) {
	rec := NewMemoryRecorder()
	for i := 0; i < 5; i++ {
		rec.Record(Event{Tick: i, ProjectID: "prj-000", Gate: GateFunding})
	}

	if rec.Len() != 5 {
		t.Fatalf("len = %d, want 5", rec.Len())
	}
	for i, e := range rec.Events() {
		if e.Tick != i {
			t.Errorf("event %d tick = %d, want %d", i, e.Tick, i)
		}
	}
}

func TestEvents_RecorderFunc(t *testing.T) {
	var got []Event
	rec := RecorderFunc(func(e Event) { got = append(got, e) })

	rec.Record(Event{Tick: 3, Gate: GateTest})
	if len(got) != 1 || got[0].Tick != 3 {
		t.Errorf("recorded = %+v", got)
	}
}

func TestEvents_NilRecorderIsSafe(t *testing.T) {
	record(nil, Event{Tick: 1}) // must not panic
}

func TestEvents_LegalFieldOmittedForProbabilisticGates(t *testing.T) {
	data, err := json.Marshal(Event{
		Tick: 1, ProjectID: "prj-001", Gate: GateFunding,
		Regime: RegimeLinear, Stage: StageFeasibility,
		Final: 0.45, StageLatency: NoLatency,
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), `"legal"`) {
		t.Errorf("legal field serialized on a funding event: %s", data)
	}

	data, err = json.Marshal(Event{Gate: GateLegal, Legal: LegalCaveats, StageLatency: NoLatency})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"legal":"favorable_with_caveats"`) {
		t.Errorf("legal outcome missing: %s", data)
	}
}

func TestEvents_StageLatencyOnAdvancingGatesOnly(t *testing.T) {
	cfg := certainConfig()
	cfg.Adoption.Threshold = 0.1

	rec := NewMemoryRecorder()
	sched, err := NewScheduler(cfg, rec)
	if err != nil {
		t.Fatal(err)
	}
	sched.Run()

	for _, e := range rec.Events() {
		switch e.Gate {
		case GateTest, GateAdoption:
			if e.Passed && e.StageLatency < 0 {
				t.Errorf("passing %s event has no stage latency: %+v", e.Gate, e)
			}
			if !e.Passed && e.StageLatency != NoLatency {
				t.Errorf("failing %s event carries latency: %+v", e.Gate, e)
			}
		default:
			if e.StageLatency != NoLatency {
				t.Errorf("%s event carries latency: %+v", e.Gate, e)
			}
		}
	}
}
