package telemetry

import (
	"log/slog"
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartStep()
		pc.StartPhase(PhaseDecay)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseEmitters)
		time.Sleep(200 * time.Microsecond)
		pc.EndStep()
	}

	stats := pc.Stats()

	if stats.AvgStepDuration <= 0 {
		t.Error("expected positive average step duration")
	}
	if _, ok := stats.PhaseAvg[PhaseDecay]; !ok {
		t.Error("expected decay phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseEmitters]; !ok {
		t.Error("expected emitters phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhasePointer]; ok {
		t.Error("expected pointer phase to be absent when never started")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartStep()
		pc.StartPhase(PhaseDecay)
		time.Sleep(10 * time.Microsecond)
		pc.EndStep()
	}

	if pc.sampleCount != 5 {
		t.Errorf("expected sample count capped at window size 5, got %d", pc.sampleCount)
	}

	stats := pc.Stats()
	if stats.AvgStepDuration <= 0 {
		t.Error("expected positive average step duration after window filled")
	}
	if stats.StepsPerSecond <= 0 {
		t.Error("expected positive steps per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartStep()
		pc.StartPhase(PhasePointer)
		time.Sleep(1 * time.Millisecond)
		pc.StartPhase(PhaseEmitters)
		time.Sleep(20 * time.Millisecond)
		pc.EndStep()
	}

	stats := pc.Stats()
	if stats.PhasePct[PhaseEmitters] <= stats.PhasePct[PhasePointer] {
		t.Errorf("expected emitters (%v%%) > pointer (%v%%)",
			stats.PhasePct[PhaseEmitters], stats.PhasePct[PhasePointer])
	}

	row := stats.ToCSV(120)
	if row.WindowEnd != 120 {
		t.Errorf("expected window_end 120, got %d", row.WindowEnd)
	}
	if row.EmittersPct != stats.PhasePct[PhaseEmitters] {
		t.Errorf("expected csv emitters_pct to match stats")
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	if stats.AvgStepDuration != 0 {
		t.Error("expected zero avg step duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}

	// Logging an empty window must not panic
	_ = stats.LogValue().Resolve()
	if stats.LogValue().Kind() != slog.KindGroup {
		t.Error("expected perf stats to log as a group")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("expected FPS in (0, 70] with 16ms frames, got %v", stats.FPS)
	}
}
