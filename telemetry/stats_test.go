package telemetry

import (
	"math"
	"testing"
)

func TestComputeMagnitudeStats(t *testing.T) {
	values := []float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1}
	s := ComputeMagnitudeStats(values)

	if math.Abs(s.Mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", s.Mean)
	}
	if math.Abs(s.P50-0.5) > 0.06 {
		t.Errorf("p50 = %v, want ~0.5", s.P50)
	}
	if s.P90 < 0.85 || s.P90 > 0.95 {
		t.Errorf("p90 = %v, want ~0.9", s.P90)
	}
	if s.Max != 1.0 {
		t.Errorf("max = %v, want 1.0", s.Max)
	}
	if s.Std <= 0 {
		t.Errorf("std = %v, want positive", s.Std)
	}
}

func TestComputeMagnitudeStatsEdgeCases(t *testing.T) {
	if s := ComputeMagnitudeStats(nil); s != (MagnitudeSummary{}) {
		t.Errorf("empty slice should return zero summary, got %+v", s)
	}

	s := ComputeMagnitudeStats([]float64{3})
	if s.Mean != 3 || s.Std != 0 || s.Max != 3 || s.P50 != 3 {
		t.Errorf("single value summary wrong: %+v", s)
	}
}

func TestFieldRMS(t *testing.T) {
	// Two cells, three channels: (3,4,0) and (0,0,0)
	data := []float32{3, 4, 0, 0, 0, 0}
	got := FieldRMS(data, 2)
	want := 5 / math.Sqrt(2)
	if math.Abs(got-want) > 1e-5 {
		t.Errorf("FieldRMS = %v, want %v", got, want)
	}

	if FieldRMS(nil, 0) != 0 {
		t.Error("expected zero RMS for empty field")
	}
}
