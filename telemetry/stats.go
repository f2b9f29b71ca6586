package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/stat"
)

// FieldStats summarizes the displacement field over one stats window.
type FieldStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`
	GridSize        int     `csv:"grid_size"`

	// Per-cell displacement magnitude, sampled at window end
	MagMean float64 `csv:"mag_mean"`
	MagStd  float64 `csv:"mag_std"`
	MagP50  float64 `csv:"mag_p50"`
	MagP90  float64 `csv:"mag_p90"`
	MagMax  float64 `csv:"mag_max"`
	RMS     float64 `csv:"rms"`

	// Emitters alive at window end
	Active  int `csv:"active"`
	Pulses  int `csv:"pulses"`
	Ripples int `csv:"ripples"`
	Swirls  int `csv:"swirls"`
	Slices  int `csv:"slices"`

	// Events during window
	Spawned      int     `csv:"spawned"`
	Retired      int     `csv:"retired"`
	PointerCells int     `csv:"pointer_cells"`
	PointerSpeed float64 `csv:"pointer_speed"`
}

// MagnitudeSummary holds the distribution of cell magnitudes.
type MagnitudeSummary struct {
	Mean, Std, P50, P90, Max float64
}

// ComputeMagnitudeStats summarizes mags. The slice is sorted in place.
// Returns the zero value for an empty slice.
func ComputeMagnitudeStats(mags []float64) MagnitudeSummary {
	n := len(mags)
	if n == 0 {
		return MagnitudeSummary{}
	}
	sort.Float64s(mags)

	var s MagnitudeSummary
	if n == 1 {
		s.Mean = mags[0]
	} else {
		s.Mean, s.Std = stat.MeanStdDev(mags, nil)
	}
	s.P50 = stat.Quantile(0.5, stat.LinInterp, mags, nil)
	s.P90 = stat.Quantile(0.9, stat.LinInterp, mags, nil)
	s.Max = mags[n-1]
	return s
}

// FieldRMS returns the root-mean-square displacement per cell. Unused
// channels are zero and do not contribute.
func FieldRMS(data []float32, cells int) float64 {
	if cells <= 0 || len(data) == 0 {
		return 0
	}
	norm := blas32.Nrm2(blas32.Vector{N: len(data), Inc: 1, Data: data})
	return float64(norm) / math.Sqrt(float64(cells))
}

// LogValue implements slog.LogValuer.
func (s FieldStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("tick", int(s.WindowEndTick)),
		slog.Float64("t", math.Round(s.SimTimeSec*100)/100),
		slog.Int("grid", s.GridSize),
		slog.Float64("mag_mean", round3(s.MagMean)),
		slog.Float64("mag_p90", round3(s.MagP90)),
		slog.Float64("mag_max", round3(s.MagMax)),
		slog.Float64("rms", round3(s.RMS)),
		slog.Int("active", s.Active),
		slog.Int("spawned", s.Spawned),
		slog.Int("retired", s.Retired),
		slog.Int("pointer_cells", s.PointerCells),
	)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
