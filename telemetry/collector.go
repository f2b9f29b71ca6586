package telemetry

import "math"

// FieldSample is the field state the engine hands over at window end.
type FieldSample struct {
	GridSize int
	Cells    int
	Data     []float32
	Mags     []float64 // sorted in place by Flush

	Active  int
	Pulses  int
	Ripples int
	Swirls  int
	Slices  int

	// Cumulative emitter counters from the manager
	SpawnedTotal int
	RetiredTotal int
}

// Collector accumulates per-step events within fixed windows and produces
// FieldStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float32

	windowStartTick int32

	// Baselines for the manager's cumulative counters
	spawnedBase int
	retiredBase int

	pointerCells int
	pointerSpeed float64
	pointerSteps int
}

// NewCollector creates a collector whose windows last windowDurationSec of
// simulated time at dt seconds per step.
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticks := int32(math.Round(windowDurationSec / float64(dt)))
	if ticks < 1 {
		ticks = 1
	}
	return &Collector{
		windowDurationTicks: ticks,
		dt:                  dt,
	}
}

// RecordPointer records one step's pointer push.
func (c *Collector) RecordPointer(cells int, speed float32) {
	c.pointerCells += cells
	c.pointerSpeed += float64(speed)
	c.pointerSteps++
}

// ShouldFlush returns true once a full window has elapsed.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces the window's FieldStats and starts a new window.
func (c *Collector) Flush(currentTick int32, s FieldSample) FieldStats {
	mag := ComputeMagnitudeStats(s.Mags)

	var meanSpeed float64
	if c.pointerSteps > 0 {
		meanSpeed = c.pointerSpeed / float64(c.pointerSteps)
	}

	stats := FieldStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),
		GridSize:        s.GridSize,

		MagMean: mag.Mean,
		MagStd:  mag.Std,
		MagP50:  mag.P50,
		MagP90:  mag.P90,
		MagMax:  mag.Max,
		RMS:     FieldRMS(s.Data, s.Cells),

		Active:  s.Active,
		Pulses:  s.Pulses,
		Ripples: s.Ripples,
		Swirls:  s.Swirls,
		Slices:  s.Slices,

		Spawned:      s.SpawnedTotal - c.spawnedBase,
		Retired:      s.RetiredTotal - c.retiredBase,
		PointerCells: c.pointerCells,
		PointerSpeed: meanSpeed,
	}

	c.windowStartTick = currentTick
	c.spawnedBase = s.SpawnedTotal
	c.retiredBase = s.RetiredTotal
	c.pointerCells = 0
	c.pointerSpeed = 0
	c.pointerSteps = 0

	return stats
}

// WindowDurationTicks returns the number of steps per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
