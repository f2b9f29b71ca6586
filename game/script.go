package game

import "math"

// Script stands in for a user when no host is attached: the pointer traces
// a figure-eight and a blast fires at the pointer every BlastEvery steps.
type Script struct {
	SweepPeriod float64 // seconds per figure-eight
	SweepRadius float64 // normalized half-extent of the sweep
	BlastEvery  int32   // 0 disables blasts
}

// DefaultScript returns the sweep used by headless runs.
func DefaultScript() Script {
	return Script{SweepPeriod: 4, SweepRadius: 0.35, BlastEvery: 90}
}

// Position returns the normalized pointer position at simulated time t.
func (s Script) Position(t float64) (nx, ny float32) {
	period := s.SweepPeriod
	if period <= 0 {
		period = 4
	}
	phase := 2 * math.Pi * t / period
	nx = float32(0.5 + s.SweepRadius*math.Sin(phase))
	ny = float32(0.5 + s.SweepRadius*math.Sin(2*phase)/2)
	return clamp01(nx), clamp01(ny)
}

// Apply feeds the engine this step's scripted input. Call once before Tick.
func (s Script) Apply(e *Engine) {
	nx, ny := s.Position(e.SimTime())
	e.pointer.OnMove(nx, ny)

	step := e.Step()
	if s.BlastEvery > 0 && step > 0 && step%s.BlastEvery == 0 {
		e.PresetBlast(nx, ny)
	}
}
