package game

// Scheduler is driven by the host's frame callback. Tick returns false once
// the scheduler is stopped.
type Scheduler interface {
	Tick(frameDT float64) bool
	Stop()
	Stopped() bool
}

// FixedClock counts fixed logical steps. Host frame time never scales a step.
type FixedClock struct {
	dt           float32
	stepsPerTick int
	step         int32
	stopped      bool
}

// NewFixedClock creates a clock advancing dt seconds per step.
func NewFixedClock(dt float32, stepsPerTick int) *FixedClock {
	if dt <= 0 {
		dt = 1.0 / 60.0
	}
	if stepsPerTick < 1 {
		stepsPerTick = 1
	}
	return &FixedClock{dt: dt, stepsPerTick: stepsPerTick}
}

// DT returns seconds per step.
func (c *FixedClock) DT() float32 { return c.dt }

// StepsPerTick returns how many steps each host tick runs.
func (c *FixedClock) StepsPerTick() int { return c.stepsPerTick }

// SetStepsPerTick changes the steps per host tick, minimum 1.
func (c *FixedClock) SetStepsPerTick(n int) {
	if n < 1 {
		n = 1
	}
	c.stepsPerTick = n
}

// Step returns the number of completed steps.
func (c *FixedClock) Step() int32 { return c.step }

// SimTime returns elapsed logical seconds.
func (c *FixedClock) SimTime() float64 { return float64(c.step) * float64(c.dt) }

// Stop sets the stop flag. There is no restart.
func (c *FixedClock) Stop() { c.stopped = true }

// Stopped reports whether Stop was called.
func (c *FixedClock) Stopped() bool { return c.stopped }

func (c *FixedClock) advance() { c.step++ }
