package systems

import (
	"math"
	"math/rand"

	"github.com/LuoKevin/digital-profile/config"
)

// Direction selects whether a pulse pushes away from or toward its center.
type Direction uint8

const (
	Outward Direction = iota
	Inward
)

// PulseParams configures TriggerPulse. X and Y are normalized; zero-valued
// Radius and Strength take the configured defaults.
type PulseParams struct {
	X, Y      float32
	Radius    float32
	Strength  float32
	Direction Direction
}

// RippleParams configures TriggerRipple. X and Y are normalized; zero-valued
// fields take the configured defaults.
type RippleParams struct {
	X, Y       float32
	Radius     float32
	Amplitude  float32
	Wavelength float32
	Speed      float32
	Decay      float32
}

// SliceParams configures TriggerSlice. Y is normalized; zero-valued fields
// take the configured defaults. Duration is the slice lifetime in seconds.
type SliceParams struct {
	Y        float32
	Height   float32
	Offset   float32
	Duration float32
}

// SwirlParams configures TriggerSwirl. X and Y are normalized; zero-valued
// Radius and Strength take the configured defaults. Swirls turn clockwise
// unless CounterClockwise is set.
type SwirlParams struct {
	X, Y             float32
	Radius           float32
	Strength         float32
	CounterClockwise bool
}

// EmitterManager owns the live emitters and applies them to a grid each step.
type EmitterManager struct {
	active   []Emitter
	defaults config.EmittersConfig
	rng      *rand.Rand

	spawned int
	retired int
}

// NewEmitterManager creates an empty manager. rng drives slice jitter and the
// blast preset's swirl handedness.
func NewEmitterManager(defaults config.EmittersConfig, rng *rand.Rand) *EmitterManager {
	return &EmitterManager{
		active:   make([]Emitter, 0, 16),
		defaults: defaults,
		rng:      rng,
	}
}

// normToGrid maps a normalized position to grid space with y flipped.
func normToGrid(n int, x, y float32) (gx, gy float32) {
	size := float32(n)
	return x * size, (1 - y) * size
}

// orDefault returns v unless it is zero.
func orDefault(v float32, def float64) float32 {
	if v == 0 {
		return float32(def)
	}
	return v
}

// Add appends a custom emitter. It is applied after every emitter already live.
func (m *EmitterManager) Add(e Emitter) {
	m.active = append(m.active, e)
	m.spawned++
}

// TriggerPulse spawns a radial push on an n×n grid.
func (m *EmitterManager) TriggerPulse(n int, p PulseParams) *Pulse {
	d := m.defaults.Pulse
	gx, gy := normToGrid(n, p.X, p.Y)
	strength := orDefault(p.Strength, d.Strength)
	if p.Direction == Inward {
		strength = -strength
	}
	e := &Pulse{
		Lifecycle: Lifecycle{Lifetime: float32(d.Lifetime), Decay: float32(d.Decay)},
		X:         gx,
		Y:         gy,
		Radius:    orDefault(p.Radius, d.Radius),
		Strength:  strength,
	}
	m.Add(e)
	return e
}

// TriggerRipple spawns a travelling radial wave on an n×n grid.
func (m *EmitterManager) TriggerRipple(n int, p RippleParams) *Ripple {
	d := m.defaults.Ripple
	gx, gy := normToGrid(n, p.X, p.Y)
	wavelength := orDefault(p.Wavelength, d.Wavelength)
	e := &Ripple{
		Lifecycle:  Lifecycle{Lifetime: float32(d.Lifetime), Decay: orDefault(p.Decay, d.Decay)},
		X:          gx,
		Y:          gy,
		Radius:     orDefault(p.Radius, d.Radius),
		Amplitude:  orDefault(p.Amplitude, d.Amplitude),
		Wavenumber: float32(2 * math.Pi / float64(wavelength)),
		Speed:      orDefault(p.Speed, d.Speed),
	}
	m.Add(e)
	return e
}

// TriggerSlice spawns a horizontal shear band on an n×n grid.
func (m *EmitterManager) TriggerSlice(n int, p SliceParams) *Slice {
	d := m.defaults.Slice
	_, row := normToGrid(n, 0, clamp01(p.Y))
	e := &Slice{
		Lifecycle: Lifecycle{Lifetime: orDefault(p.Duration, d.Duration), Decay: float32(d.Decay)},
		Row:       row,
		Height:    orDefault(p.Height, d.Height),
		Offset:    orDefault(p.Offset, d.Offset),
	}
	m.Add(e)
	return e
}

// TriggerSwirl spawns a tangential push on an n×n grid.
func (m *EmitterManager) TriggerSwirl(n int, p SwirlParams) *Swirl {
	d := m.defaults.Swirl
	gx, gy := normToGrid(n, p.X, p.Y)
	strength := orDefault(p.Strength, d.Strength)
	if p.CounterClockwise {
		strength = -strength
	}
	e := &Swirl{
		Lifecycle: Lifecycle{Lifetime: float32(d.Lifetime), Decay: float32(d.Decay)},
		X:         gx,
		Y:         gy,
		Radius:    orDefault(p.Radius, d.Radius),
		Strength:  strength,
	}
	m.Add(e)
	return e
}

// PresetBlast issues the click composite: an outward pulse, a ripple, a slice
// through the click row and a swirl of random handedness.
func (m *EmitterManager) PresetBlast(n int, x, y float32) {
	b := m.defaults.Blast
	m.TriggerPulse(n, PulseParams{
		X: x, Y: y,
		Radius:    float32(b.PulseRadius),
		Strength:  float32(b.PulseStrength),
		Direction: Outward,
	})
	m.TriggerRipple(n, RippleParams{
		X: x, Y: y,
		Radius:     float32(b.RippleRadius),
		Amplitude:  float32(b.RippleAmplitude),
		Wavelength: float32(b.RippleWavelength),
		Speed:      float32(b.RippleSpeed),
	})
	m.TriggerSlice(n, SliceParams{
		Y:        y,
		Height:   float32(b.SliceHeight),
		Offset:   float32(b.SliceOffset),
		Duration: float32(b.SliceDuration),
	})
	m.TriggerSwirl(n, SwirlParams{
		X: x, Y: y,
		Radius:           float32(b.SwirlRadius),
		Strength:         float32(b.SwirlStrength),
		CounterClockwise: m.rng.Float32() <= 0.5,
	})
}

// Advance ages every live emitter by dt, applies it to the grid in creation
// order, and drops the ones that retired. Returns the number retired.
func (m *EmitterManager) Advance(g *DisplacementGrid, dt, aspect float32) int {
	alive := 0
	removed := 0
	for _, e := range m.active {
		e.lifecycle().Elapsed += dt

		switch em := e.(type) {
		case *Pulse:
			em.apply(g, aspect)
		case *Ripple:
			em.apply(g, aspect)
		case *Swirl:
			em.apply(g, aspect)
		case *Slice:
			em.apply(g, m.rng.Float32)
		}

		if retired(e) {
			removed++
			continue
		}
		m.active[alive] = e
		alive++
	}
	clear(m.active[alive:])
	m.active = m.active[:alive]
	m.retired += removed
	return removed
}

// Len returns the number of live emitters.
func (m *EmitterManager) Len() int { return len(m.active) }

// Active returns the live emitters in creation order. The slice is owned by
// the manager and is only valid until the next Advance or trigger.
func (m *EmitterManager) Active() []Emitter { return m.active }

// CountByKind returns how many live emitters there are of each kind.
func (m *EmitterManager) CountByKind() map[Kind]int {
	counts := make(map[Kind]int, 4)
	for _, e := range m.active {
		counts[e.Kind()]++
	}
	return counts
}

// Counts returns the totals spawned and retired since creation.
func (m *EmitterManager) Counts() (spawned, retired int) {
	return m.spawned, m.retired
}

// Clear drops every live emitter without counting them as retired.
func (m *EmitterManager) Clear() {
	clear(m.active)
	m.active = m.active[:0]
}
