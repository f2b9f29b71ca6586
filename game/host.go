package game

import "github.com/LuoKevin/digital-profile/systems"

// Rect is the host surface in client coordinates.
type Rect struct {
	X, Y, Width, Height float32
}

// Normalize maps a client position into [0,1]² relative to r. Positions
// outside the surface are clamped to its edge.
func (r Rect) Normalize(clientX, clientY float32) (nx, ny float32) {
	if r.Width <= 0 || r.Height <= 0 {
		return 0, 0
	}
	nx = (clientX - r.X) / r.Width
	ny = (clientY - r.Y) / r.Height
	return clamp01(nx), clamp01(ny)
}

// Contains reports whether the client position lies on the surface.
func (r Rect) Contains(clientX, clientY float32) bool {
	return clientX >= r.X && clientX < r.X+r.Width &&
		clientY >= r.Y && clientY < r.Y+r.Height
}

// Aspect returns height/width, or 1 for an empty surface.
func (r Rect) Aspect() float32 {
	if r.Width <= 0 || r.Height <= 0 {
		return 1
	}
	return r.Height / r.Width
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SetSurface records the host surface. A size change updates the aspect
// and regenerates the grid on the next tick, like a window resize.
func (e *Engine) SetSurface(r Rect) {
	resized := r.Width != e.surface.Width || r.Height != e.surface.Height
	e.surface = r
	e.aspect = r.Aspect()
	if resized {
		e.pendingResize = e.grid.N
	}
}

// Surface returns the current host surface.
func (e *Engine) Surface() Rect { return e.surface }

// Aspect returns the viewport aspect (height/width) used by the distance metric.
func (e *Engine) Aspect() float32 { return e.aspect }

// PointerMove feeds a client-space pointer position to the tracker.
func (e *Engine) PointerMove(clientX, clientY float32) {
	nx, ny := e.surface.Normalize(clientX, clientY)
	e.pointer.OnMove(nx, ny)
}

// PointerClick fires the blast preset at a client-space position.
func (e *Engine) PointerClick(clientX, clientY float32) {
	nx, ny := e.surface.Normalize(clientX, clientY)
	e.PresetBlast(nx, ny)
}

// Triggers take normalized surface coordinates, origin top-left.

func (e *Engine) TriggerPulse(p systems.PulseParams) *systems.Pulse {
	return e.emitters.TriggerPulse(e.grid.N, p)
}

func (e *Engine) TriggerRipple(p systems.RippleParams) *systems.Ripple {
	return e.emitters.TriggerRipple(e.grid.N, p)
}

func (e *Engine) TriggerSlice(p systems.SliceParams) *systems.Slice {
	return e.emitters.TriggerSlice(e.grid.N, p)
}

func (e *Engine) TriggerSwirl(p systems.SwirlParams) *systems.Swirl {
	return e.emitters.TriggerSwirl(e.grid.N, p)
}

// PresetBlast spawns the pulse, ripple, slice and swirl combination at (x, y).
func (e *Engine) PresetBlast(x, y float32) {
	e.emitters.PresetBlast(e.grid.N, x, y)
}
