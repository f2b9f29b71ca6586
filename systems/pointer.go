package systems

import "sync"

// Pointer push constants.
const (
	pointerDamping  = 0.9  // velocity multiplier applied every step
	pointerForce    = 100  // push per unit of normalized velocity
	pointerMaxPower = 10   // clamp on maxDist/distance
	minDistSq       = 1e-4 // closer than this is treated as the center and skipped
)

// PointerTracker follows the host pointer in normalized [0,1]² coordinates and
// converts its motion into a push on the grid.
//
// OnMove may be called from the host's input goroutine while the simulation
// goroutine calls ApplyPush; both take the mutex.
type PointerTracker struct {
	mu sync.Mutex

	x, y         float32
	prevX, prevY float32
	vx, vy       float32
}

// NewPointerTracker creates a tracker at the origin with zero velocity.
func NewPointerTracker() *PointerTracker {
	return &PointerTracker{}
}

// OnMove records a new normalized position and sets velocity to the delta
// from the previous position.
func (p *PointerTracker) OnMove(nx, ny float32) {
	p.mu.Lock()
	p.x, p.y = nx, ny
	p.vx = nx - p.prevX
	p.vy = ny - p.prevY
	p.prevX, p.prevY = nx, ny
	p.mu.Unlock()
}

// Position returns the last normalized pointer position.
func (p *PointerTracker) Position() (x, y float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.x, p.y
}

// Velocity returns the current (damped) pointer velocity.
func (p *PointerTracker) Velocity() (vx, vy float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vx, p.vy
}

// Reset clears position, history and velocity.
func (p *PointerTracker) Reset() {
	p.mu.Lock()
	p.x, p.y, p.prevX, p.prevY, p.vx, p.vy = 0, 0, 0, 0, 0, 0
	p.mu.Unlock()
}

// ApplyPush adds the pointer's push to every cell within N·influence of the
// pointer, then damps the stored velocity. aspect is the viewport's
// height/width ratio used by the distance metric.
//
// Returns the number of cells touched.
func (p *PointerTracker) ApplyPush(g *DisplacementGrid, influence, strength, aspect float32) int {
	p.mu.Lock()
	x, y, vx, vy := p.x, p.y, p.vx, p.vy
	if vx != 0 || vy != 0 {
		p.vx *= pointerDamping
		p.vy *= pointerDamping
	}
	p.mu.Unlock()

	if (vx == 0 && vy == 0) || influence <= 0 {
		return 0
	}

	n := g.N
	maxDist := float32(n) * influence
	maxDistSq := maxDist * maxDist
	gx := float32(n) * x
	gy := float32(n) * (1 - y)

	pushX := strength * pointerForce * vx
	pushY := strength * pointerForce * vy

	// dx²/aspect < maxDist² bounds |dx| by maxDist·sqrt(aspect)
	i0, i1 := scanBox(gx, maxDist*sqrtf(aspect), n)
	j0, j1 := scanBox(gy, maxDist, n)

	touched := 0
	for j := j0; j <= j1; j++ {
		dy := gy - float32(j)
		for i := i0; i <= i1; i++ {
			dx := gx - float32(i)
			d2 := aspectDistanceSq(dx, dy, aspect)
			if d2 >= maxDistSq || d2 <= minDistSq {
				continue
			}
			power := clampFloat(maxDist/sqrtf(d2), 0, pointerMaxPower)
			idx := g.Index(i, j)
			g.Data[idx] += pushX * power
			g.Data[idx+1] -= pushY * power
			touched++
		}
	}
	return touched
}
