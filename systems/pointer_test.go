package systems

import (
	"testing"
)

func TestPointerVelocity(t *testing.T) {
	p := NewPointerTracker()

	p.OnMove(0.5, 0.5)
	vx, vy := p.Velocity()
	if vx != 0.5 || vy != 0.5 {
		t.Errorf("expected velocity (0.5, 0.5) from origin, got (%f, %f)", vx, vy)
	}

	p.OnMove(0.6, 0.4)
	vx, vy = p.Velocity()
	if abs32(vx-0.1) > 1e-6 || abs32(vy+0.1) > 1e-6 {
		t.Errorf("expected velocity (0.1, -0.1), got (%f, %f)", vx, vy)
	}

	x, y := p.Position()
	if x != 0.6 || y != 0.4 {
		t.Errorf("expected position (0.6, 0.4), got (%f, %f)", x, y)
	}
}

func TestPointerDampsEveryStep(t *testing.T) {
	g := newTestGrid(t, 32, 1)
	p := NewPointerTracker()
	p.OnMove(0.5, 0.5)
	p.OnMove(0.6, 0.5)

	p.ApplyPush(g, 0.25, 1, 1)
	vx, _ := p.Velocity()
	if abs32(vx-0.1*0.9) > 1e-6 {
		t.Errorf("expected vx damped to 0.09, got %f", vx)
	}

	// Damping still applies with zero influence
	p.ApplyPush(g, 0, 1, 1)
	vx, _ = p.Velocity()
	if abs32(vx-0.1*0.9*0.9) > 1e-6 {
		t.Errorf("expected vx damped to 0.081, got %f", vx)
	}
}

func TestPointerPushDirection(t *testing.T) {
	g := newTestGrid(t, 64, 1)
	g.Clear()
	p := NewPointerTracker()
	p.OnMove(0.5, 0.5)
	p.OnMove(0.55, 0.45) // right and up on screen

	touched := p.ApplyPush(g, 0.25, 1, 1)
	if touched == 0 {
		t.Fatal("expected the push to touch cells")
	}

	// Pointer sits at grid (35.2, 35.2); sample a nearby cell
	dx, dy := g.At(36, 36)
	if dx <= 0 {
		t.Errorf("expected positive x push for rightward motion, got %f", dx)
	}
	if dy <= 0 {
		t.Errorf("expected positive y push for upward motion (y flip), got %f", dy)
	}

	// Far corner is outside maxDist = 16
	if fx, fy := g.At(0, 0); fx != 0 || fy != 0 {
		t.Errorf("expected corner untouched, got (%f, %f)", fx, fy)
	}
}

func TestPointerNoPushWhenIdle(t *testing.T) {
	g := newTestGrid(t, 16, 1)
	g.Clear()
	p := NewPointerTracker()

	if touched := p.ApplyPush(g, 0.5, 1, 1); touched != 0 {
		t.Errorf("expected no cells touched with zero velocity, got %d", touched)
	}

	p.OnMove(0.3, 0.3)
	if touched := p.ApplyPush(g, 0, 1, 1); touched != 0 {
		t.Errorf("expected no cells touched with zero influence, got %d", touched)
	}
	for idx, v := range g.Data {
		if v != 0 {
			t.Fatalf("expected untouched grid, index %d = %f", idx, v)
		}
	}
}

// bruteForcePush is the unbounded O(N²) reference scan.
func bruteForcePush(g *DisplacementGrid, x, y, vx, vy, influence, strength, aspect float32) {
	n := g.N
	maxDist := float32(n) * influence
	maxDistSq := maxDist * maxDist
	gx := float32(n) * x
	gy := float32(n) * (1 - y)
	pushX := strength * pointerForce * vx
	pushY := strength * pointerForce * vy
	for j := 0; j < n; j++ {
		dy := gy - float32(j)
		for i := 0; i < n; i++ {
			dx := gx - float32(i)
			d2 := dx*dx/aspect + dy*dy
			if d2 >= maxDistSq || d2 <= minDistSq {
				continue
			}
			power := clampFloat(maxDist/sqrtf(d2), 0, pointerMaxPower)
			idx := g.Index(i, j)
			g.Data[idx] += pushX * power
			g.Data[idx+1] -= pushY * power
		}
	}
}

func TestPointerBoundingBoxMatchesFullScan(t *testing.T) {
	cases := []struct {
		name      string
		x, y      float32
		influence float32
		aspect    float32
	}{
		{"center", 0.5, 0.5, 0.25, 1},
		{"wide viewport", 0.3, 0.7, 0.2, 0.5625},
		{"tall viewport", 0.9, 0.1, 0.4, 1.8},
		{"edge", 0.0, 1.0, 1.0, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestGrid(t, 48, 5)
			b := newTestGrid(t, 48, 5)

			p := NewPointerTracker()
			p.OnMove(tc.x-0.02, tc.y+0.01)
			p.OnMove(tc.x, tc.y)
			vx, vy := p.Velocity()

			p.ApplyPush(a, tc.influence, 1.3, tc.aspect)
			bruteForcePush(b, tc.x, tc.y, vx, vy, tc.influence, 1.3, tc.aspect)

			for idx := range a.Data {
				if a.Data[idx] != b.Data[idx] {
					t.Fatalf("index %d differs: bounded %f, full %f", idx, a.Data[idx], b.Data[idx])
				}
			}
		})
	}
}

func TestPointerReset(t *testing.T) {
	p := NewPointerTracker()
	p.OnMove(0.4, 0.2)
	p.Reset()

	if vx, vy := p.Velocity(); vx != 0 || vy != 0 {
		t.Errorf("expected zero velocity after reset, got (%f, %f)", vx, vy)
	}
	p.OnMove(0.1, 0.1)
	if vx, _ := p.Velocity(); abs32(vx-0.1) > 1e-6 {
		t.Errorf("expected velocity measured from origin after reset, got %f", vx)
	}
}
