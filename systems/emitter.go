package systems

// Retirement thresholds on an emitter's decaying intensity.
const (
	radialEpsilon = 0.5 // |strength| or |amplitude| below this retires pulse/ripple/swirl
	sliceEpsilon  = 1.0 // |offset| below this retires a slice
)

// Kind identifies an emitter variant.
type Kind uint8

const (
	KindPulse Kind = iota
	KindRipple
	KindSwirl
	KindSlice
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindPulse:
		return "pulse"
	case KindRipple:
		return "ripple"
	case KindSwirl:
		return "swirl"
	case KindSlice:
		return "slice"
	}
	return "unknown"
}

// Lifecycle holds the fields every emitter shares.
type Lifecycle struct {
	Elapsed  float32 // simulated seconds since creation
	Lifetime float32 // seconds until forced retirement
	Decay    float32 // per-step multiplier on the emitter's intensity
}

func (l *Lifecycle) lifecycle() *Lifecycle { return l }

// expired reports whether the emitter has outlived its lifetime.
func (l *Lifecycle) expired() bool { return l.Elapsed > l.Lifetime }

// Emitter is a transient force source. The set of implementations is closed:
// *Pulse, *Ripple, *Swirl and *Slice.
type Emitter interface {
	Kind() Kind
	lifecycle() *Lifecycle
}

// Pulse pushes cells radially away from (or, with negative strength, toward) its center.
type Pulse struct {
	Lifecycle
	X, Y     float32 // grid space
	Radius   float32
	Strength float32
}

// Ripple is a radial wave travelling outward from its center.
type Ripple struct {
	Lifecycle
	X, Y       float32 // grid space
	Radius     float32
	Amplitude  float32
	Wavenumber float32 // 2π / wavelength
	Speed      float32 // grid cells per second
}

// Swirl pushes cells tangentially around its center. Positive strength turns
// one way, negative the other.
type Swirl struct {
	Lifecycle
	X, Y     float32 // grid space
	Radius   float32
	Strength float32
}

// Slice shears a horizontal band of rows along x.
type Slice struct {
	Lifecycle
	Row    float32 // grid-space row at the band center
	Height float32 // band height in rows
	Offset float32
}

func (*Pulse) Kind() Kind  { return KindPulse }
func (*Ripple) Kind() Kind { return KindRipple }
func (*Swirl) Kind() Kind  { return KindSwirl }
func (*Slice) Kind() Kind  { return KindSlice }

// radialKernel evaluates one cell's contribution at offset (dx, dy) from the
// emitter center, given the distance d and smoothstep falloff.
type radialKernel func(dx, dy, d, falloff float32) (fx, fy float32)

// applyRadial scans cells within radius of (cx, cy) and accumulates kernel
// output. The cell at the exact center is skipped.
func applyRadial(g *DisplacementGrid, cx, cy, radius, aspect float32, kernel radialKernel) {
	if radius <= 0 {
		return
	}
	n := g.N
	r2 := radius * radius
	i0, i1 := scanBox(cx, radius*sqrtf(aspect), n)
	j0, j1 := scanBox(cy, radius, n)

	for j := j0; j <= j1; j++ {
		dy := float32(j) - cy
		for i := i0; i <= i1; i++ {
			dx := float32(i) - cx
			d2 := aspectDistanceSq(dx, dy, aspect)
			if d2 > r2 || d2 < minDistSq {
				continue
			}
			d := sqrtf(d2)
			fall := smoothstep(1 - d/radius)
			fx, fy := kernel(dx, dy, d, fall)
			idx := g.Index(i, j)
			g.Data[idx] += fx
			g.Data[idx+1] += fy
		}
	}
}

// apply adds the pulse's radial push to the grid and decays its strength.
func (p *Pulse) apply(g *DisplacementGrid, aspect float32) {
	s := p.Strength
	applyRadial(g, p.X, p.Y, p.Radius, aspect, func(dx, dy, d, fall float32) (float32, float32) {
		f := s * fall
		return f * dx / d, f * dy / d
	})
	p.Strength *= p.Decay
}

// apply adds the ripple's travelling wave to the grid and decays its amplitude.
func (r *Ripple) apply(g *DisplacementGrid, aspect float32) {
	amp, k, speed, t := r.Amplitude, r.Wavenumber, r.Speed, r.Elapsed
	applyRadial(g, r.X, r.Y, r.Radius, aspect, func(dx, dy, d, fall float32) (float32, float32) {
		phase := k * (d - speed*t)
		f := amp * fall * sinf(phase)
		return f * dx / d, f * dy / d
	})
	r.Amplitude *= r.Decay
}

// apply adds the swirl's tangential push to the grid and decays its strength.
func (s *Swirl) apply(g *DisplacementGrid, aspect float32) {
	str := s.Strength
	applyRadial(g, s.X, s.Y, s.Radius, aspect, func(dx, dy, d, fall float32) (float32, float32) {
		f := str * fall
		return f * -dy / d, f * dx / d
	})
	s.Strength *= s.Decay
}

// apply shifts every row in the band along x with per-cell jitter, then
// decays the offset. Each cell draws two values from jitter, x first.
func (s *Slice) apply(g *DisplacementGrid, jitter func() float32) {
	j0, j1 := s.rows(g.N)
	for j := j0; j <= j1; j++ {
		for i := 0; i < g.N; i++ {
			idx := g.Index(i, j)
			g.Data[idx] += s.Offset * (0.85 + 0.3*jitter())
			g.Data[idx+1] += s.Offset * 0.1 * (jitter() - 0.5)
		}
	}
	s.Offset *= s.Decay
}

// rows returns the inclusive row range covered by the band, clamped to the grid.
func (s *Slice) rows(n int) (j0, j1 int) {
	j0 = int(floorf(s.Row - s.Height/2))
	j1 = int(floorf(s.Row + s.Height/2))
	return max(j0, 0), min(j1, n-1)
}

// retired reports whether e should be removed after this step.
func retired(e Emitter) bool {
	if e.lifecycle().expired() {
		return true
	}
	switch em := e.(type) {
	case *Pulse:
		return abs32(em.Strength) < radialEpsilon
	case *Ripple:
		return abs32(em.Amplitude) < radialEpsilon
	case *Swirl:
		return abs32(em.Strength) < radialEpsilon
	case *Slice:
		return abs32(em.Offset) < sliceEpsilon
	}
	return true
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
