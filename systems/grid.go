package systems

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/blas/blas32"

	"github.com/LuoKevin/digital-profile/config"
)

// seedAmplitude is the full width of the random vector each cell gets on resize.
// Components land in [-seedAmplitude/2, seedAmplitude/2).
const seedAmplitude = 50

// DisplacementGrid is a square grid of 2-D displacement vectors stored in one
// flat row-major buffer. Cell (i, j) is column i, row j.
//
// The buffer holds Channels floats per cell. With 3 channels the third float
// is always zero so the buffer can be uploaded as an RGB float texture.
type DisplacementGrid struct {
	N        int
	Channels int
	Data     []float32

	rng *rand.Rand
}

// NewDisplacementGrid allocates an n×n grid and seeds it from rng.
func NewDisplacementGrid(n, channels int, rng *rand.Rand) (*DisplacementGrid, error) {
	if channels != 2 && channels != 3 {
		return nil, fmt.Errorf("%w: channels must be 2 or 3, got %d", config.ErrInvalidConfiguration, channels)
	}
	g := &DisplacementGrid{Channels: channels, rng: rng}
	if err := g.Resize(n); err != nil {
		return nil, err
	}
	return g, nil
}

// Resize reallocates the grid to n×n and reseeds every cell. Previous contents
// are discarded, never interpolated. n is coerced into [2, 256]; a
// non-positive n is rejected.
func (g *DisplacementGrid) Resize(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: grid size must be positive, got %d", config.ErrInvalidConfiguration, n)
	}
	n = config.ClampGridSize(n)

	g.N = n
	g.Data = make([]float32, n*n*g.Channels)
	g.reseed()
	return nil
}

// reseed fills every cell with a small random vector.
func (g *DisplacementGrid) reseed() {
	for idx := 0; idx < len(g.Data); idx += g.Channels {
		g.Data[idx] = (g.rng.Float32() - 0.5) * seedAmplitude
		g.Data[idx+1] = (g.rng.Float32() - 0.5) * seedAmplitude
	}
}

// Size returns the number of cells per side.
func (g *DisplacementGrid) Size() int { return g.N }

// Index returns the buffer offset of cell (i, j)'s x component.
func (g *DisplacementGrid) Index(i, j int) int {
	return g.Channels * (i + g.N*j)
}

// InBounds reports whether (i, j) addresses a cell.
func (g *DisplacementGrid) InBounds(i, j int) bool {
	return i >= 0 && i < g.N && j >= 0 && j < g.N
}

// At returns the vector stored at (i, j), or zero when out of range.
func (g *DisplacementGrid) At(i, j int) (dx, dy float32) {
	if !g.InBounds(i, j) {
		return 0, 0
	}
	idx := g.Index(i, j)
	return g.Data[idx], g.Data[idx+1]
}

// AddAt accumulates (dvx, dvy) into cell (i, j). Out-of-range cells are ignored.
func (g *DisplacementGrid) AddAt(i, j int, dvx, dvy float32) {
	if !g.InBounds(i, j) {
		return
	}
	idx := g.Index(i, j)
	g.Data[idx] += dvx
	g.Data[idx+1] += dvy
}

// Decay multiplies every component by factor. The unused third channel is
// zero, so scaling the whole buffer leaves it untouched.
func (g *DisplacementGrid) Decay(factor float32) {
	blas32.Scal(factor, g.vector())
}

// Clear zeroes every cell without reseeding.
func (g *DisplacementGrid) Clear() {
	clear(g.Data)
}

// Export returns the raw buffer for sampling. Callers must not retain it
// across a Resize.
func (g *DisplacementGrid) Export() []float32 {
	return g.Data
}

// Magnitudes writes |v| for every cell into dst (resized as needed) and returns it.
func (g *DisplacementGrid) Magnitudes(dst []float64) []float64 {
	cells := g.N * g.N
	if cap(dst) < cells {
		dst = make([]float64, cells)
	}
	dst = dst[:cells]
	for c := 0; c < cells; c++ {
		idx := c * g.Channels
		dst[c] = float64(velocityMagnitude(g.Data[idx], g.Data[idx+1]))
	}
	return dst
}

// vector wraps the buffer for blas32 routines.
func (g *DisplacementGrid) vector() blas32.Vector {
	return blas32.Vector{N: len(g.Data), Inc: 1, Data: g.Data}
}
