package systems

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/LuoKevin/digital-profile/config"
)

func init() {
	// Initialize config for tests
	config.MustInit("")
}

func newTestGrid(t *testing.T, n int, seed int64) *DisplacementGrid {
	t.Helper()
	g, err := NewDisplacementGrid(n, 3, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("creating grid: %v", err)
	}
	return g
}

func TestGridCreation(t *testing.T) {
	g := newTestGrid(t, 64, 42)

	if g.Size() != 64 {
		t.Errorf("expected size 64, got %d", g.Size())
	}
	if len(g.Export()) != 64*64*3 {
		t.Errorf("expected buffer length %d, got %d", 64*64*3, len(g.Export()))
	}
}

func TestGridSeedIsSmallAndVaried(t *testing.T) {
	g := newTestGrid(t, 32, 7)

	nonZero := 0
	for j := 0; j < g.N; j++ {
		for i := 0; i < g.N; i++ {
			idx := g.Index(i, j)
			dx, dy := g.Data[idx], g.Data[idx+1]
			if dx < -25 || dx > 25 || dy < -25 || dy > 25 {
				t.Fatalf("cell (%d,%d) seeded outside ±25: (%f, %f)", i, j, dx, dy)
			}
			if g.Data[idx+2] != 0 {
				t.Fatalf("cell (%d,%d) has non-zero third channel %f", i, j, g.Data[idx+2])
			}
			if dx != 0 || dy != 0 {
				nonZero++
			}
		}
	}
	if nonZero < g.N*g.N/2 {
		t.Errorf("expected most cells seeded non-zero, got %d of %d", nonZero, g.N*g.N)
	}
}

func TestGridRejectsBadChannels(t *testing.T) {
	_, err := NewDisplacementGrid(16, 4, rand.New(rand.NewSource(1)))
	if !errors.Is(err, config.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration for 4 channels, got %v", err)
	}
}

func TestGridResizeCoercion(t *testing.T) {
	g := newTestGrid(t, 16, 1)

	if err := g.Resize(1); err != nil {
		t.Fatalf("resize(1): %v", err)
	}
	if g.N != 2 {
		t.Errorf("expected resize(1) to coerce to 2, got %d", g.N)
	}

	if err := g.Resize(1000); err != nil {
		t.Fatalf("resize(1000): %v", err)
	}
	if g.N != config.MaxGridSize {
		t.Errorf("expected resize(1000) to coerce to %d, got %d", config.MaxGridSize, g.N)
	}

	for _, n := range []int{0, -5} {
		if err := g.Resize(n); !errors.Is(err, config.ErrInvalidConfiguration) {
			t.Errorf("resize(%d): expected ErrInvalidConfiguration, got %v", n, err)
		}
	}
	// Rejected resizes leave the grid alone
	if g.N != config.MaxGridSize {
		t.Errorf("expected grid to keep size %d after rejected resize, got %d", config.MaxGridSize, g.N)
	}
}

func TestGridResizeReinitializes(t *testing.T) {
	g := newTestGrid(t, 32, 3)

	// Mark every cell with a value the seeding can never produce
	for idx := 0; idx < len(g.Data); idx += g.Channels {
		g.Data[idx] = 1000
		g.Data[idx+1] = -1000
	}

	if err := g.Resize(64); err != nil {
		t.Fatalf("resize: %v", err)
	}

	for j := 0; j < g.N; j++ {
		for i := 0; i < g.N; i++ {
			dx, dy := g.At(i, j)
			if dx == 1000 || dy == -1000 {
				t.Fatalf("cell (%d,%d) carried over old state (%f, %f)", i, j, dx, dy)
			}
			if dx < -25 || dx > 25 || dy < -25 || dy > 25 {
				t.Fatalf("cell (%d,%d) not freshly seeded: (%f, %f)", i, j, dx, dy)
			}
		}
	}
}

func TestGridDecayMonotonic(t *testing.T) {
	g := newTestGrid(t, 32, 11)
	g.Data[g.Index(5, 5)] = 0
	g.Data[g.Index(5, 5)+1] = 0

	before := g.Magnitudes(nil)
	g.Decay(0.9)
	after := g.Magnitudes(nil)

	for c := range before {
		if before[c] == 0 {
			if after[c] != 0 {
				t.Errorf("cell %d: zero vector became %f", c, after[c])
			}
			continue
		}
		if after[c] >= before[c] {
			t.Errorf("cell %d: magnitude did not decrease (%f -> %f)", c, before[c], after[c])
		}
	}
}

func TestGridDecayScalesExactly(t *testing.T) {
	g := newTestGrid(t, 4, 5)
	g.Clear()
	g.AddAt(1, 2, 10, -20)

	g.Decay(0.5)

	dx, dy := g.At(1, 2)
	if dx != 5 || dy != -10 {
		t.Errorf("expected (5, -10) after decay 0.5, got (%f, %f)", dx, dy)
	}
}

func TestGridAddAtOutOfRange(t *testing.T) {
	g := newTestGrid(t, 8, 9)
	snapshot := append([]float32(nil), g.Data...)

	g.AddAt(-1, 0, 5, 5)
	g.AddAt(0, -1, 5, 5)
	g.AddAt(8, 0, 5, 5)
	g.AddAt(0, 8, 5, 5)

	for idx := range snapshot {
		if g.Data[idx] != snapshot[idx] {
			t.Fatalf("out-of-range AddAt modified index %d", idx)
		}
	}

	g.AddAt(7, 7, 1, 2)
	idx := g.Index(7, 7)
	if g.Data[idx] != snapshot[idx]+1 || g.Data[idx+1] != snapshot[idx+1]+2 {
		t.Errorf("in-range AddAt did not accumulate")
	}
}

func TestGridIndex(t *testing.T) {
	g2, err := NewDisplacementGrid(10, 2, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if got := g2.Index(3, 4); got != 2*(3+10*4) {
		t.Errorf("2-channel index: got %d, want %d", got, 2*(3+10*4))
	}

	g3 := newTestGrid(t, 10, 1)
	if got := g3.Index(3, 4); got != 3*(3+10*4) {
		t.Errorf("3-channel index: got %d, want %d", got, 3*(3+10*4))
	}
}

func BenchmarkGridDecay(b *testing.B) {
	g, _ := NewDisplacementGrid(128, 3, rand.New(rand.NewSource(1)))
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		g.Decay(0.999)
	}
}
