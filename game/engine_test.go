package game

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/LuoKevin/digital-profile/config"
	"github.com/LuoKevin/digital-profile/systems"
	"github.com/LuoKevin/digital-profile/telemetry"
)

func init() {
	config.MustInit("")
}

func newTestEngine(t *testing.T, seed int64) *Engine {
	t.Helper()
	e, err := NewEngine(Options{Seed: seed, Surface: Rect{Width: 800, Height: 800}})
	if err != nil {
		t.Fatalf("creating engine: %v", err)
	}
	return e
}

// drive runs the same call sequence against an engine.
func drive(e *Engine) {
	e.PointerMove(100, 100)
	for i := 0; i < 30; i++ {
		e.PointerMove(100+float32(i)*12, 100+float32(i)*7)
		if i == 5 {
			e.PointerClick(400, 400)
		}
		if i == 12 {
			e.TriggerRipple(systems.RippleParams{X: 0.2, Y: 0.8})
			e.TriggerSlice(systems.SliceParams{Y: 0.3})
		}
		e.Tick(1.0 / 60)
	}
}

func TestEngineDeterminism(t *testing.T) {
	a := newTestEngine(t, 1234)
	b := newTestEngine(t, 1234)

	drive(a)
	drive(b)

	bufA := a.Exporter().Buffer()
	bufB := b.Exporter().Buffer()
	if len(bufA) != len(bufB) {
		t.Fatalf("buffer lengths differ: %d vs %d", len(bufA), len(bufB))
	}
	for i := range bufA {
		if math.Float32bits(bufA[i]) != math.Float32bits(bufB[i]) {
			t.Fatalf("index %d differs: %v vs %v", i, bufA[i], bufB[i])
		}
	}
}

func TestEngineDifferentSeedsDiffer(t *testing.T) {
	a := newTestEngine(t, 1)
	b := newTestEngine(t, 2)

	same := true
	for i, v := range a.Exporter().Buffer() {
		if v != b.Exporter().Buffer()[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("expected different seeds to seed different grids")
	}
}

func TestEngineTickPublishes(t *testing.T) {
	e := newTestEngine(t, 1)

	for i := 0; i < 3; i++ {
		if !e.Tick(1.0 / 60) {
			t.Fatal("expected Tick to run before Stop")
		}
	}
	if e.Exporter().Version() != 3 {
		t.Errorf("expected 3 published steps, got %d", e.Exporter().Version())
	}
	if e.Step() != 3 {
		t.Errorf("expected step count 3, got %d", e.Step())
	}
	if math.Abs(e.SimTime()-3.0/60) > 1e-6 {
		t.Errorf("expected sim time 0.05, got %f", e.SimTime())
	}
}

func TestEngineFrameTimeDoesNotScaleSteps(t *testing.T) {
	a := newTestEngine(t, 9)
	b := newTestEngine(t, 9)

	a.Tick(1.0 / 60)
	b.Tick(0.5)

	for i, v := range a.Exporter().Buffer() {
		if v != b.Exporter().Buffer()[i] {
			t.Fatalf("frame time changed the step result at index %d", i)
		}
	}
}

func TestEngineStepsPerTick(t *testing.T) {
	e, err := NewEngine(Options{Seed: 1, StepsPerUpdate: 4})
	if err != nil {
		t.Fatal(err)
	}
	e.Tick(1.0 / 60)
	if e.Step() != 4 {
		t.Errorf("expected 4 steps per tick, got %d", e.Step())
	}
}

func TestEngineStop(t *testing.T) {
	e := newTestEngine(t, 1)
	e.Tick(1.0 / 60)
	e.Stop()

	before := e.Exporter().CopyTo(nil)
	if e.Tick(1.0 / 60) {
		t.Error("expected Tick to return false after Stop")
	}
	if !e.Stopped() {
		t.Error("expected Stopped to report true")
	}
	if e.Step() != 1 {
		t.Errorf("expected no steps after Stop, got %d", e.Step())
	}
	for i, v := range e.Exporter().Buffer() {
		if v != before[i] {
			t.Fatalf("stopped engine modified index %d", i)
		}
	}
}

func TestEngineQueuedResize(t *testing.T) {
	e := newTestEngine(t, 1)

	if err := e.RequestResize(32); err != nil {
		t.Fatal(err)
	}
	if e.Grid().N != 64 {
		t.Errorf("expected resize to wait for the next tick, grid is %d", e.Grid().N)
	}

	e.Tick(1.0 / 60)
	if e.Grid().N != 32 {
		t.Errorf("expected grid 32 after tick, got %d", e.Grid().N)
	}
	if len(e.Exporter().Buffer()) != 32*32*3 {
		t.Errorf("expected exporter buffer to follow resize, got %d", len(e.Exporter().Buffer()))
	}
	if e.PendingResize() != 0 {
		t.Error("expected pending resize cleared")
	}
	if e.Config().Field.GridSize != 32 {
		t.Errorf("expected config grid size 32, got %d", e.Config().Field.GridSize)
	}
}

func TestEngineResizeValidation(t *testing.T) {
	e := newTestEngine(t, 1)

	for _, n := range []int{0, -1} {
		if err := e.RequestResize(n); !errors.Is(err, config.ErrInvalidConfiguration) {
			t.Errorf("RequestResize(%d): expected ErrInvalidConfiguration, got %v", n, err)
		}
	}
	if e.PendingResize() != 0 {
		t.Error("rejected resize must not be queued")
	}

	if err := e.RequestResize(1); err != nil {
		t.Fatal(err)
	}
	e.Tick(1.0 / 60)
	if e.Grid().N != 2 {
		t.Errorf("expected size 1 coerced to 2, got %d", e.Grid().N)
	}

	if err := e.RequestResize(4096); err != nil {
		t.Fatal(err)
	}
	e.Tick(1.0 / 60)
	if e.Grid().N != 256 {
		t.Errorf("expected size 4096 coerced to 256, got %d", e.Grid().N)
	}
}

func TestEngineSetSurface(t *testing.T) {
	e := newTestEngine(t, 1)

	e.SetSurface(Rect{Width: 800, Height: 800})
	if e.PendingResize() != 0 {
		t.Error("unchanged surface must not regenerate the grid")
	}

	e.SetSurface(Rect{Width: 1600, Height: 900})
	if got := e.Aspect(); math.Abs(float64(got)-0.5625) > 1e-6 {
		t.Errorf("expected aspect 0.5625, got %f", got)
	}
	if e.PendingResize() != 64 {
		t.Errorf("expected regenerate queued at current size, got %d", e.PendingResize())
	}
}

func TestEngineSetParamsClamps(t *testing.T) {
	e := newTestEngine(t, 1)

	e.SetParams(FieldParams{MouseInfluence: 3, Strength: -1, Relaxation: 0.5})
	p := e.Params()
	if p.MouseInfluence != 1 || p.Strength != 0 || p.Relaxation != 0.7 {
		t.Errorf("expected clamped (1, 0, 0.7), got %+v", p)
	}
	if e.Config().Derived.Relaxation32 != 0.7 {
		t.Errorf("expected derived relaxation refreshed, got %f", e.Config().Derived.Relaxation32)
	}

	// The global config is untouched
	if config.Cfg().Field.Relaxation != 0.9 {
		t.Errorf("expected global relaxation 0.9, got %f", config.Cfg().Field.Relaxation)
	}
}

func TestEngineRejectsBadConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Field.GridSize = 0
	if _, err := NewEngine(Options{Config: cfg}); !errors.Is(err, config.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestEnginePointerNormalization(t *testing.T) {
	e, err := NewEngine(Options{Seed: 1, Surface: Rect{X: 100, Y: 50, Width: 400, Height: 200}})
	if err != nil {
		t.Fatal(err)
	}

	e.PointerMove(300, 100)
	if x, y := e.Pointer().Position(); x != 0.5 || y != 0.25 {
		t.Errorf("expected (0.5, 0.25), got (%f, %f)", x, y)
	}

	e.PointerMove(-50, 1000)
	if x, y := e.Pointer().Position(); x != 0 || y != 1 {
		t.Errorf("expected clamped (0, 1), got (%f, %f)", x, y)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 100, Y: 50, Width: 400, Height: 200}
	for _, tc := range []struct {
		x, y float32
		want bool
	}{
		{100, 50, true},
		{300, 100, true},
		{499, 249, true},
		{500, 100, false},
		{300, 250, false},
		{99, 100, false},
		{300, 49, false},
	} {
		if got := r.Contains(tc.x, tc.y); got != tc.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
	if (Rect{}).Contains(0, 0) {
		t.Error("empty surface should contain nothing")
	}
}

func TestEngineClickSpawnsBlast(t *testing.T) {
	e := newTestEngine(t, 1)
	e.PointerClick(400, 400)

	counts := e.Emitters().CountByKind()
	for _, k := range []systems.Kind{systems.KindPulse, systems.KindRipple, systems.KindSlice, systems.KindSwirl} {
		if counts[k] != 1 {
			t.Errorf("expected one %s, got %d", k, counts[k])
		}
	}
}

// Decay runs before the pointer and emitters: with relaxation r a cell that
// nothing else touches ends the step at exactly r times its old value.
func TestEngineStepOrder(t *testing.T) {
	e := newTestEngine(t, 3)
	e.Grid().Clear()
	e.Grid().AddAt(0, 0, 10, 10)
	e.TriggerPulse(systems.PulseParams{X: 0.5, Y: 0.5, Radius: 4, Strength: 100})

	e.Tick(1.0 / 60)

	r := e.Config().Derived.Relaxation32
	if dx, _ := e.Grid().At(0, 0); dx != 10*r {
		t.Errorf("expected untouched corner decayed once to %f, got %f", 10*r, dx)
	}
	// Emitter output lands after decay, so it is not scaled by r
	if dx, _ := e.Grid().At(34, 32); dx <= 0 {
		t.Errorf("expected pulse push right of center, got %f", dx)
	}
}

func TestEngineStatsAndOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	e, err := NewEngine(Options{Seed: 1, StatsWindowSec: 0.5, OutputDir: dir})
	if err != nil {
		t.Fatal(err)
	}

	var windows []telemetry.FieldStats
	e.OnStats(func(s telemetry.FieldStats) { windows = append(windows, s) })

	script := DefaultScript()
	for i := 0; i < 60; i++ {
		script.Apply(e)
		e.Tick(1.0 / 60)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}

	if len(windows) != 2 {
		t.Fatalf("expected 2 windows in 60 steps of 0.5s windows, got %d", len(windows))
	}
	if windows[0].GridSize != 64 || windows[0].RMS <= 0 {
		t.Errorf("unexpected first window %+v", windows[0])
	}

	for _, name := range []string{"field.csv", "perf.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}
