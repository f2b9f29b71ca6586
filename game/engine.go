package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/LuoKevin/digital-profile/config"
	"github.com/LuoKevin/digital-profile/systems"
	"github.com/LuoKevin/digital-profile/telemetry"
)

// Options configures an Engine.
type Options struct {
	Seed           int64
	Config         *config.Config // nil uses config.Cfg()
	Surface        Rect           // zero value means a square surface
	StepsPerUpdate int            // overrides clock.steps_per_tick when > 0
	LogStats       bool
	StatsWindowSec float64 // 0 uses telemetry.stats_window
	OutputDir      string
}

// FieldParams are the field settings adjustable while running.
type FieldParams struct {
	MouseInfluence float64
	Strength       float64
	Relaxation     float64
}

// Engine owns the grid, pointer, emitters and exporter, and advances them
// in fixed steps. It is driven from a single goroutine; only pointer input
// may arrive concurrently.
type Engine struct {
	cfg *config.Config
	rng *rand.Rand

	grid     *systems.DisplacementGrid
	pointer  *systems.PointerTracker
	emitters *systems.EmitterManager
	exporter *systems.FieldExporter
	clock    *FixedClock

	surface Rect
	aspect  float32

	// Grid size to apply at the start of the next tick, 0 if none
	pendingResize int

	// Telemetry
	perf          *telemetry.PerfCollector
	collector     *telemetry.Collector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.FieldStats)
	mags          []float64
}

var _ Scheduler = (*Engine)(nil)

// NewEngine builds an engine with a grid seeded from opts.Seed. The engine
// works on its own copy of the configuration.
func NewEngine(opts Options) (*Engine, error) {
	src := opts.Config
	if src == nil {
		src = config.Cfg()
	}
	cfg := *src
	if err := cfg.Normalize(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	grid, err := systems.NewDisplacementGrid(cfg.Field.GridSize, cfg.Field.Channels, rng)
	if err != nil {
		return nil, fmt.Errorf("creating grid: %w", err)
	}

	steps := cfg.Clock.StepsPerTick
	if opts.StepsPerUpdate > 0 {
		steps = opts.StepsPerUpdate
	}

	surface := opts.Surface
	if surface.Width <= 0 || surface.Height <= 0 {
		surface = Rect{Width: float32(cfg.Screen.Width), Height: float32(cfg.Screen.Height)}
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	e := &Engine{
		cfg:       &cfg,
		rng:       rng,
		grid:      grid,
		pointer:   systems.NewPointerTracker(),
		emitters:  systems.NewEmitterManager(cfg.Emitters, rng),
		clock:     NewFixedClock(cfg.Derived.DT32, steps),
		surface:   surface,
		aspect:    surface.Aspect(),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector: telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		logStats:  opts.LogStats,
	}
	e.exporter = systems.NewFieldExporter(grid)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("creating output manager: %w", err)
		}
		if err := om.WriteConfig(e.cfg); err != nil {
			om.Close()
			return nil, fmt.Errorf("writing config snapshot: %w", err)
		}
		e.outputManager = om
	}

	return e, nil
}

// Tick runs one host frame: a queued resize, then StepsPerTick fixed steps.
// frameDT only feeds frame telemetry. Returns false once stopped.
func (e *Engine) Tick(frameDT float64) bool {
	if e.clock.Stopped() {
		return false
	}
	if frameDT > 0 {
		e.perf.RecordFrame()
	}

	if e.pendingResize > 0 {
		e.perf.StartStep()
		e.perf.StartPhase(telemetry.PhaseResize)
		e.applyResize()
		e.perf.EndStep()
	}

	for i := 0; i < e.clock.StepsPerTick(); i++ {
		e.step()
	}
	return true
}

// step is one fixed logical step.
func (e *Engine) step() {
	d := &e.cfg.Derived

	e.perf.StartStep()

	e.perf.StartPhase(telemetry.PhaseDecay)
	e.grid.Decay(d.Relaxation32)

	e.perf.StartPhase(telemetry.PhasePointer)
	vx, vy := e.pointer.Velocity()
	cells := e.pointer.ApplyPush(e.grid, d.MouseInfluence32, d.Strength32, e.aspect)
	e.collector.RecordPointer(cells, speed(vx, vy))

	e.perf.StartPhase(telemetry.PhaseEmitters)
	e.emitters.Advance(e.grid, e.clock.DT(), e.aspect)

	e.perf.StartPhase(telemetry.PhaseExport)
	e.exporter.Publish()

	e.clock.advance()

	e.perf.StartPhase(telemetry.PhaseTelemetry)
	e.flushTelemetry()

	e.perf.EndStep()
}

func (e *Engine) applyResize() {
	n := e.pendingResize
	e.pendingResize = 0
	if err := e.grid.Resize(n); err != nil {
		// Requests are validated when queued
		slog.Error("resize failed", "size", n, "error", err)
		return
	}
	e.cfg.Field.GridSize = e.grid.N
	slog.Debug("grid regenerated", "size", e.grid.N, "aspect", e.aspect)
}

// RequestResize queues a grid resize for the start of the next tick. Sizes
// are coerced into [2,256]; non-positive sizes are rejected.
func (e *Engine) RequestResize(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: grid size must be positive, got %d", config.ErrInvalidConfiguration, n)
	}
	e.pendingResize = config.ClampGridSize(n)
	return nil
}

// PendingResize returns the queued grid size, or 0.
func (e *Engine) PendingResize() int { return e.pendingResize }

// Params returns the current field parameters.
func (e *Engine) Params() FieldParams {
	return FieldParams{
		MouseInfluence: e.cfg.Field.MouseInfluence,
		Strength:       e.cfg.Field.Strength,
		Relaxation:     e.cfg.Field.Relaxation,
	}
}

// SetParams updates the field parameters, clamped into their ranges. They
// take effect on the next step.
func (e *Engine) SetParams(p FieldParams) {
	e.cfg.Field.MouseInfluence = p.MouseInfluence
	e.cfg.Field.Strength = p.Strength
	e.cfg.Field.Relaxation = p.Relaxation
	// Grid size is positive here, so Normalize cannot fail
	_ = e.cfg.Normalize()
}

// SetStepsPerTick changes how many steps each Tick runs.
func (e *Engine) SetStepsPerTick(n int) { e.clock.SetStepsPerTick(n) }

// OnStats registers a callback invoked with every flushed stats window.
func (e *Engine) OnStats(fn func(telemetry.FieldStats)) { e.statsCallback = fn }

// Stop halts the engine; further ticks do nothing.
func (e *Engine) Stop() { e.clock.Stop() }

// Stopped reports whether the engine was stopped.
func (e *Engine) Stopped() bool { return e.clock.Stopped() }

// Step returns the number of completed steps.
func (e *Engine) Step() int32 { return e.clock.Step() }

// SimTime returns elapsed logical seconds.
func (e *Engine) SimTime() float64 { return e.clock.SimTime() }

// Config returns the engine's configuration copy.
func (e *Engine) Config() *config.Config { return e.cfg }

func (e *Engine) Grid() *systems.DisplacementGrid { return e.grid }
func (e *Engine) Pointer() *systems.PointerTracker { return e.pointer }
func (e *Engine) Emitters() *systems.EmitterManager { return e.emitters }
func (e *Engine) Exporter() *systems.FieldExporter { return e.exporter }
func (e *Engine) Perf() *telemetry.PerfCollector { return e.perf }
func (e *Engine) Output() *telemetry.OutputManager { return e.outputManager }
func (e *Engine) Clock() *FixedClock { return e.clock }

// Close flushes and closes telemetry output.
func (e *Engine) Close() error {
	return e.outputManager.Close()
}
