package main

import (
	"math"
	"sync"

	"github.com/LuoKevin/digital-profile/config"
	"github.com/LuoKevin/digital-profile/game"
	"github.com/LuoKevin/digital-profile/telemetry"
)

// Targets describe the feel being tuned for: how hard the field responds to
// a sweep plus blast, and how quickly it settles afterwards.
type Targets struct {
	PeakRMS   float64 // grid units
	SettleSec float64 // seconds from peak until RMS falls below SettleFrac of it
}

// DefaultTargets returns the reference response.
func DefaultTargets() Targets {
	return Targets{PeakRMS: 40, SettleSec: 1.2}
}

const (
	sweepSec   = 2.0 // scripted pointer sweep before the blast
	observeSec = 6.0 // run time after the blast
	settleFrac = 0.1
)

// runResult is the response measured in one run.
type runResult struct {
	peakRMS   float64
	settleSec float64
}

// FitnessEvaluator runs scripted headless engines and scores their response.
type FitnessEvaluator struct {
	params     *ParamVector
	seeds      []int64
	baseConfig *config.Config
	targets    Targets

	mu   sync.Mutex
	last runResult
}

// NewFitnessEvaluator creates an evaluator over baseCfg.
func NewFitnessEvaluator(params *ParamVector, seeds []int64, baseCfg *config.Config, targets Targets) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		seeds:      seeds,
		baseConfig: baseCfg,
		targets:    targets,
	}
}

// LastResult returns the seed-averaged response from the latest Evaluate.
func (fe *FitnessEvaluator) LastResult() (peakRMS, settleSec float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last.peakRMS, fe.last.settleSec
}

// Evaluate scores raw parameter values (lower is better). Seeds run in
// parallel, each on its own engine.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := *fe.baseConfig
	if err := fe.params.ApplyToConfig(&cfg, x); err != nil {
		return math.Inf(1)
	}

	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = runSimulation(&cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var avg runResult
	for _, r := range results {
		avg.peakRMS += r.peakRMS
		avg.settleSec += r.settleSec
	}
	n := float64(len(results))
	avg.peakRMS /= n
	avg.settleSec /= n

	fe.mu.Lock()
	fe.last = avg
	fe.mu.Unlock()

	return fe.score(avg)
}

// score is the squared relative error against both targets.
func (fe *FitnessEvaluator) score(r runResult) float64 {
	peakErr := (r.peakRMS - fe.targets.PeakRMS) / fe.targets.PeakRMS
	settleErr := (r.settleSec - fe.targets.SettleSec) / fe.targets.SettleSec
	return peakErr*peakErr + settleErr*settleErr
}

// runSimulation sweeps the pointer, fires one blast at the sweep's end and
// measures the RMS response from then on.
func runSimulation(cfg *config.Config, seed int64) runResult {
	e, err := game.NewEngine(game.Options{Seed: seed, Config: cfg, StepsPerUpdate: 1})
	if err != nil {
		return runResult{settleSec: observeSec}
	}
	defer e.Close()

	// Start from rest so only the scripted input shows up in the response
	e.Grid().Clear()

	script := game.DefaultScript()
	script.BlastEvery = 0
	dt := float64(e.Clock().DT())

	sweepSteps := int(sweepSec / dt)
	for i := 0; i < sweepSteps; i++ {
		script.Apply(e)
		e.Tick(dt)
	}

	x, y := script.Position(e.SimTime())
	e.PresetBlast(x, y)

	observeSteps := int(observeSec / dt)
	var res runResult
	peakStep := 0
	settleStep := observeSteps
	cells := e.Grid().N * e.Grid().N
	for i := 0; i < observeSteps; i++ {
		e.Tick(dt)
		rms := telemetry.FieldRMS(e.Exporter().Buffer(), cells)
		if rms > res.peakRMS {
			res.peakRMS = rms
			peakStep = i
			settleStep = observeSteps
		} else if settleStep == observeSteps && rms < settleFrac*res.peakRMS {
			settleStep = i
		}
	}
	res.settleSec = float64(settleStep-peakStep) * dt
	return res
}
