package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/LuoKevin/digital-profile/config"
	"github.com/LuoKevin/digital-profile/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	attrs := flag.String("attrs", "", "Surface attributes, e.g. grid=96,mouse=0.3,strength=1.2,relaxation=0.95")
	headless := flag.Bool("headless", false, "Run without graphics, driven by a scripted pointer")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N steps (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 0, "Simulation steps per tick (0 = use config)")
	blastEvery := flag.Int("blast-every", 90, "Headless: steps between scripted blasts (0 = none)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	overrides, err := config.ParseAttributes(*attrs)
	if err == nil {
		err = cfg.ApplyOverrides(overrides)
	}
	if err != nil {
		slog.Error("invalid surface attributes", "attrs", *attrs, "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:           rngSeed,
		Config:         cfg,
		StepsPerUpdate: *stepsPerUpdate,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
	}

	if *headless {
		os.Exit(runHeadless(opts, *maxTicks, int32(*blastEvery)))
	}
	os.Exit(runWindow(opts, *maxTicks))
}

// runHeadless drives the engine with a scripted pointer until max ticks.
func runHeadless(opts game.Options, maxTicks int, blastEvery int32) int {
	e, err := game.NewEngine(opts)
	if err != nil {
		slog.Error("failed to create engine", "error", err)
		return 1
	}
	defer e.Close()

	script := game.DefaultScript()
	script.BlastEvery = blastEvery

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"grid", e.Grid().N,
		"max_ticks", maxTicks,
		"steps_per_tick", e.Clock().StepsPerTick(),
		"output_dir", opts.OutputDir,
	)

	dt := float64(e.Clock().DT())
	for e.Tick(dt) {
		script.Apply(e)
		if maxTicks > 0 && int(e.Step()) >= maxTicks {
			slog.Info("max ticks reached", "step", e.Step(), "emitters", e.Emitters().Len())
			e.Stop()
		}
	}
	return 0
}
