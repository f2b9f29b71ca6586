package game

import (
	"log/slog"
	"math"

	"github.com/LuoKevin/digital-profile/systems"
	"github.com/LuoKevin/digital-profile/telemetry"
)

// flushTelemetry closes the stats window when it is due.
func (e *Engine) flushTelemetry() {
	if !e.collector.ShouldFlush(e.clock.Step()) {
		return
	}

	stats := e.collector.Flush(e.clock.Step(), e.sampleField())

	if e.statsCallback != nil {
		e.statsCallback(stats)
	}

	if e.logStats {
		slog.Info("field", "stats", stats)
		slog.Info("perf", "stats", e.perf.Stats())
	}

	if e.outputManager != nil {
		if err := e.outputManager.WriteField(stats); err != nil {
			slog.Error("failed to write field stats", "error", err)
		}
		if err := e.outputManager.WritePerf(e.perf.Stats(), stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// sampleField gathers the field state for the stats window.
func (e *Engine) sampleField() telemetry.FieldSample {
	e.mags = e.grid.Magnitudes(e.mags)
	counts := e.emitters.CountByKind()
	spawned, retired := e.emitters.Counts()

	return telemetry.FieldSample{
		GridSize:     e.grid.N,
		Cells:        e.grid.N * e.grid.N,
		Data:         e.grid.Data,
		Mags:         e.mags,
		Active:       e.emitters.Len(),
		Pulses:       counts[systems.KindPulse],
		Ripples:      counts[systems.KindRipple],
		Swirls:       counts[systems.KindSwirl],
		Slices:       counts[systems.KindSlice],
		SpawnedTotal: spawned,
		RetiredTotal: retired,
	}
}

func speed(vx, vy float32) float32 {
	return float32(math.Hypot(float64(vx), float64(vy)))
}
