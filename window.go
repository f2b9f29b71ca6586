package main

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/LuoKevin/digital-profile/game"
	"github.com/LuoKevin/digital-profile/renderer"
	"github.com/LuoKevin/digital-profile/ui"
)

const (
	panelWidth = 240
	warpStep   = 0.0002
)

// runWindow runs the raylib host: pointer polling, resize, ticks and drawing.
func runWindow(opts game.Options, maxTicks int) int {
	cfg := opts.Config

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Displacement Field")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	opts.Surface = game.Rect{Width: float32(w), Height: float32(h)}

	e, err := game.NewEngine(opts)
	if err != nil {
		slog.Error("failed to create engine", "error", err)
		return 1
	}
	defer e.Close()

	view := renderer.NewDisplacementRenderer(cfg.Render, int32(w), int32(h))
	defer view.Unload()
	e.Exporter().Attach(view)

	hud := ui.NewHUD()
	panel := ui.NewTuningPanel(int32(w)-panelWidth-10, 10, panelWidth, cfg.Render.ShowPanel)
	showField := false

	for !rl.WindowShouldClose() {
		if rl.IsWindowResized() {
			w, h = rl.GetScreenWidth(), rl.GetScreenHeight()
			e.SetSurface(game.Rect{Width: float32(w), Height: float32(h)})
			view.Resize(float32(w), float32(h))
			panel.SetPosition(int32(w)-panelWidth-10, 10)
		}

		handleKeys(e, panel, view, &showField)

		mouse := rl.GetMousePosition()
		overPanel := rl.CheckCollisionPointRec(mouse, panel.Bounds())
		if !overPanel && e.Surface().Contains(mouse.X, mouse.Y) {
			delta := rl.GetMouseDelta()
			if delta.X != 0 || delta.Y != 0 {
				e.PointerMove(mouse.X, mouse.Y)
			}
			if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
				e.PointerClick(mouse.X, mouse.Y)
			}
		}

		e.Tick(float64(rl.GetFrameTime()))
		if maxTicks > 0 && int(e.Step()) >= maxTicks {
			e.Stop()
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		view.Draw()
		if showField {
			view.DrawField(10, 80, 160)
		}
		hud.Draw(ui.HUDData{
			Title:    "Displacement Field",
			Step:     e.Step(),
			GridSize: e.Grid().N,
			Emitters: e.Emitters().Len(),
			FPS:      rl.GetFPS(),
			Stopped:  e.Stopped(),
			Steps:    e.Clock().StepsPerTick(),
		})
		drawPanel(e, panel)
		hud.DrawControls(int32(h), "[Click] blast  [Tab] panel  [F] field  [,/.] steps  [[/]] warp  [S] stop")
		rl.EndDrawing()
	}
	return 0
}

func handleKeys(e *game.Engine, panel *ui.TuningPanel, view *renderer.DisplacementRenderer, showField *bool) {
	if rl.IsKeyPressed(rl.KeyTab) {
		panel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyF) {
		*showField = !*showField
	}
	if rl.IsKeyPressed(rl.KeyS) {
		e.Stop()
	}
	if rl.IsKeyPressed(rl.KeyLeftBracket) {
		view.SetWarpStrength(view.WarpStrength() - warpStep)
	}
	if rl.IsKeyPressed(rl.KeyRightBracket) {
		view.SetWarpStrength(view.WarpStrength() + warpStep)
	}
	steps := e.Clock().StepsPerTick()
	if rl.IsKeyPressed(rl.KeyComma) && steps > 1 {
		e.SetStepsPerTick(steps - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && steps < 10 {
		e.SetStepsPerTick(steps + 1)
	}
}

// drawPanel draws the tuning panel and applies its edits to the engine.
func drawPanel(e *game.Engine, panel *ui.TuningPanel) {
	p := e.Params()
	current := ui.TuningValues{
		GridSize:       e.Grid().N,
		MouseInfluence: p.MouseInfluence,
		Strength:       p.Strength,
		Relaxation:     p.Relaxation,
	}
	if pending := e.PendingResize(); pending > 0 {
		current.GridSize = pending
	}

	next, changed, actions := panel.Draw(current)
	if changed {
		e.SetParams(game.FieldParams{
			MouseInfluence: next.MouseInfluence,
			Strength:       next.Strength,
			Relaxation:     next.Relaxation,
		})
		if next.GridSize != current.GridSize {
			if err := e.RequestResize(next.GridSize); err != nil {
				slog.Warn("resize rejected", "size", next.GridSize, "error", err)
			}
		}
	}
	if actions.Blast {
		e.PresetBlast(0.5, 0.5)
	}
	if actions.Reset {
		e.Emitters().Clear()
		e.Pointer().Reset()
		if err := e.RequestResize(e.Grid().N); err != nil {
			slog.Warn("reset failed", "error", err)
		}
	}
}
