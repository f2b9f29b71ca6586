package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds everything the status HUD shows.
type HUDData struct {
	Title    string
	Step     int32
	GridSize int
	Emitters int
	FPS      int32
	Stopped  bool
	Steps    int // steps per tick
}

// HUD renders the status line.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)
	rl.DrawText(
		fmt.Sprintf("Step: %d | Grid: %d | Emitters: %d | %dx | FPS: %d",
			data.Step, data.GridSize, data.Emitters, data.Steps, data.FPS),
		10, 35, 16, rl.LightGray,
	)
	if data.Stopped {
		rl.DrawText("STOPPED", 10, 55, 16, rl.Yellow)
	}
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	h.renderer.DrawHint(10, screenHeight-25, controls)
}
