package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// TuningValues are the live field settings the panel edits.
type TuningValues struct {
	GridSize       int
	MouseInfluence float64
	Strength       float64
	Relaxation     float64
}

// TuningActions are one-shot requests from the panel buttons.
type TuningActions struct {
	Blast bool
	Reset bool
}

// TuningPanel is the raygui slider panel for the field settings.
type TuningPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewTuningPanel creates a panel anchored at (x, y).
func NewTuningPanel(x, y, width int32, visible bool) *TuningPanel {
	return &TuningPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  visible,
	}
}

// Toggle switches panel visibility.
func (p *TuningPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// IsVisible returns whether the panel is shown.
func (p *TuningPanel) IsVisible() bool { return p.visible }

// SetPosition moves the panel, e.g. to keep it right-aligned after a resize.
func (p *TuningPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

func (p *TuningPanel) height() int32 {
	t := p.renderer.Theme
	return t.Padding*2 + t.LineHeight + 4 + 4*(t.LineHeight+t.SliderHeight+6) + 30
}

// Bounds returns the panel area; pointer input inside it belongs to the panel.
func (p *TuningPanel) Bounds() rl.Rectangle {
	if !p.visible {
		return rl.Rectangle{}
	}
	return rl.Rectangle{X: float32(p.x), Y: float32(p.y), Width: float32(p.width), Height: float32(p.height())}
}

// Draw renders the panel and returns the edited values, whether any value
// changed, and the buttons pressed this frame.
func (p *TuningPanel) Draw(v TuningValues) (TuningValues, bool, TuningActions) {
	var actions TuningActions
	if !p.visible {
		return v, false, actions
	}

	r := p.renderer
	t := r.Theme
	r.DrawPanel(p.x, p.y, p.width, p.height())

	x := p.x + t.Padding
	y := r.DrawSectionHeader(x, p.y+t.Padding, "Field")
	sliderW := float32(p.width - t.Padding*2 - 50)

	slider := func(label, value string, cur, lo, hi float32) float32 {
		rl.DrawText(label, x, y, t.FontSize, t.LabelColor)
		y += t.LineHeight
		bounds := rl.Rectangle{X: float32(x), Y: float32(y), Width: sliderW, Height: float32(t.SliderHeight)}
		next := gui.SliderBar(bounds, "", "", cur, lo, hi)
		rl.DrawText(value, x+int32(sliderW)+6, y+2, t.FontSize, t.ValueColor)
		y += t.SliderHeight + 6
		return next
	}

	out := v
	grid := slider("Grid", fmt.Sprintf("%d", v.GridSize), float32(v.GridSize), 2, 256)
	out.GridSize = int(math.Round(float64(grid)))
	out.MouseInfluence = float64(slider("Mouse", fmt.Sprintf("%.2f", v.MouseInfluence), float32(v.MouseInfluence), 0, 1))
	out.Strength = float64(slider("Strength", fmt.Sprintf("%.2f", v.Strength), float32(v.Strength), 0, 2))
	out.Relaxation = float64(slider("Relaxation", fmt.Sprintf("%.3f", v.Relaxation), float32(v.Relaxation), 0.7, 0.999))

	half := float32(p.width-t.Padding*3) / 2
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: half, Height: 24}, "Blast") {
		actions.Blast = true
	}
	if gui.Button(rl.Rectangle{X: float32(x) + half + float32(t.Padding), Y: float32(y), Width: half, Height: 24}, "Reset") {
		actions.Reset = true
	}

	changed := out.GridSize != v.GridSize ||
		!nearlyEqual(out.MouseInfluence, v.MouseInfluence) ||
		!nearlyEqual(out.Strength, v.Strength) ||
		!nearlyEqual(out.Relaxation, v.Relaxation)
	if !changed {
		// Float32 round trips must not register as edits
		return v, false, actions
	}
	return out, true, actions
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}
