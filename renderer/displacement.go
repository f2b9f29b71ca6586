package renderer

import (
	"image/color"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/LuoKevin/digital-profile/config"
)

// DisplacementRenderer samples the field as a texture and warps an image
// with it. It implements systems.FieldSink.
type DisplacementRenderer struct {
	shader          rl.Shader
	displacementLoc int32
	encodeScaleLoc  int32
	warpStrengthLoc int32

	fieldTex rl.Texture2D
	texN     int
	pixels   []color.RGBA

	imageTex rl.Texture2D

	cfg              config.RenderConfig
	screenW, screenH float32
	initialized      bool
}

// NewDisplacementRenderer creates a renderer. Init runs lazily on the first
// upload, after the raylib window exists.
func NewDisplacementRenderer(cfg config.RenderConfig, screenW, screenH int32) *DisplacementRenderer {
	return &DisplacementRenderer{
		cfg:     cfg,
		screenW: float32(screenW),
		screenH: float32(screenH),
	}
}

// Init loads the shader and the warped image and creates an n×n field texture.
func (r *DisplacementRenderer) Init(n int) {
	if r.initialized {
		return
	}

	r.createFieldTexture(n)

	r.shader = rl.LoadShader("", r.cfg.Shader)
	r.displacementLoc = rl.GetShaderLocation(r.shader, "displacement")
	r.encodeScaleLoc = rl.GetShaderLocation(r.shader, "encodeScale")
	r.warpStrengthLoc = rl.GetShaderLocation(r.shader, "warpStrength")

	if r.cfg.Image != "" {
		r.imageTex = rl.LoadTexture(r.cfg.Image)
	}
	if r.imageTex.ID == 0 {
		if r.cfg.Image != "" {
			slog.Warn("failed to load image, using checkerboard", "path", r.cfg.Image)
		}
		img := rl.GenImageChecked(512, 512, 32, 32, rl.Color{R: 30, G: 34, B: 42, A: 255}, rl.Color{R: 220, G: 224, B: 230, A: 255})
		r.imageTex = rl.LoadTextureFromImage(img)
		rl.UnloadImage(img)
	}
	rl.SetTextureFilter(r.imageTex, rl.FilterBilinear)
	rl.SetTextureWrap(r.imageTex, rl.WrapMirrorRepeat)

	r.initialized = true
}

func (r *DisplacementRenderer) createFieldTexture(n int) {
	img := rl.GenImageColor(n, n, color.RGBA{R: 128, G: 128, B: 0, A: 255})
	r.fieldTex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.fieldTex, rl.FilterBilinear)
	rl.SetTextureWrap(r.fieldTex, rl.WrapClamp)
	rl.UnloadImage(img)
	r.texN = n
}

// Resize updates screen dimensions.
func (r *DisplacementRenderer) Resize(w, h float32) {
	r.screenW = w
	r.screenH = h
}

// UploadField encodes the field into the texture, recreating it when the
// grid size changed.
func (r *DisplacementRenderer) UploadField(data []float32, n, channels int) {
	if !r.initialized {
		r.Init(n)
	}
	if n != r.texN {
		rl.UnloadTexture(r.fieldTex)
		r.createFieldTexture(n)
	}
	r.pixels = EncodeField(r.pixels, data, n, channels, float32(r.cfg.EncodeScale))
	rl.UpdateTexture(r.fieldTex, r.pixels)
}

// EncodeField packs (dx, dy) per cell into RGBA8 around a 128 midpoint, one
// level per scale grid units. Rows are flipped so texture row 0 is the top
// of the surface.
func EncodeField(dst []color.RGBA, data []float32, n, channels int, scale float32) []color.RGBA {
	cells := n * n
	if cap(dst) < cells {
		dst = make([]color.RGBA, cells)
	}
	dst = dst[:cells]
	if scale <= 0 {
		scale = 1
	}
	if len(data) < cells*channels {
		return dst
	}
	for j := 0; j < n; j++ {
		row := (n - 1 - j) * n
		for i := 0; i < n; i++ {
			idx := channels * (i + n*j)
			dst[row+i] = color.RGBA{
				R: encodeByte(data[idx] / scale),
				G: encodeByte(data[idx+1] / scale),
				B: 0,
				A: 255,
			}
		}
	}
	return dst
}

func encodeByte(v float32) uint8 {
	v += 128
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// Draw renders the warped image across the screen.
func (r *DisplacementRenderer) Draw() {
	if !r.initialized {
		return
	}

	rl.SetShaderValue(r.shader, r.encodeScaleLoc, []float32{float32(r.cfg.EncodeScale)}, rl.ShaderUniformFloat)
	rl.SetShaderValue(r.shader, r.warpStrengthLoc, []float32{float32(r.cfg.WarpStrength)}, rl.ShaderUniformFloat)

	src := rl.Rectangle{Width: float32(r.imageTex.Width), Height: float32(r.imageTex.Height)}
	dst := rl.Rectangle{Width: r.screenW, Height: r.screenH}

	rl.BeginShaderMode(r.shader)
	rl.SetShaderValueTexture(r.shader, r.displacementLoc, r.fieldTex)
	rl.DrawTexturePro(r.imageTex, src, dst, rl.Vector2{}, 0, rl.White)
	rl.EndShaderMode()
}

// DrawField draws the raw encoded field in a corner for debugging.
func (r *DisplacementRenderer) DrawField(x, y, size float32) {
	if !r.initialized {
		return
	}
	src := rl.Rectangle{Width: float32(r.texN), Height: float32(r.texN)}
	dst := rl.Rectangle{X: x, Y: y, Width: size, Height: size}
	rl.DrawTexturePro(r.fieldTex, src, dst, rl.Vector2{}, 0, rl.White)
	rl.DrawRectangleLinesEx(dst, 1, rl.Gray)
}

// SetWarpStrength changes how far one grid unit moves the image in UV space.
// Negative values are clamped to zero.
func (r *DisplacementRenderer) SetWarpStrength(v float64) { r.cfg.WarpStrength = max(v, 0) }

// WarpStrength returns the current UV offset per displacement unit.
func (r *DisplacementRenderer) WarpStrength() float64 { return r.cfg.WarpStrength }

// Unload frees GPU resources.
func (r *DisplacementRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadShader(r.shader)
	rl.UnloadTexture(r.fieldTex)
	rl.UnloadTexture(r.imageTex)
	r.initialized = false
}
