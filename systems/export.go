package systems

// FieldSink receives the field after every published step. Implemented by the
// raylib renderer; data is only valid for the duration of the call.
type FieldSink interface {
	UploadField(data []float32, n, channels int)
}

// FieldExporter exposes the grid as a flat row-major buffer for the rendering
// collaborator. Consumers re-read it every step; nothing is diffed.
type FieldExporter struct {
	grid    *DisplacementGrid
	version uint64
	sinks   []FieldSink
}

// NewFieldExporter creates an exporter over grid.
func NewFieldExporter(grid *DisplacementGrid) *FieldExporter {
	return &FieldExporter{grid: grid}
}

// Attach registers a sink that is pushed the buffer on every Publish.
func (e *FieldExporter) Attach(s FieldSink) {
	e.sinks = append(e.sinks, s)
}

// Publish marks a completed step and pushes the buffer to every sink.
func (e *FieldExporter) Publish() {
	e.version++
	for _, s := range e.sinks {
		s.UploadField(e.grid.Data, e.grid.N, e.grid.Channels)
	}
}

// Version returns how many steps have been published.
func (e *FieldExporter) Version() uint64 { return e.version }

// Buffer returns the live buffer: N²·Channels unclamped signed floats.
func (e *FieldExporter) Buffer() []float32 { return e.grid.Export() }

// Size returns cells per side and floats per cell.
func (e *FieldExporter) Size() (n, channels int) { return e.grid.N, e.grid.Channels }

// CopyTo copies the buffer into dst, growing it if needed, and returns it.
func (e *FieldExporter) CopyTo(dst []float32) []float32 {
	src := e.grid.Export()
	if cap(dst) < len(src) {
		dst = make([]float32, len(src))
	}
	dst = dst[:len(src)]
	copy(dst, src)
	return dst
}
