package renderer

// OpKind identifies a recorded draw call.
type OpKind uint8

const (
	OpFillRect OpKind = iota
	OpStrokeLine
	OpFillCircle
	OpRadialGradient
)

func (k OpKind) String() string {
	switch k {
	case OpFillRect:
		return "fill_rect"
	case OpStrokeLine:
		return "stroke_line"
	case OpFillCircle:
		return "fill_circle"
	case OpRadialGradient:
		return "radial_gradient"
	}
	return "unknown"
}

// Op is one recorded draw call. Unused fields are zero.
type Op struct {
	Kind   OpKind
	X, Y   float64 // rect origin, line start or circle centre
	X1, Y1 float64 // line end, or rect width/height
	Radius float64
	Width  float64 // line width
	Paint  Paint   // fill or stroke; gradient inner stop
	Outer  Paint   // gradient outer stop
}

// Recorder is a Surface that keeps draw calls instead of pixels.
type Recorder struct {
	width, height int
	frames        int
	resizes       int
	ops           []Op
}

// NewRecorder creates a recorder reporting the given size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{width: width, height: height}
}

// Size returns the reported size.
func (r *Recorder) Size() (int, int) { return r.width, r.height }

// SetSize changes the reported size.
func (r *Recorder) SetSize(width, height int) {
	r.resizes++
	r.width, r.height = width, height
}

// BeginFrame discards the previous frame's ops.
func (r *Recorder) BeginFrame() {
	r.ops = r.ops[:0]
}

// EndFrame counts a completed frame.
func (r *Recorder) EndFrame() {
	r.frames++
}

// FillRect records an OpFillRect; X1 and Y1 hold the width and height.
func (r *Recorder) FillRect(x, y, w, h float64, p Paint) {
	r.ops = append(r.ops, Op{Kind: OpFillRect, X: x, Y: y, X1: w, Y1: h, Paint: p})
}

// StrokeLine records an OpStrokeLine.
func (r *Recorder) StrokeLine(x0, y0, x1, y1, width float64, p Paint) {
	r.ops = append(r.ops, Op{Kind: OpStrokeLine, X: x0, Y: y0, X1: x1, Y1: y1, Width: width, Paint: p})
}

// FillCircle records an OpFillCircle.
func (r *Recorder) FillCircle(x, y, radius float64, p Paint) {
	r.ops = append(r.ops, Op{Kind: OpFillCircle, X: x, Y: y, Radius: radius, Paint: p})
}

// FillRadialGradient records an OpRadialGradient with the inner stop in Paint.
func (r *Recorder) FillRadialGradient(x, y, radius float64, inner, outer Paint) {
	r.ops = append(r.ops, Op{Kind: OpRadialGradient, X: x, Y: y, Radius: radius, Paint: inner, Outer: outer})
}

// Resizes returns how many times SetSize was called.
func (r *Recorder) Resizes() int {
	return r.resizes
}

// Ops returns the draw calls of the last frame.
func (r *Recorder) Ops() []Op {
	return r.ops
}

// Frames returns how many frames have completed.
func (r *Recorder) Frames() int {
	return r.frames
}
