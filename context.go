package lines

// Context is the drawing surface shared by Context2D and Context3D.
// It follows the HTML Canvas 2D path API where the builder supports it.
type Context interface {
	BeginPath() error
	ClosePath() error
	Arc(x, y, radius, startAngle, endAngle float32, anticlockwise bool) error
	Stroke() error
	StrokeRect(x, y, w, h float32) error
	Fill() error

	Save()
	Restore() error

	LineWidth() float32
	SetLineWidth(w float32)
	GlobalAlpha() float32
	SetGlobalAlpha(a float32)
	StrokeStyle() string
	SetStrokeStyle(s string) error
	FillStyle() string
	SetFillStyle(s string) error

	LineDash() []float32
	SetLineDash(segments []float32)
	LineDashOffset() float32
	SetLineDashOffset(offset float32)

	Builder() *Builder
}

// canvas holds the operations both facades share.
type canvas struct {
	b *Builder
}

// Builder returns the builder behind the context.
func (c canvas) Builder() *Builder { return c.b }

// BeginPath starts a new, empty path. A previous path that was never
// stroked keeps its line geometry.
func (c canvas) BeginPath() error { return c.b.beginPath() }

// ClosePath appends the first point of the current subpath, closing it.
// Calling it on a closed path does nothing.
func (c canvas) ClosePath() error { return c.b.closePath() }

// Arc adds a circular arc around (x, y) from startAngle to endAngle, in
// radians. The arc always starts a new subpath.
func (c canvas) Arc(x, y, radius, startAngle, endAngle float32, anticlockwise bool) error {
	return c.b.arc(x, y, radius, startAngle, endAngle, anticlockwise)
}

// Stroke finishes the current subpath. No more points may be added to it;
// a MoveTo starts a new one.
func (c canvas) Stroke() error { return c.b.stroke() }

// StrokeRect strokes the closed rectangle with corner (x, y) as a path of
// its own.
func (c canvas) StrokeRect(x, y, w, h float32) error { return c.b.strokeRect(x, y, w, h) }

// Fill triangulates the current subpath with the fill color.
func (c canvas) Fill() error { return c.b.fill() }

// Save pushes the style and transform.
func (c canvas) Save() { c.b.save() }

// Restore pops the state pushed by the matching Save.
func (c canvas) Restore() error { return c.b.restore() }

func (c canvas) LineWidth() float32 { return c.b.style.LineWidth }

// SetLineWidth sets the stroke width in pixels for points added after it.
func (c canvas) SetLineWidth(w float32) { c.b.setLineWidth(w) }

// GlobalAlpha returns the alpha applied to stroke and fill colors.
func (c canvas) GlobalAlpha() float32 { return c.b.style.Color.A }

// SetGlobalAlpha sets the alpha of both the stroke and the fill color.
func (c canvas) SetGlobalAlpha(a float32) { c.b.setGlobalAlpha(a) }

func (c canvas) StrokeStyle() string { return c.b.style.StrokeStyle }

// SetStrokeStyle sets the stroke color from a "#rrggbb" string. The alpha
// is left unchanged.
func (c canvas) SetStrokeStyle(s string) error { return c.b.setStrokeStyle(s) }

func (c canvas) FillStyle() string { return c.b.style.FillStyle }

// SetFillStyle sets the fill color from a "#rrggbb" string.
func (c canvas) SetFillStyle(s string) error { return c.b.setFillStyle(s) }

// LineDash always returns nil: dashes are not supported.
func (c canvas) LineDash() []float32 { return nil }

// SetLineDash is ignored. The first call logs a warning.
func (c canvas) SetLineDash([]float32) { c.b.warnDash("SetLineDash") }

// LineDashOffset always returns 0.
func (c canvas) LineDashOffset() float32 { return 0 }

// SetLineDashOffset is ignored. The first call logs a warning.
func (c canvas) SetLineDashOffset(float32) { c.b.warnDash("SetLineDashOffset") }

// Context2D draws with 2D points and an affine transform.
type Context2D struct {
	canvas
}

var _ Context = (*Context2D)(nil)

// MoveTo starts a subpath at (x, y).
func (c *Context2D) MoveTo(x, y float32) error { return c.b.moveTo(x, y, 0) }

// LineTo adds a straight segment to (x, y).
func (c *Context2D) LineTo(x, y float32) error { return c.b.lineTo(x, y, 0) }

// SetTransform replaces the transform with the canvas matrix
// [a c e; b d f; 0 0 1].
func (c *Context2D) SetTransform(a, b, cc, d, e, f float32) {
	m := NewMatrix(a, b, cc, d, e, f)
	t := &c.b.transform
	if c.b.cursor.Dimensions == 3 {
		t.Mat4 = m.Mat4()
	} else {
		t.Matrix = m
	}
	t.IsIdentity = false
}

// Translate moves the origin by (x, y).
func (c *Context2D) Translate(x, y float32) {
	t := &c.b.transform
	if c.b.cursor.Dimensions == 3 {
		t.Mat4 = t.Mat4.Translate(V3(x, y, 0))
	} else {
		t.Matrix = t.Matrix.Multiply(Translate(x, y))
	}
	t.IsIdentity = false
}

// Scale scales the axes by (x, y).
func (c *Context2D) Scale(x, y float32) {
	t := &c.b.transform
	if c.b.cursor.Dimensions == 3 {
		t.Mat4 = t.Mat4.Scale(V3(x, y, 1))
	} else {
		t.Matrix = t.Matrix.Multiply(Scale(x, y))
	}
	t.IsIdentity = false
}

// Rotate rotates the axes by angle radians.
func (c *Context2D) Rotate(angle float32) {
	t := &c.b.transform
	if c.b.cursor.Dimensions == 3 {
		t.Mat4 = t.Mat4.Rotate(angle, AxisZ.Vec())
	} else {
		t.Matrix = t.Matrix.Multiply(Rotate(angle))
	}
	t.IsIdentity = false
}

// Context3D draws with 3D points and a 4x4 transform. It is only available
// on builders created with WithDimensions(3).
type Context3D struct {
	canvas
}

var _ Context = (*Context3D)(nil)

// MoveTo starts a subpath at (x, y, z).
func (c *Context3D) MoveTo(x, y, z float32) error { return c.b.moveTo(x, y, z) }

// LineTo adds a straight segment to (x, y, z).
func (c *Context3D) LineTo(x, y, z float32) error { return c.b.lineTo(x, y, z) }

// SetTransform replaces the transform.
func (c *Context3D) SetTransform(m Mat4) {
	c.b.transform.Mat4 = m
	c.b.transform.IsIdentity = false
}

// Translate moves the origin by (x, y, z).
func (c *Context3D) Translate(x, y, z float32) {
	c.b.transform.Mat4 = c.b.transform.Mat4.Translate(V3(x, y, z))
	c.b.transform.IsIdentity = false
}

// Scale scales the axes by (x, y, z).
func (c *Context3D) Scale(x, y, z float32) {
	c.b.transform.Mat4 = c.b.transform.Mat4.Scale(V3(x, y, z))
	c.b.transform.IsIdentity = false
}

// Rotate rotates by angle radians around a coordinate axis.
func (c *Context3D) Rotate(angle float32, axis Axis) {
	c.RotateAxis(angle, axis.Vec())
}

// RotateAxis rotates by angle radians around an arbitrary axis. A zero
// axis leaves the transform unchanged but still marks it as set.
func (c *Context3D) RotateAxis(angle float32, axis Vec3) {
	c.b.transform.Mat4 = c.b.transform.Mat4.Rotate(angle, axis)
	c.b.transform.IsIdentity = false
}
