package lines

import (
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/lines/internal/gpu"
	"github.com/gogpu/lines/internal/triangulate"
)

// Builder accumulates paths into fixed-capacity geometry buffers.
//
// Paths are built through a Context2D or Context3D facade. Every point is
// written once into the line buffers as two copies (one per side of the
// stroke), and line quads are emitted as element indices over those copies.
// Fills are triangulated on the CPU into separate buffers.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	opts   options
	bufs   *Buffers
	cursor Cursor
	synced watermark

	style     Style
	transform Transform
	saves     []savedState

	path      Path
	active    bool
	sealed    bool // end slot written; no more points may be added
	pathCount int
	prevPos   Vec3
	record    int // index into records for the active path, -1 if none
	records   []PathRecord

	flat []float32
	tris []uint32

	renderer  *gpu.LineRenderer
	destroyed bool

	dashWarn       sync.Once
	dashOffsetWarn sync.Once
}

// New creates a headless builder. Its buffers can be inspected and uploaded
// by the caller, but Draw returns ErrNoDevice.
func New(opts ...Option) (*Builder, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	bufs, err := newBuffers(o.capacity, o.dimensions, o.wideIndices)
	if err != nil {
		return nil, err
	}
	b := &Builder{opts: o, bufs: bufs}
	b.cursor.Dimensions = o.dimensions
	b.cursor.Max = o.capacity
	b.Reset()
	Logger().Debug("lines: builder created",
		"dimensions", o.dimensions, "capacity", o.capacity,
		"index_format", bufs.Elements.Format())
	return b, nil
}

// NewWithDevice creates a builder that owns GPU buffers and pipelines on
// device. The caller keeps ownership of device and queue.
func NewWithDevice(device hal.Device, queue hal.Queue, opts ...Option) (*Builder, error) {
	if device == nil || queue == nil {
		return nil, ErrNoDevice
	}
	b, err := New(opts...)
	if err != nil {
		return nil, err
	}
	r := gpu.NewLineRenderer(device, queue, gpu.Config{
		TargetFormat: b.opts.targetFormat,
		DepthFormat:  b.opts.depthFormat,
		SampleCount:  b.opts.sampleCount,
		LineShader:   b.opts.lineShader,
		FillShader:   b.opts.fillShader,
		SPIRV:        b.opts.spirv,
		CullBack:     b.opts.culling,
	})
	if err := r.Allocate(b.bufs.layout()); err != nil {
		r.Destroy()
		return nil, fmt.Errorf("lines: allocate GPU buffers: %w", err)
	}
	b.renderer = r
	Logger().Info("lines: device attached", "capacity", b.cursor.Max, "spirv", b.opts.spirv)
	return b, nil
}

// Context2D returns the 2D drawing facade. On a 3D builder the points are
// placed at z = 0 and 2D transforms act on the 4x4 matrix.
func (b *Builder) Context2D() *Context2D {
	return &Context2D{canvas{b: b}}
}

// Context3D returns the 3D drawing facade, or ErrInvalidDimensions on a
// 2D builder.
func (b *Builder) Context3D() (*Context3D, error) {
	if b.cursor.Dimensions != 3 {
		return nil, fmt.Errorf("%w: 3D context on a %dD builder", ErrInvalidDimensions, b.cursor.Dimensions)
	}
	return &Context3D{canvas{b: b}}, nil
}

// Dimensions returns 2 or 3.
func (b *Builder) Dimensions() int { return b.cursor.Dimensions }

// Cursor returns a copy of the write positions.
func (b *Builder) Cursor() Cursor { return b.cursor }

// Buffers returns the geometry buffers. They are nil after Destroy.
func (b *Builder) Buffers() *Buffers { return b.bufs }

// Style returns the current style.
func (b *Builder) Style() Style { return b.style }

// Transform returns the current transform.
func (b *Builder) Transform() Transform { return b.transform }

// ActivePath returns the path being built, or nil before the first
// BeginPath. The returned Path is reused by the next BeginPath.
func (b *Builder) ActivePath() *Path {
	if !b.active {
		return nil
	}
	return &b.path
}

// PathCount returns the number of subpaths started since the last Reset.
func (b *Builder) PathCount() int { return b.pathCount }

// Paths returns the records of every stroked or filled path since the last
// Reset, in order.
func (b *Builder) Paths() []PathRecord { return b.records }

// Reset clears all geometry and state so the buffers can be refilled.
// Capacity and GPU resources are kept.
func (b *Builder) Reset() {
	b.cursor.reset()
	b.synced = watermark{}
	b.style = defaultStyle()
	b.transform = identityTransform()
	b.saves = b.saves[:0]
	b.path.begin(0)
	b.active = false
	b.sealed = false
	b.pathCount = 0
	b.record = -1
	b.records = b.records[:0]
}

// Resize replaces the buffers with new ones holding n slots and resets the
// builder. Existing geometry is discarded. On error the builder keeps its
// previous buffers and contents.
func (b *Builder) Resize(n int) error {
	if b.destroyed {
		return ErrDestroyed
	}
	bufs, err := newBuffers(n, b.cursor.Dimensions, b.opts.wideIndices)
	if err != nil {
		return err
	}
	if b.renderer != nil {
		if err := b.renderer.Allocate(bufs.layout()); err != nil {
			return fmt.Errorf("lines: resize GPU buffers: %w", err)
		}
	}
	b.bufs = bufs
	b.cursor.Max = n
	b.Reset()
	Logger().Debug("lines: resized", "capacity", n, "index_format", bufs.Elements.Format())
	return nil
}

// Destroy releases the buffers and any GPU resources. Every later call
// returns ErrDestroyed. Safe to call more than once.
func (b *Builder) Destroy() {
	if b.destroyed {
		return
	}
	if b.renderer != nil {
		b.renderer.Destroy()
		b.renderer = nil
	}
	b.bufs = nil
	b.destroyed = true
	b.active = false
}

func (b *Builder) save() {
	b.saves = append(b.saves, savedState{style: b.style, transform: b.transform})
}

func (b *Builder) restore() error {
	n := len(b.saves)
	if n == 0 {
		return ErrEmptySaveStack
	}
	s := b.saves[n-1]
	b.saves = b.saves[:n-1]
	b.style = s.style
	b.transform = s.transform
	return nil
}

func (b *Builder) beginPath() error {
	if b.destroyed {
		return ErrDestroyed
	}
	if b.active {
		b.seal()
	}
	b.path.begin(b.path.Offset + b.path.Count)
	b.active = true
	b.sealed = false
	b.record = -1
	return nil
}

// seal writes the end slot of a subpath that was never stroked, so the
// next subpath starts on a fresh quad.
func (b *Builder) seal() {
	if b.path.Count > 0 && !b.sealed {
		b.finish()
	}
}

// sealSlots returns the slots sealing the active path would write.
func (b *Builder) sealSlots() int {
	if b.active && b.path.Count > 0 && !b.sealed {
		return 1
	}
	return 0
}

func (b *Builder) checkActive() error {
	if b.destroyed {
		return ErrDestroyed
	}
	if !b.active {
		return ErrNoActivePath
	}
	return nil
}

// reserve checks that slots more vertex slots and indices more line
// indices fit. One slot is always held back for the end written by Stroke.
func (b *Builder) reserve(slots, indices int) error {
	if err := checkCapacity("vertex", b.cursor.Vertex+slots+1, b.cursor.Max); err != nil {
		return err
	}
	return checkCapacity("element", b.cursor.LineIndexCount()+indices, b.bufs.Elements.Len())
}

func (b *Builder) transformInput(x, y, z float32) Vec3 {
	p := V3(x, y, z)
	if b.transform.IsIdentity || b.path.IsClosed {
		return p
	}
	if b.cursor.Dimensions == 3 {
		return p.TransformMat4(b.transform.Mat4)
	}
	q := b.transform.Matrix.TransformPoint(p.XY())
	return V3(q.X, q.Y, 0)
}

// moveTo starts a subpath at (x, y, z). A path that already has points is
// sealed first and a new path begins at the next offset.
func (b *Builder) moveTo(x, y, z float32) error {
	if err := b.checkActive(); err != nil {
		return err
	}
	// the end of the previous subpath and both copies of the new start
	if err := b.reserve(b.sealSlots()+2, 0); err != nil {
		return err
	}
	if b.path.Count > 0 {
		b.seal()
		b.path.begin(b.path.Offset + b.path.Count)
		b.sealed = false
		b.record = -1
	}

	pos := b.transformInput(x, y, z)
	v := b.cursor.Vertex
	half := b.style.LineWidth / 2
	for s := v; s < v+2; s++ {
		b.writePosition(s, pos)
		b.writeOffset(s, half)
		b.writeColor(s, b.style.Color)
		b.writeUD(s, b.path.TotalLength)
	}
	b.pathCount++
	b.cursor.Vertex += 2
	b.prevPos = pos
	b.path.addPoint(pos)
	return nil
}

// lineTo appends a point and emits the quad joining it to the previous one.
func (b *Builder) lineTo(x, y, z float32) error {
	if err := b.checkActive(); err != nil {
		return err
	}
	if b.path.Count == 0 {
		return ErrEmptyPath
	}
	if b.sealed {
		return ErrPathStroked
	}
	if err := b.reserve(1, 6); err != nil {
		return err
	}

	pos := b.transformInput(x, y, z)
	b.path.TotalLength += pos.Distance(b.prevPos)

	v := b.cursor.Vertex
	b.writePosition(v, pos)
	b.writeOffset(v, b.style.LineWidth/2)
	b.writeColor(v, b.style.Color)
	b.writeUD(v-1, b.path.TotalLength)

	e := uint32(b.cursor.Element)
	i := b.cursor.LineIndexCount()
	el := &b.bufs.Elements
	el.set(i, e)
	el.set(i+1, e+1)
	el.set(i+2, e+2)
	el.set(i+3, e+2)
	el.set(i+4, e+1)
	el.set(i+5, e+3)

	b.cursor.Quad++
	b.cursor.Element += 2
	b.cursor.Vertex++
	b.prevPos = pos
	b.path.addPoint(pos)
	return nil
}

// closePath appends the first point of the subpath again. The point is
// already transformed, so it is not transformed a second time.
func (b *Builder) closePath() error {
	if err := b.checkActive(); err != nil {
		return err
	}
	if b.path.Count == 0 {
		return ErrEmptyPath
	}
	if b.sealed {
		return ErrPathStroked
	}
	if b.path.IsClosed {
		return nil
	}
	first := b.readPosition(b.cursor.Vertex - b.path.Count)
	b.path.IsClosed = true
	if err := b.lineTo(first.X, first.Y, first.Z); err != nil {
		b.path.IsClosed = false
		return err
	}
	return nil
}

func (b *Builder) stroke() error {
	if err := b.checkActive(); err != nil {
		return err
	}
	if b.path.Count == 0 {
		return ErrEmptyPath
	}
	if b.sealed {
		b.markRecord(true, false)
		return nil
	}
	b.finish()
	b.markRecord(true, false)
	return nil
}

// finish writes the end slot of the subpath: a copy of the last point that
// the shader sees as a line end. A closed subpath also gets its start and
// end neighbours rewired so the seam is joined like any other corner.
// reserve guarantees the slot is free.
func (b *Builder) finish() {
	si := b.cursor.Vertex - b.path.Count
	bi := b.cursor.Vertex - 1
	ai := b.cursor.Vertex

	b.copySlot(ai, bi)
	b.writeUD(bi, b.path.TotalLength)
	b.writeUD(ai, b.path.TotalLength)
	b.cursor.Element += 6
	b.cursor.Vertex++
	b.sealed = true

	if b.path.IsClosed {
		b.copyPosition(si-1, bi-1)
		b.copyPosition(ai, si+1)
	}
}

func (b *Builder) fill() error {
	if err := b.checkActive(); err != nil {
		return err
	}
	n := b.path.fillCount()
	if n == 0 {
		return ErrEmptyPath
	}
	pts := b.path.points[:n]

	b.flat = b.flat[:0]
	for _, p := range pts {
		b.flat = append(b.flat, p.X, p.Y)
	}
	b.tris = triangulate.Polygon(b.tris[:0], b.flat)

	if err := checkCapacity("fill vertex", b.cursor.FillVertex+n, b.cursor.Max); err != nil {
		return err
	}
	if err := checkCapacity("fill element", b.cursor.FillIndexCount()+len(b.tris), b.bufs.FillElements.Len()); err != nil {
		return err
	}

	d := b.cursor.Dimensions
	base := b.cursor.FillVertex
	c := b.style.FillColor.Array()
	for k, p := range pts {
		i := (base + k) * d
		b.bufs.FillPosition[i] = p.X
		b.bufs.FillPosition[i+1] = p.Y
		if d == 3 {
			b.bufs.FillPosition[i+2] = p.Z
		}
		copy(b.bufs.FillColor[(base+k)*4:], c[:])
	}
	at := b.cursor.FillIndexCount()
	for k, idx := range b.tris {
		b.bufs.FillElements.set(at+k, idx+uint32(base))
	}
	b.cursor.FillVertex += n
	b.cursor.FillTri += len(b.tris) / 3
	b.markRecord(false, true)
	return nil
}

// strokeRect reserves the whole rectangle before writing: four corners,
// the closing point and the end slot held back by reserve.
func (b *Builder) strokeRect(x, y, w, h float32) error {
	if b.destroyed {
		return ErrDestroyed
	}
	if err := b.reserve(b.sealSlots()+6, 4*6); err != nil {
		return err
	}
	if err := b.beginPath(); err != nil {
		return err
	}
	if err := b.moveTo(x, y, 0); err != nil {
		return err
	}
	for _, p := range [...]Vec2{{x + w, y}, {x + w, y + h}, {x, y + h}} {
		if err := b.lineTo(p.X, p.Y, 0); err != nil {
			return err
		}
	}
	if err := b.closePath(); err != nil {
		return err
	}
	return b.stroke()
}

// arc samples the circle around (x, y) every π/10 radians of sweep. The
// first sample starts a subpath.
func (b *Builder) arc(x, y, radius, start, end float32, anticlockwise bool) error {
	if err := b.checkActive(); err != nil {
		return err
	}
	sweep := math.Abs(float64(end) - float64(start))
	n := arcSegments(sweep)
	if n == 0 {
		return nil
	}
	// both copies of the first sample, then one slot per segment
	if err := b.reserve(b.sealSlots()+n+1, (n-1)*6); err != nil {
		return err
	}
	dir := 1.0
	if anticlockwise {
		dir = -1
	}
	for i := 0; i < n; i++ {
		a := float64(start)
		if n > 1 {
			a += float64(i) / float64(n-1) * sweep * dir
		}
		sin, cos := math.Sincos(a)
		px := x + radius*float32(cos)
		py := y + radius*float32(sin)
		var err error
		if i == 0 {
			err = b.moveTo(px, py, 0)
		} else {
			err = b.lineTo(px, py, 0)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// arcSegments returns the sample count for a sweep in radians. The small
// tolerance keeps float32 renderings of multiples of π/10 on their count.
func arcSegments(sweep float64) int {
	return int(math.Ceil(sweep/(math.Pi/10) - 1e-6))
}

// markRecord sets the stroked or filled flag on the record of the active
// path, appending the record on first use.
func (b *Builder) markRecord(stroked, filled bool) {
	if b.record < 0 {
		b.records = append(b.records, PathRecord{})
		b.record = len(b.records) - 1
	}
	r := &b.records[b.record]
	r.Offset = b.path.Offset
	r.Count = b.path.Count
	r.TotalLength = b.path.TotalLength
	r.IsClosed = b.path.IsClosed
	r.Stroked = r.Stroked || stroked
	r.Filled = r.Filled || filled
}

func (b *Builder) setLineWidth(w float32) { b.style.LineWidth = w }

func (b *Builder) setGlobalAlpha(a float32) {
	b.style.Color.A = a
	b.style.FillColor.A = a
}

func (b *Builder) setStrokeStyle(s string) error {
	c, err := ParseHex(s)
	if err != nil {
		return err
	}
	c.A = b.style.Color.A
	b.style.Color = c
	b.style.StrokeStyle = s
	return nil
}

func (b *Builder) setFillStyle(s string) error {
	c, err := ParseHex(s)
	if err != nil {
		return err
	}
	c.A = b.style.FillColor.A
	b.style.FillColor = c
	b.style.FillStyle = s
	return nil
}

func (b *Builder) writePosition(slot int, p Vec3) {
	d := b.cursor.Dimensions
	pos := b.bufs.Position
	i := slot * d * 2
	pos[i], pos[i+d] = p.X, p.X
	pos[i+1], pos[i+1+d] = p.Y, p.Y
	if d == 3 {
		pos[i+2], pos[i+2+d] = p.Z, p.Z
	}
}

func (b *Builder) readPosition(slot int) Vec3 {
	d := b.cursor.Dimensions
	pos := b.bufs.Position
	i := slot * d * 2
	if d == 3 {
		return V3(pos[i], pos[i+1], pos[i+2])
	}
	return V3(pos[i], pos[i+1], 0)
}

func (b *Builder) writeOffset(slot int, half float32) {
	b.bufs.Offset[slot*2] = half
	b.bufs.Offset[slot*2+1] = -half
}

func (b *Builder) writeColor(slot int, c RGBA) {
	a := c.Array()
	copy(b.bufs.Color[slot*8:], a[:])
	copy(b.bufs.Color[slot*8+4:], a[:])
}

// writeUD stores the side and the cumulative length for both copies.
func (b *Builder) writeUD(slot int, dist float32) {
	ud := b.bufs.UD[slot*4 : slot*4+4]
	ud[0], ud[1] = 1, dist
	ud[2], ud[3] = -1, dist
}

func (b *Builder) copyPosition(dst, src int) {
	n := b.cursor.Dimensions * 2
	copy(b.bufs.Position[dst*n:dst*n+n], b.bufs.Position[src*n:src*n+n])
}

func (b *Builder) copySlot(dst, src int) {
	b.copyPosition(dst, src)
	copy(b.bufs.Offset[dst*2:dst*2+2], b.bufs.Offset[src*2:src*2+2])
	copy(b.bufs.Color[dst*8:dst*8+8], b.bufs.Color[src*8:src*8+8])
}

func (b *Builder) warnDash(call string) {
	once := &b.dashWarn
	if call == "SetLineDashOffset" {
		once = &b.dashOffsetWarn
	}
	once.Do(func() {
		Logger().Warn("lines: line dashes are not supported, ignoring", "call", call)
	})
}
