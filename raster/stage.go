package raster

import (
	"image"
	"math"

	"seehuhn.de/go/geom/vec"

	"github.com/gogpu/lines"
)

// stage holds the resolved uniforms and buffer views for one Draw.
type stage struct {
	bufs *lines.Buffers
	dims int

	pvm        lines.Mat4
	aspect     float64
	thickness  float64
	miterLimit float64
	scale      float64
	tint       lines.RGBA

	width, height float64
}

func newStage(bufs *lines.Buffers, p lines.DrawParams, size image.Point) *stage {
	p = p.Resolved()
	s := &stage{
		bufs:       bufs,
		dims:       bufs.Dimensions(),
		pvm:        p.Projection.Multiply(p.View).Multiply(p.Model),
		aspect:     float64(p.Aspect()),
		thickness:  float64(p.Thickness),
		miterLimit: float64(p.MiterLimit),
		scale:      1,
		tint:       p.Tint,
		width:      float64(size.X),
		height:     float64(size.Y),
	}
	if p.AdjustProjectedThickness {
		px := p.Projection.MulVec4([4]float32{2, 0, 0, 1})
		s.scale = float64(px[0]/px[3]) * s.aspect
	}
	return s
}

// point returns vertex copy i of the line position buffer as a homogeneous
// point. Copies past the end of the buffer read as the origin.
func (s *stage) point(i int) [4]float32 {
	at := i * s.dims
	pos := s.bufs.Position
	if at+s.dims > len(pos) {
		return [4]float32{0, 0, 0, 1}
	}
	if s.dims == 3 {
		return [4]float32{pos[at], pos[at+1], pos[at+2], 1}
	}
	return [4]float32{pos[at], pos[at+1], 0, 1}
}

func (s *stage) fillPoint(v int) [4]float32 {
	at := v * s.dims
	pos := s.bufs.FillPosition
	if s.dims == 3 {
		return [4]float32{pos[at], pos[at+1], pos[at+2], 1}
	}
	return [4]float32{pos[at], pos[at+1], 0, 1}
}

// lineVertex returns the clip-space position of element index i.
func (s *stage) lineVertex(i int) [4]float32 {
	prevIn, currIn, nextIn := s.point(i), s.point(i+2), s.point(i+4)
	prev := s.pvm.MulVec4(prevIn)
	curr := s.pvm.MulVec4(currIn)
	next := s.pvm.MulVec4(nextIn)

	ps, cs, ns := s.screen(prev), s.screen(curr), s.screen(next)
	length := s.thickness * s.scale

	var dir vec.Vec2
	switch {
	case prevIn == currIn:
		dir = unit(ns.Sub(cs))
	case currIn == nextIn:
		dir = unit(cs.Sub(ps))
	default:
		a := unit(cs.Sub(ps))
		if s.miterLimit < 0 {
			dir = a
			break
		}
		b := unit(ns.Sub(cs))
		tangent := unit(a.Add(b))
		perp := vec.Vec2{X: -a.Y, Y: a.X}
		miter := vec.Vec2{X: -tangent.Y, Y: tangent.X}
		dir = tangent
		length /= miter.X*perp.X + miter.Y*perp.Y
	}

	limit := length
	if s.miterLimit >= 0 {
		limit = s.miterLimit * s.scale
	}
	l := math.Max(0, math.Min(length, limit))
	if math.IsNaN(l) {
		l = limit
	}

	offset := float64(s.bufs.Offset[i])
	w := float64(curr[3])
	nx := -dir.Y * l / s.aspect
	ny := dir.X * l
	return [4]float32{
		curr[0] + float32(nx*offset*w),
		curr[1] + float32(ny*offset*w),
		curr[2],
		curr[3],
	}
}

// screen is the aspect-corrected, w-divided position used for directions.
func (s *stage) screen(c [4]float32) vec.Vec2 {
	w := float64(c[3])
	return vec.Vec2{X: float64(c[0]) / w * s.aspect, Y: float64(c[1]) / w}
}

// toPixel maps clip space to y-down pixel coordinates.
func (s *stage) toPixel(c [4]float32) vec.Vec2 {
	w := float64(c[3])
	return vec.Vec2{
		X: (float64(c[0])/w + 1) / 2 * s.width,
		Y: (1 - float64(c[1])/w) / 2 * s.height,
	}
}

func (s *stage) tinted(c []float32) lines.RGBA {
	return lines.RGBA{
		R: c[0] * s.tint.R,
		G: c[1] * s.tint.G,
		B: c[2] * s.tint.B,
		A: c[3] * s.tint.A,
	}
}

// unit normalizes v; the zero vector stays zero.
func unit(v vec.Vec2) vec.Vec2 {
	l := v.Length()
	if l == 0 {
		return vec.Vec2{}
	}
	return v.Mul(1 / l)
}
