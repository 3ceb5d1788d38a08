// Package raster draws builder geometry into an image on the CPU.
//
// Line vertices are expanded exactly as the line shader does it: every
// element index reads the previous, current and next point through the same
// windows over the position buffer, and the current point is pushed along
// the screen-space miter normal. The resulting triangles are filled with
// golang.org/x/image/vector, one rasterizer pass per run of equally colored
// triangles. Fills are drawn first, then lines, with source-over blending.
//
// The output is meant for previews and tests. There is no depth test and
// no multisampling.
//
// Usage:
//
//	r := raster.New(640, 480)
//	r.Clear(color.White)
//	err := r.Draw(builder, lines.PixelParams(640, 480))
//	png.Encode(f, r.Image())
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/vec"

	"github.com/gogpu/lines"
)

// Renderer rasterizes builder geometry into an RGBA image.
type Renderer struct {
	// Cull drops line triangles that face away (clockwise in clip space),
	// like the GPU pipeline does with culling enabled. Defaults to true.
	Cull bool

	img *image.RGBA
	ras vector.Rasterizer

	run      []vec.Vec2
	runColor lines.RGBA
}

// New creates a renderer with a transparent width x height image.
func New(width, height int) *Renderer {
	return NewFor(image.NewRGBA(image.Rect(0, 0, width, height)))
}

// NewFor creates a renderer drawing into img.
func NewFor(img *image.RGBA) *Renderer {
	return &Renderer{Cull: true, img: img}
}

// Image returns the target image.
func (r *Renderer) Image() *image.RGBA { return r.img }

// Clear fills the image with c.
func (r *Renderer) Clear(c color.Color) {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Draw renders the live geometry of b with the uniforms in p. It reads the
// CPU buffers directly and does not need a Sync.
func (r *Renderer) Draw(b *lines.Builder, p lines.DrawParams) error {
	bufs := b.Buffers()
	if bufs == nil {
		return lines.ErrDestroyed
	}
	s := newStage(bufs, p, r.img.Bounds().Size())
	c := b.Cursor()
	r.drawFills(s, bufs, c.FillIndexCount())
	r.drawLines(s, bufs, c.LineIndexCount())
	return nil
}

func (r *Renderer) drawFills(s *stage, bufs *lines.Buffers, count int) {
	var tri [3]vec.Vec2
	for i := 0; i+2 < count; i += 3 {
		for k := 0; k < 3; k++ {
			v := int(bufs.FillElements.At(i + k))
			tri[k] = s.toPixel(s.pvm.MulVec4(s.fillPoint(v)))
		}
		v := int(bufs.FillElements.At(i))
		r.add(tri, s.tinted(bufs.FillColor[v*4:v*4+4]))
	}
	r.flush()
}

func (r *Renderer) drawLines(s *stage, bufs *lines.Buffers, count int) {
	var tri [3]vec.Vec2
	var clip [3][4]float32
	for i := 0; i+2 < count; i += 3 {
		for k := 0; k < 3; k++ {
			clip[k] = s.lineVertex(int(bufs.Elements.At(i + k)))
			tri[k] = s.toPixel(clip[k])
		}
		if r.Cull && ndcArea(clip) < 0 {
			continue
		}
		v := int(bufs.Elements.At(i))
		r.add(tri, s.tinted(bufs.Color[v*4:v*4+4]))
	}
	r.flush()
}

// add queues a triangle, flushing the pending run when the color changes.
func (r *Renderer) add(tri [3]vec.Vec2, c lines.RGBA) {
	if len(r.run) > 0 && c != r.runColor {
		r.flush()
	}
	r.runColor = c
	// one orientation for the whole run, so overlaps add up instead of
	// cancelling
	if cross(tri[1].Sub(tri[0]), tri[2].Sub(tri[0])) < 0 {
		tri[1], tri[2] = tri[2], tri[1]
	}
	r.run = append(r.run, tri[:]...)
}

func (r *Renderer) flush() {
	if len(r.run) == 0 {
		return
	}
	defer func() { r.run = r.run[:0] }()

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range r.run {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			continue
		}
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	if minX > maxX {
		return
	}
	rect := image.Rect(
		int(math.Floor(clampf(minX))), int(math.Floor(clampf(minY))),
		int(math.Ceil(clampf(maxX))), int(math.Ceil(clampf(maxY))),
	).Intersect(r.img.Bounds())
	if rect.Empty() {
		return
	}

	r.ras.Reset(rect.Dx(), rect.Dy())
	ox, oy := float64(rect.Min.X), float64(rect.Min.Y)
	for i := 0; i+2 < len(r.run); i += 3 {
		t := r.run[i : i+3]
		if !finite(t[0]) || !finite(t[1]) || !finite(t[2]) {
			continue
		}
		r.ras.MoveTo(float32(t[0].X-ox), float32(t[0].Y-oy))
		r.ras.LineTo(float32(t[1].X-ox), float32(t[1].Y-oy))
		r.ras.LineTo(float32(t[2].X-ox), float32(t[2].Y-oy))
		r.ras.ClosePath()
	}
	r.ras.Draw(r.img, rect, image.NewUniform(r.runColor.Color()), image.Point{})
}

func cross(a, b vec.Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

// ndcArea returns twice the signed area of a clip-space triangle after the
// perspective divide. Counter-clockwise is positive.
func ndcArea(c [3][4]float32) float64 {
	var p [3]vec.Vec2
	for k := range c {
		w := float64(c[k][3])
		p[k] = vec.Vec2{X: float64(c[k][0]) / w, Y: float64(c[k][1]) / w}
	}
	return cross(p[1].Sub(p[0]), p[2].Sub(p[0]))
}

func finite(p vec.Vec2) bool {
	return !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0) && !math.IsNaN(p.X) && !math.IsNaN(p.Y)
}

// clampf keeps coordinates inside the int range before rounding.
func clampf(v float64) float64 {
	const limit = 1 << 24
	return math.Max(-limit, math.Min(limit, v))
}
