// Package lines builds thick polylines for the GPU with a Canvas-like API.
//
// # Overview
//
// lines is a retained-mode path builder. Paths are described with the
// familiar HTML Canvas calls (BeginPath, MoveTo, LineTo, Arc, ClosePath,
// Stroke, Fill) and compiled into fixed-capacity vertex and index buffers.
// Stroke widths, joins and caps are resolved on the GPU by a vertex shader,
// so the same buffers can be drawn at any scale or projection without
// rebuilding them.
//
// # Quick Start
//
//	b, err := lines.New(lines.WithCapacity(4096))
//	if err != nil {
//	    return err
//	}
//	ctx := b.Context2D()
//
//	_ = ctx.BeginPath()
//	ctx.SetLineWidth(4)
//	_ = ctx.SetStrokeStyle("#ff8800")
//	_ = ctx.MoveTo(10, 10)
//	_ = ctx.LineTo(200, 40)
//	_ = ctx.Stroke()
//
// A builder created with NewWithDevice or NewWithProvider also owns the GPU
// side and records its draws into a render pass:
//
//	err := b.Draw(pass, lines.PixelParams(width, height))
//
// The raster subpackage renders the same buffers on the CPU.
//
// # Buffer Layout
//
// Every point occupies one slot, and each slot holds two copies of the
// point, one per side of the stroke. A MoveTo writes two slots. The shader
// reads the previous, current and next point through three windows over one
// position buffer, which is why points are never stored three times.
// Stroke writes one more slot that marks the line end.
//
// All buffers are allocated up front. A call that would write past the end
// fails with ErrCapacityExceeded and leaves the builder unchanged; Resize
// allocates larger buffers and discards the contents.
//
// # Coordinate System
//
// Points are transformed on the CPU by the context transform when they are
// added. DrawParams carries the projection, view and model matrices applied
// on the GPU. PixelParams sets up a y-down pixel space in which line widths
// are in pixels.
//
// # Unsupported
//
// Dashes, curves other than circular arcs, caps and fill rules are not
// implemented. SetLineDash and SetLineDashOffset are accepted and ignored.
package lines

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
