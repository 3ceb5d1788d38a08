// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lines

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/lines/internal/gpu"
)

// DrawParams are the per-draw uniforms. A zero matrix is treated as the
// identity, and a zero Tint as opaque white.
type DrawParams struct {
	Projection Mat4
	View       Mat4
	Model      Mat4

	// Tint multiplies every output color.
	Tint RGBA

	// Thickness scales the line width. Zero means 1.
	Thickness float32

	// MiterLimit caps the scale applied to the half width at a join, in the
	// units of Thickness. Zero means DefaultMiterLimit; a negative value
	// disables joins.
	MiterLimit float32

	// AdjustProjectedThickness keeps widths constant in pixels under a
	// perspective projection by scaling offsets with clip w.
	AdjustProjectedThickness bool

	// Viewport size in pixels. The aspect ratio corrects the line normal.
	ViewportWidth  float32
	ViewportHeight float32
}

// DefaultMiterLimit is the miter limit used when DrawParams leaves it zero.
const DefaultMiterLimit = 10

// PixelParams returns parameters for a y-down pixel coordinate system of
// the given viewport size, in which line widths are measured in pixels.
func PixelParams(width, height float32) DrawParams {
	t := 2 / height
	return DrawParams{
		Projection:     Ortho(0, width, height, 0, -1, 1),
		Thickness:      t,
		MiterLimit:     4 * t,
		ViewportWidth:  width,
		ViewportHeight: height,
	}
}

// Resolved returns p with the zero-value defaults filled in.
func (p DrawParams) Resolved() DrawParams {
	p.Projection = orIdentity(p.Projection)
	p.View = orIdentity(p.View)
	p.Model = orIdentity(p.Model)
	if p.Tint == (RGBA{}) {
		p.Tint = RGBA{R: 1, G: 1, B: 1, A: 1}
	}
	if p.Thickness == 0 {
		p.Thickness = 1
	}
	if p.MiterLimit == 0 {
		p.MiterLimit = DefaultMiterLimit
	}
	return p
}

// Aspect returns the viewport aspect ratio, or 1 without a viewport.
func (p DrawParams) Aspect() float32 {
	if p.ViewportWidth > 0 && p.ViewportHeight > 0 {
		return p.ViewportWidth / p.ViewportHeight
	}
	return 1
}

func (p DrawParams) uniforms() gpu.Uniforms {
	r := p.Resolved()
	return gpu.Uniforms{
		Projection:               r.Projection,
		View:                     r.View,
		Model:                    r.Model,
		Tint:                     r.Tint.Array(),
		Aspect:                   r.Aspect(),
		Thickness:                r.Thickness,
		MiterLimit:               r.MiterLimit,
		AdjustProjectedThickness: r.AdjustProjectedThickness,
	}
}

func orIdentity(m Mat4) Mat4 {
	if m == (Mat4{}) {
		return Identity4()
	}
	return m
}

// Dirty reports whether geometry was added since the last Sync.
func (b *Builder) Dirty() bool {
	return b.synced.dirty(b.cursor)
}

// Sync uploads the geometry written since the last Sync. The live prefix of
// every region is uploaded; nothing is sent when the cursor has not moved.
// A headless builder only records that it is in sync.
func (b *Builder) Sync() error {
	if b.destroyed {
		return ErrDestroyed
	}
	if !b.Dirty() {
		return nil
	}
	if b.renderer != nil {
		if err := b.renderer.Upload(b.bufs.upload(b.cursor)); err != nil {
			return fmt.Errorf("lines: sync: %w", err)
		}
	}
	b.synced = watermark{vertex: b.cursor.Vertex, fillVertex: b.cursor.FillVertex}
	return nil
}

// MaxDrawsPerSubmit is the number of Draw calls a builder can record
// between queue submissions. Later calls reuse uniform slots, so their
// params overwrite those of the earliest pending draws.
const MaxDrawsPerSubmit = gpu.UniformSlots

// Draw syncs the buffers and records the fill and line draws into pass.
// The pass must target the format the builder was created with. At most
// MaxDrawsPerSubmit draws may be recorded before the commands are
// submitted.
func (b *Builder) Draw(pass hal.RenderPassEncoder, p DrawParams) error {
	if b.destroyed {
		return ErrDestroyed
	}
	if b.renderer == nil {
		return ErrNoDevice
	}
	if err := b.Sync(); err != nil {
		return err
	}
	u := p.uniforms()
	if err := b.renderer.RecordDraws(pass, &u,
		uint32(b.cursor.LineIndexCount()), //nolint:gosec // bounded by capacity
		uint32(b.cursor.FillIndexCount()), //nolint:gosec // bounded by capacity
	); err != nil {
		return fmt.Errorf("lines: draw: %w", err)
	}
	return nil
}
