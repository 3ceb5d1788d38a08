// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// Layout describes the geometry arenas as the GPU sees them. All offsets and
// sizes are in bytes.
type Layout struct {
	Dimensions int

	// Lines arena regions. Position comes first so the prev/curr/next
	// windows over the last slots stay inside the buffer.
	LinesSize uint64
	Position  uint64
	Offset    uint64
	Color     uint64
	UD        uint64

	// Fills arena regions.
	FillsSize    uint64
	FillPosition uint64
	FillColor    uint64

	ElementsSize     uint64
	FillElementsSize uint64
	IndexFormat      gputypes.IndexFormat
}

// positionStride is the byte stride of one vertex copy in the position region.
func (l Layout) positionStride() uint64 {
	return uint64(l.Dimensions) * 4
}

func (l Layout) positionFormat() gputypes.VertexFormat {
	if l.Dimensions == 3 {
		return gputypes.VertexFormatFloat32x3
	}
	return gputypes.VertexFormatFloat32x2
}

// Range is a byte range to write into one of the arenas.
type Range struct {
	Offset uint64
	Data   []byte
}

// Upload carries the live parts of the geometry buffers.
type Upload struct {
	Lines        []Range
	Fills        []Range
	Elements     []byte
	FillElements []byte
}

// Bytes returns the total payload size.
func (u *Upload) Bytes() int {
	n := len(u.Elements) + len(u.FillElements)
	for _, r := range u.Lines {
		n += len(r.Data)
	}
	for _, r := range u.Fills {
		n += len(r.Data)
	}
	return n
}

// Uniforms is the uniform block shared by the line and fill shaders.
//
// WGSL layout:
//
//	projection  mat4x4<f32>  offset   0
//	model       mat4x4<f32>  offset  64
//	view        mat4x4<f32>  offset 128
//	tint        vec4<f32>    offset 192
//	aspect      f32          offset 208
//	thickness   f32          offset 212
//	miter_limit f32          offset 216
//	adjust      u32          offset 220
type Uniforms struct {
	Projection [16]float32
	Model      [16]float32
	View       [16]float32
	Tint       [4]float32

	Aspect     float32
	Thickness  float32
	MiterLimit float32

	AdjustProjectedThickness bool
}

// uniformSize is the byte size of Uniforms in the shader.
const uniformSize = 224

// uniformSlotSize is the stride between slots of the uniform ring. It
// matches the default MinUniformBufferOffsetAlignment.
const uniformSlotSize = 256

// UniformSlots is the number of draws that can be recorded with distinct
// uniforms before the ring wraps. A wrapped slot is rewritten by
// queue.WriteBuffer, so more draws than this in one submission share
// uniforms with the earliest ones.
const UniformSlots = 64

func (u *Uniforms) encode(buf []byte) {
	off := 0
	putMat := func(m *[16]float32) {
		for _, v := range m {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
			off += 4
		}
	}
	putMat(&u.Projection)
	putMat(&u.Model)
	putMat(&u.View)
	for _, v := range u.Tint {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
		off += 4
	}
	binary.LittleEndian.PutUint32(buf[208:], math.Float32bits(u.Aspect))
	binary.LittleEndian.PutUint32(buf[212:], math.Float32bits(u.Thickness))
	binary.LittleEndian.PutUint32(buf[216:], math.Float32bits(u.MiterLimit))
	var adjust uint32
	if u.AdjustProjectedThickness {
		adjust = 1
	}
	binary.LittleEndian.PutUint32(buf[220:], adjust)
}

// lineVertexLayout returns the six vertex buffer slots of the line pipeline.
// Slots 0-2 are windows over the same position region.
func lineVertexLayout(l Layout) []gputypes.VertexBufferLayout {
	stride := l.positionStride()
	format := l.positionFormat()
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: stride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes:  []gputypes.VertexAttribute{{Format: format, Offset: 0, ShaderLocation: 0}}, // prev_position
		},
		{
			ArrayStride: stride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes:  []gputypes.VertexAttribute{{Format: format, Offset: 0, ShaderLocation: 1}}, // curr_position
		},
		{
			ArrayStride: stride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes:  []gputypes.VertexAttribute{{Format: format, Offset: 0, ShaderLocation: 2}}, // next_position
		},
		{
			ArrayStride: 4,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes:  []gputypes.VertexAttribute{{Format: gputypes.VertexFormatFloat32, Offset: 0, ShaderLocation: 3}}, // offset
		},
		{
			ArrayStride: 16,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes:  []gputypes.VertexAttribute{{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 4}}, // color
		},
		{
			ArrayStride: 8,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes:  []gputypes.VertexAttribute{{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 5}}, // ud
		},
	}
}

// lineVertexOffsets returns the byte offset bound to each slot of
// lineVertexLayout. The windows are two vertex copies apart.
func lineVertexOffsets(l Layout) [6]uint64 {
	stride := l.positionStride()
	return [6]uint64{
		l.Position,
		l.Position + 2*stride,
		l.Position + 4*stride,
		l.Offset,
		l.Color,
		l.UD,
	}
}

func fillVertexLayout(l Layout) []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: l.positionStride(),
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes:  []gputypes.VertexAttribute{{Format: l.positionFormat(), Offset: 0, ShaderLocation: 0}},
		},
		{
			ArrayStride: 16,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes:  []gputypes.VertexAttribute{{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 1}},
		},
	}
}
