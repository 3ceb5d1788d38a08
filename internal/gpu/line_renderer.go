// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Config selects the render state of the line and fill pipelines.
type Config struct {
	TargetFormat gputypes.TextureFormat

	// DepthFormat enables depth testing when not TextureFormatUndefined.
	DepthFormat gputypes.TextureFormat

	SampleCount uint32

	// LineShader and FillShader replace the built-in WGSL when non-empty.
	LineShader string
	FillShader string

	// SPIRV compiles shaders with naga before module creation.
	SPIRV bool

	// CullBack culls back faces of line quads. Fills are never culled.
	CullBack bool
}

// LineRenderer owns the GPU side of a line builder: the line and fill
// pipelines, a uniform ring, and one buffer per geometry arena.
//
// Geometry is uploaded with Upload and drawn into a caller-owned render pass
// with RecordDraws. Allocate re-creates the geometry buffers for a new
// capacity; the previous contents are discarded.
type LineRenderer struct {
	device hal.Device
	queue  hal.Queue
	cfg    Config

	lineShader    hal.ShaderModule
	fillShader    hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	linePipeline  hal.RenderPipeline
	fillPipeline  hal.RenderPipeline

	uniformBuf     hal.Buffer
	bindGroups     [UniformSlots]hal.BindGroup
	uniformStaging [uniformSize]byte
	nextSlot       uint32

	layout   Layout
	geometry geometryBuffers
}

// NewLineRenderer creates a renderer for device and queue. Pipelines and
// buffers are created by the first Allocate.
func NewLineRenderer(device hal.Device, queue hal.Queue, cfg Config) *LineRenderer {
	if cfg.SampleCount == 0 {
		cfg.SampleCount = 1
	}
	if cfg.LineShader == "" {
		cfg.LineShader = lineShaderSource
	}
	if cfg.FillShader == "" {
		cfg.FillShader = fillShaderSource
	}
	return &LineRenderer{
		device: device,
		queue:  queue,
		cfg:    cfg,
	}
}

// Layout returns the layout of the current geometry buffers.
func (r *LineRenderer) Layout() Layout { return r.layout }

// Allocate creates geometry buffers for l, replacing any existing ones.
// Pipelines are created on first use and kept while the dimension count
// stays the same.
func (r *LineRenderer) Allocate(l Layout) error {
	if r.linePipeline != nil && r.layout.Dimensions != l.Dimensions {
		r.destroyPipelines()
	}
	if err := r.ensurePipelines(l); err != nil {
		return err
	}
	next, err := createGeometryBuffers(r.device, l)
	if err != nil {
		return err
	}
	r.geometry.destroy(r.device)
	r.geometry = next
	r.layout = l
	slogger().Debug("lines: geometry buffers allocated",
		"lines", l.LinesSize, "fills", l.FillsSize,
		"elements", l.ElementsSize, "fill_elements", l.FillElementsSize,
		"index_format", l.IndexFormat)
	return nil
}

// Upload writes the live geometry ranges into the GPU buffers.
func (r *LineRenderer) Upload(u *Upload) error {
	if r.geometry.lines == nil {
		return fmt.Errorf("upload geometry: buffers not allocated")
	}
	for _, rg := range u.Lines {
		if err := r.write(r.geometry.lines, rg.Offset, rg.Data, r.layout.LinesSize); err != nil {
			return fmt.Errorf("upload lines: %w", err)
		}
	}
	for _, rg := range u.Fills {
		if err := r.write(r.geometry.fills, rg.Offset, rg.Data, r.layout.FillsSize); err != nil {
			return fmt.Errorf("upload fills: %w", err)
		}
	}
	if err := r.write(r.geometry.elements, 0, u.Elements, r.layout.ElementsSize); err != nil {
		return fmt.Errorf("upload elements: %w", err)
	}
	if err := r.write(r.geometry.fillElements, 0, u.FillElements, r.layout.FillElementsSize); err != nil {
		return fmt.Errorf("upload fill elements: %w", err)
	}
	slogger().Debug("lines: geometry uploaded", "bytes", u.Bytes())
	return nil
}

func (r *LineRenderer) write(buf hal.Buffer, offset uint64, data []byte, size uint64) error {
	if len(data) == 0 {
		return nil
	}
	if offset+uint64(len(data)) > size {
		return fmt.Errorf("range [%d, %d) exceeds buffer size %d", offset, offset+uint64(len(data)), size)
	}
	r.queue.WriteBuffer(buf, offset, data)
	return nil
}

// RecordDraws records the fill draw and then the line draw into rp.
// Each call takes the next slot of the uniform ring, so several calls in
// one pass may use different uniforms. At most UniformSlots calls may be
// recorded per queue submission. A zero count skips that draw.
func (r *LineRenderer) RecordDraws(rp hal.RenderPassEncoder, u *Uniforms, lineIndexCount, fillIndexCount uint32) error {
	if lineIndexCount == 0 && fillIndexCount == 0 {
		return nil
	}
	if r.linePipeline == nil || r.geometry.lines == nil {
		return fmt.Errorf("record draws: renderer not allocated")
	}

	slot := r.nextSlot
	r.nextSlot = (r.nextSlot + 1) % UniformSlots
	u.encode(r.uniformStaging[:])
	r.queue.WriteBuffer(r.uniformBuf, uint64(slot)*uniformSlotSize, r.uniformStaging[:])
	bg := r.bindGroups[slot]

	if fillIndexCount > 0 {
		rp.SetPipeline(r.fillPipeline)
		rp.SetBindGroup(0, bg, nil)
		rp.SetVertexBuffer(0, r.geometry.fills, r.layout.FillPosition)
		rp.SetVertexBuffer(1, r.geometry.fills, r.layout.FillColor)
		rp.SetIndexBuffer(r.geometry.fillElements, r.layout.IndexFormat, 0)
		rp.DrawIndexed(fillIndexCount, 1, 0, 0, 0)
	}
	if lineIndexCount > 0 {
		rp.SetPipeline(r.linePipeline)
		rp.SetBindGroup(0, bg, nil)
		for i, off := range lineVertexOffsets(r.layout) {
			rp.SetVertexBuffer(uint32(i), r.geometry.lines, off)
		}
		rp.SetIndexBuffer(r.geometry.elements, r.layout.IndexFormat, 0)
		rp.DrawIndexed(lineIndexCount, 1, 0, 0, 0)
	}
	return nil
}

// Destroy releases all GPU resources. Safe to call more than once.
func (r *LineRenderer) Destroy() {
	if r.device == nil {
		return
	}
	r.geometry.destroy(r.device)
	r.geometry = geometryBuffers{}
	r.destroyPipelines()
}

func (r *LineRenderer) ensurePipelines(l Layout) error {
	if r.linePipeline != nil {
		return nil
	}
	if err := r.createPipelines(l); err != nil {
		r.destroyPipelines()
		return err
	}
	return nil
}

func (r *LineRenderer) createPipelines(l Layout) error { //nolint:funlen // GPU pipeline descriptors are inherently verbose
	lineSrc, err := shaderSource(r.cfg.LineShader, r.cfg.SPIRV)
	if err != nil {
		return fmt.Errorf("line shader: %w", err)
	}
	fillSrc, err := shaderSource(r.cfg.FillShader, r.cfg.SPIRV)
	if err != nil {
		return fmt.Errorf("fill shader: %w", err)
	}

	r.lineShader, err = r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "lines_line_shader",
		Source: lineSrc,
	})
	if err != nil {
		return fmt.Errorf("create line shader: %w", err)
	}
	r.fillShader, err = r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "lines_fill_shader",
		Source: fillSrc,
	})
	if err != nil {
		return fmt.Errorf("create fill shader: %w", err)
	}

	// One uniform block at group(0) binding(0), shared by both pipelines.
	r.uniformLayout, err = r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "lines_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create uniform layout: %w", err)
	}

	r.pipeLayout, err = r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "lines_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}

	cull := gputypes.CullModeNone
	if r.cfg.CullBack {
		cull = gputypes.CullModeBack
	}
	r.linePipeline, err = r.device.CreateRenderPipeline(r.pipelineDescriptor("lines_line_pipeline", r.lineShader, lineVertexLayout(l), cull))
	if err != nil {
		return fmt.Errorf("create line pipeline: %w", err)
	}
	r.fillPipeline, err = r.device.CreateRenderPipeline(r.pipelineDescriptor("lines_fill_pipeline", r.fillShader, fillVertexLayout(l), gputypes.CullModeNone))
	if err != nil {
		return fmt.Errorf("create fill pipeline: %w", err)
	}

	r.uniformBuf, err = r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "lines_uniforms",
		Size:  UniformSlots * uniformSlotSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	// one bind group per ring slot, each viewing its own slice of the buffer
	for i := range r.bindGroups {
		r.bindGroups[i], err = r.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:  "lines_uniform_bind",
			Layout: r.uniformLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{
					Buffer: r.uniformBuf.NativeHandle(),
					Offset: uint64(i) * uniformSlotSize,
					Size:   uniformSize,
				}},
			},
		})
		if err != nil {
			return fmt.Errorf("create uniform bind group %d: %w", i, err)
		}
	}
	r.nextSlot = 0

	slogger().Debug("lines: pipelines created",
		"dimensions", l.Dimensions, "spirv", r.cfg.SPIRV,
		"depth", r.cfg.DepthFormat != gputypes.TextureFormatUndefined)
	return nil
}

func (r *LineRenderer) pipelineDescriptor(label string, shader hal.ShaderModule, buffers []gputypes.VertexBufferLayout, cull gputypes.CullMode) *hal.RenderPipelineDescriptor {
	premulBlend := gputypes.BlendStatePremultiplied()
	desc := &hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: r.pipeLayout,
		Vertex: hal.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    buffers,
		},
		Fragment: &hal.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    r.cfg.TargetFormat,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  cull,
		},
		Multisample: gputypes.MultisampleState{
			Count: r.cfg.SampleCount,
			Mask:  0xFFFFFFFF,
		},
	}
	if r.cfg.DepthFormat != gputypes.TextureFormatUndefined {
		keep := hal.StencilFaceState{
			Compare:     gputypes.CompareFunctionAlways,
			FailOp:      hal.StencilOperationKeep,
			DepthFailOp: hal.StencilOperationKeep,
			PassOp:      hal.StencilOperationKeep,
		}
		desc.DepthStencil = &hal.DepthStencilState{
			Format:            r.cfg.DepthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      gputypes.CompareFunctionLessEqual,
			StencilFront:      keep,
			StencilBack:       keep,
		}
	}
	return desc
}

// destroyPipelines releases pipeline resources in reverse creation order.
func (r *LineRenderer) destroyPipelines() {
	if r.device == nil {
		return
	}
	for i, bg := range r.bindGroups {
		if bg != nil {
			r.device.DestroyBindGroup(bg)
			r.bindGroups[i] = nil
		}
	}
	if r.uniformBuf != nil {
		r.device.DestroyBuffer(r.uniformBuf)
		r.uniformBuf = nil
	}
	if r.fillPipeline != nil {
		r.device.DestroyRenderPipeline(r.fillPipeline)
		r.fillPipeline = nil
	}
	if r.linePipeline != nil {
		r.device.DestroyRenderPipeline(r.linePipeline)
		r.linePipeline = nil
	}
	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.uniformLayout != nil {
		r.device.DestroyBindGroupLayout(r.uniformLayout)
		r.uniformLayout = nil
	}
	if r.fillShader != nil {
		r.device.DestroyShaderModule(r.fillShader)
		r.fillShader = nil
	}
	if r.lineShader != nil {
		r.device.DestroyShaderModule(r.lineShader)
		r.lineShader = nil
	}
}

// geometryBuffers holds one GPU buffer per arena.
type geometryBuffers struct {
	lines        hal.Buffer
	fills        hal.Buffer
	elements     hal.Buffer
	fillElements hal.Buffer
}

func createGeometryBuffers(device hal.Device, l Layout) (geometryBuffers, error) {
	var g geometryBuffers
	specs := []struct {
		dst   *hal.Buffer
		label string
		size  uint64
		usage gputypes.BufferUsage
	}{
		{&g.lines, "lines_vertices", l.LinesSize, gputypes.BufferUsageVertex},
		{&g.fills, "lines_fill_vertices", l.FillsSize, gputypes.BufferUsageVertex},
		{&g.elements, "lines_elements", l.ElementsSize, gputypes.BufferUsageIndex},
		{&g.fillElements, "lines_fill_elements", l.FillElementsSize, gputypes.BufferUsageIndex},
	}
	for _, s := range specs {
		buf, err := device.CreateBuffer(&hal.BufferDescriptor{
			Label: s.label,
			Size:  s.size,
			Usage: s.usage | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			g.destroy(device)
			return geometryBuffers{}, fmt.Errorf("create %s buffer (%d bytes): %w", s.label, s.size, err)
		}
		*s.dst = buf
	}
	return g, nil
}

func (g *geometryBuffers) destroy(device hal.Device) {
	if g.fillElements != nil {
		device.DestroyBuffer(g.fillElements)
		g.fillElements = nil
	}
	if g.elements != nil {
		device.DestroyBuffer(g.elements)
		g.elements = nil
	}
	if g.fills != nil {
		device.DestroyBuffer(g.fills)
		g.fills = nil
	}
	if g.lines != nil {
		device.DestroyBuffer(g.lines)
		g.lines = nil
	}
}
