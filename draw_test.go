// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lines

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createNoopDevice(t *testing.T) (hal.Device, hal.Queue) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	require.NoError(t, err)
	adapters := instance.EnumerateAdapters(nil)
	require.NotEmpty(t, adapters)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device, openDev.Queue
}

// beginPass opens a render pass over a small color target and returns a
// function that ends it.
func beginPass(t *testing.T, device hal.Device) (hal.RenderPassEncoder, func()) {
	t.Helper()
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "test_target",
		Size:          hal.Extent3D{Width: 32, Height: 32, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	require.NoError(t, err)
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{Label: "test_target_view"})
	require.NoError(t, err)

	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "test_encoder"})
	require.NoError(t, err)
	require.NoError(t, encoder.BeginEncoding("test_frame"))
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "test_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
		}},
	})
	return rp, func() {
		rp.End()
		cmdBuf, err := encoder.EndEncoding()
		require.NoError(t, err)
		device.FreeCommandBuffer(cmdBuf)
		device.DestroyTextureView(view)
		device.DestroyTexture(tex)
	}
}

// testProvider exposes a noop device the way gogpu providers expose their
// HAL objects.
type testProvider struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat
}

func (p *testProvider) Device() gpucontext.Device             { return nil }
func (p *testProvider) Queue() gpucontext.Queue               { return nil }
func (p *testProvider) Adapter() gpucontext.Adapter           { return nil }
func (p *testProvider) SurfaceFormat() gputypes.TextureFormat { return p.format }
func (p *testProvider) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{} }
func (p *testProvider) HalDevice() any                        { return p.device }
func (p *testProvider) HalQueue() any                         { return p.queue }

// plainProvider has no HAL accessors.
type plainProvider struct{}

func (plainProvider) Device() gpucontext.Device             { return nil }
func (plainProvider) Queue() gpucontext.Queue               { return nil }
func (plainProvider) Adapter() gpucontext.Adapter           { return nil }
func (plainProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }
func (plainProvider) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{} }

func TestDrawParamsResolved(t *testing.T) {
	r := DrawParams{}.Resolved()
	assert.Equal(t, Identity4(), r.Projection)
	assert.Equal(t, Identity4(), r.View)
	assert.Equal(t, Identity4(), r.Model)
	assert.Equal(t, RGBA{1, 1, 1, 1}, r.Tint)
	assert.Equal(t, float32(1), r.Thickness)
	assert.Equal(t, float32(DefaultMiterLimit), r.MiterLimit)
	assert.Equal(t, float32(1), r.Aspect())

	// explicit values survive
	p := DrawParams{
		Model:      Identity4().Translate(V3(1, 0, 0)),
		Tint:       RGBA{A: 0.5},
		Thickness:  0.1,
		MiterLimit: -1,
	}.Resolved()
	assert.Equal(t, Identity4().Translate(V3(1, 0, 0)), p.Model)
	assert.Equal(t, RGBA{A: 0.5}, p.Tint)
	assert.Equal(t, float32(0.1), p.Thickness)
	assert.Equal(t, float32(-1), p.MiterLimit)
}

func TestPixelParams(t *testing.T) {
	p := PixelParams(200, 100)
	assert.InDelta(t, 0.02, p.Thickness, 1e-7)
	assert.InDelta(t, 0.08, p.MiterLimit, 1e-7)
	assert.Equal(t, float32(2), p.Aspect())

	// one pixel of line width spans one pixel of height in clip space
	top := p.Projection.MulVec4([4]float32{0, 0, 0, 1})
	bottom := p.Projection.MulVec4([4]float32{0, 100, 0, 1})
	assert.InDelta(t, 1, top[1], 1e-6)
	assert.InDelta(t, -1, bottom[1], 1e-6)
	assert.InDelta(t, 2.0/100, float64(p.Thickness), 1e-7)
}

func TestDrawParamsUniforms(t *testing.T) {
	u := DrawParams{
		Tint:                     RGBA{0.5, 0.5, 0.5, 1},
		AdjustProjectedThickness: true,
		ViewportWidth:            300,
		ViewportHeight:           150,
	}.uniforms()
	assert.Equal(t, [4]float32{0.5, 0.5, 0.5, 1}, u.Tint)
	assert.Equal(t, float32(2), u.Aspect)
	assert.True(t, u.AdjustProjectedThickness)
	assert.Equal(t, [16]float32(Identity4()), u.Projection)
	assert.Equal(t, float32(1), u.Thickness)
}

func TestNewWithDeviceDraw(t *testing.T) {
	device, queue := createNoopDevice(t)
	b, err := NewWithDevice(device, queue, WithCapacity(64))
	require.NoError(t, err)
	t.Cleanup(b.Destroy)
	require.NotNil(t, b.renderer)

	ctx := b.Context2D()
	require.NoError(t, ctx.BeginPath())
	require.NoError(t, ctx.MoveTo(10, 11))
	require.NoError(t, ctx.LineTo(20, 21))
	require.NoError(t, ctx.LineTo(30, 31))
	require.NoError(t, ctx.ClosePath())
	require.NoError(t, ctx.Fill())
	require.NoError(t, ctx.Stroke())
	assert.True(t, b.Dirty())

	rp, end := beginPass(t, device)
	require.NoError(t, b.Draw(rp, PixelParams(32, 32)))
	assert.False(t, b.Dirty(), "Draw syncs")
	require.NoError(t, b.Draw(rp, PixelParams(32, 32)), "second draw reuses the upload")
	end()

	require.NoError(t, b.Resize(128))
	assert.Equal(t, b.Buffers().layout(), b.renderer.Layout())
	assert.Zero(t, b.Cursor().Vertex)

	b.Destroy()
	assert.Nil(t, b.renderer)
	assert.ErrorIs(t, b.Draw(nil, DrawParams{}), ErrDestroyed)
}

func TestDrawUniformRing(t *testing.T) {
	device, queue := createNoopDevice(t)
	b, err := NewWithDevice(device, queue, WithCapacity(16))
	require.NoError(t, err)
	defer b.Destroy()

	ctx := b.Context2D()
	require.NoError(t, ctx.BeginPath())
	require.NoError(t, ctx.MoveTo(0, 0))
	require.NoError(t, ctx.LineTo(8, 8))
	require.NoError(t, ctx.Stroke())

	assert.Equal(t, 64, MaxDrawsPerSubmit)
	rp, end := beginPass(t, device)
	for i := 0; i < MaxDrawsPerSubmit; i++ {
		p := PixelParams(32, 32)
		p.Tint = RGBA{1, 1, 1, float32(i+1) / MaxDrawsPerSubmit}
		require.NoError(t, b.Draw(rp, p), "draw %d", i)
	}
	end()
}

func TestNewWithDeviceSPIRV(t *testing.T) {
	device, queue := createNoopDevice(t)
	b, err := NewWithDevice(device, queue, WithSPIRV(true), WithCapacity(16))
	require.NoError(t, err)
	defer b.Destroy()

	ctx := b.Context2D()
	require.NoError(t, ctx.BeginPath())
	require.NoError(t, ctx.MoveTo(0, 0))
	require.NoError(t, ctx.LineTo(8, 8))
	require.NoError(t, ctx.Stroke())

	rp, end := beginPass(t, device)
	require.NoError(t, b.Draw(rp, PixelParams(32, 32)))
	end()
}

func TestNewWithDevice3D(t *testing.T) {
	device, queue := createNoopDevice(t)
	b, err := NewWithDevice(device, queue,
		WithDimensions(3),
		WithCapacity(16),
		WithDepthFormat(gputypes.TextureFormatDepth24PlusStencil8),
		WithCulling(false))
	require.NoError(t, err)
	defer b.Destroy()

	ctx, err := b.Context3D()
	require.NoError(t, err)
	require.NoError(t, ctx.BeginPath())
	require.NoError(t, ctx.MoveTo(0, 0, 0))
	require.NoError(t, ctx.LineTo(0, 0, 1))
	require.NoError(t, ctx.Stroke())
	require.NoError(t, b.Sync())
	assert.False(t, b.Dirty())
	assert.Equal(t, 3, b.renderer.Layout().Dimensions)
}

func TestNewWithDeviceInvalidOptions(t *testing.T) {
	device, queue := createNoopDevice(t)
	_, err := NewWithDevice(device, queue, WithDimensions(5))
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestNewWithProvider(t *testing.T) {
	device, queue := createNoopDevice(t)
	p := &testProvider{device: device, queue: queue, format: gputypes.TextureFormatRGBA8Unorm}

	b, err := NewWithProvider(p, WithCapacity(8))
	require.NoError(t, err)
	defer b.Destroy()
	assert.Equal(t, gputypes.TextureFormatRGBA8Unorm, b.opts.targetFormat)

	// caller options win over the surface format
	b2, err := NewWithProvider(p, WithTargetFormat(gputypes.TextureFormatBGRA8Unorm))
	require.NoError(t, err)
	defer b2.Destroy()
	assert.Equal(t, gputypes.TextureFormatBGRA8Unorm, b2.opts.targetFormat)

	_, err = NewWithProvider(plainProvider{})
	assert.True(t, errors.Is(err, ErrNoDevice))

	_, err = NewWithProvider(&testProvider{device: device})
	assert.ErrorIs(t, err, ErrNoDevice, "missing queue")
}
