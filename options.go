package lines

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// DefaultCapacity is the slot capacity used when WithCapacity is not given.
const DefaultCapacity = 1024

// Option configures a Builder during creation.
//
// Example:
//
//	// Headless 2D builder with room for 4096 slots
//	b, err := lines.New(lines.WithCapacity(4096))
//
//	// 3D builder drawing into an sRGB swapchain
//	b, err := lines.NewWithDevice(device, queue,
//	    lines.WithDimensions(3),
//	    lines.WithTargetFormat(gputypes.TextureFormatBGRA8UnormSrgb))
type Option func(*options)

type options struct {
	dimensions   int
	capacity     int
	wideIndices  bool
	targetFormat gputypes.TextureFormat
	depthFormat  gputypes.TextureFormat
	sampleCount  uint32
	lineShader   string
	fillShader   string
	spirv        bool
	culling      bool
}

func defaultOptions() options {
	return options{
		dimensions:   2,
		capacity:     DefaultCapacity,
		wideIndices:  true,
		targetFormat: gputypes.TextureFormatBGRA8Unorm,
		sampleCount:  1,
		culling:      true,
	}
}

func (o *options) validate() error {
	if o.dimensions != 2 && o.dimensions != 3 {
		return fmt.Errorf("%w: got %d", ErrInvalidDimensions, o.dimensions)
	}
	if o.capacity < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidCapacity, o.capacity)
	}
	if o.sampleCount == 0 {
		o.sampleCount = 1
	}
	return nil
}

// WithDimensions selects 2D (default) or 3D positions.
func WithDimensions(n int) Option {
	return func(o *options) {
		o.dimensions = n
	}
}

// WithCapacity sets the number of vertex slots the buffers hold.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithWideIndices reports whether 32-bit element indices are available.
// It is on by default, as every WebGPU implementation supports Uint32
// indices. Turning it off limits the capacity to what 16-bit indices can
// address; larger capacities then fail with ErrIndexWidth.
func WithWideIndices(enabled bool) Option {
	return func(o *options) {
		o.wideIndices = enabled
	}
}

// WithTargetFormat sets the color attachment format of the draw pipelines.
func WithTargetFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.targetFormat = f
	}
}

// WithDepthFormat enables depth testing against an attachment of format f.
// Without it the pipelines carry no depth state.
func WithDepthFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.depthFormat = f
	}
}

// WithSampleCount sets the MSAA sample count of the target.
func WithSampleCount(n uint32) Option {
	return func(o *options) {
		o.sampleCount = n
	}
}

// WithLineShader replaces the WGSL source of the line pipeline.
// The shader must keep the vertex inputs and uniform block of the
// built-in line shader.
func WithLineShader(wgsl string) Option {
	return func(o *options) {
		o.lineShader = wgsl
	}
}

// WithFillShader replaces the WGSL source of the fill pipeline.
func WithFillShader(wgsl string) Option {
	return func(o *options) {
		o.fillShader = wgsl
	}
}

// WithSPIRV compiles shaders to SPIR-V with naga before module creation,
// for backends that do not accept WGSL.
func WithSPIRV(enabled bool) Option {
	return func(o *options) {
		o.spirv = enabled
	}
}

// WithCulling toggles back-face culling for the line pipeline.
// Fills are never culled.
func WithCulling(enabled bool) Option {
	return func(o *options) {
		o.culling = enabled
	}
}
