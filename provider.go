// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lines

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// NewWithProvider creates a builder on the device shared by a host
// application, such as a gogpu window.
//
// The provider must also implement HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue. Unless WithTargetFormat is given, the
// pipelines target the provider's surface format.
func NewWithProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Builder, error) {
	if provider == nil {
		return nil, ErrNoDevice
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("%w: provider does not expose HAL types", ErrNoDevice)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: provider HalDevice is not hal.Device", ErrNoDevice)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: provider HalQueue is not hal.Queue", ErrNoDevice)
	}

	all := make([]Option, 0, len(opts)+1)
	all = append(all, WithTargetFormat(provider.SurfaceFormat()))
	all = append(all, opts...)
	return NewWithDevice(device, queue, all...)
}
