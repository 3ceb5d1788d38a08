// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/line.wgsl
var lineShaderSource string

//go:embed shaders/fill.wgsl
var fillShaderSource string

// LineShaderSource returns the built-in WGSL line shader. Custom shaders
// passed through Config.LineShader start from it.
func LineShaderSource() string { return lineShaderSource }

// FillShaderSource returns the built-in WGSL fill shader.
func FillShaderSource() string { return fillShaderSource }

// CompileSPIRV compiles WGSL source to SPIR-V words with naga.
func CompileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile shader: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// shaderSource picks the module source for the device: raw WGSL, or SPIR-V
// compiled up front.
func shaderSource(wgsl string, spirv bool) (hal.ShaderSource, error) {
	if !spirv {
		return hal.ShaderSource{WGSL: wgsl}, nil
	}
	words, err := CompileSPIRV(wgsl)
	if err != nil {
		return hal.ShaderSource{}, err
	}
	return hal.ShaderSource{SPIRV: words}, nil
}
