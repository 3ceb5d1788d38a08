// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu draws packed line geometry with gogpu/wgpu.
//
// A LineRenderer owns two render pipelines and four buffers:
//
//	lines arena     position | offset | color | ud     (vertex)
//	fills arena     position | color                   (vertex)
//	elements        line quads, uint16 or uint32       (index)
//	fill elements   fill triangles                     (index)
//
// The line pipeline binds the position region three times, two vertex
// copies apart, so each vertex sees its previous, current and next point
// without a separate adjacency buffer. Uniforms live in a small ring
// with one bind group per slot so several draws with different uniforms
// can be recorded into one pass.
package gpu
